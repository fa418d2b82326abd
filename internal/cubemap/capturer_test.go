package cubemap

import (
	"context"
	"errors"
	"testing"

	"emberpipe/internal/logging"
	"emberpipe/internal/render"
	"emberpipe/internal/services"
)

// fakeRenderer paints the whole target with a byte derived from the last
// view, so tests can tell faces and eye positions apart.
type fakeRenderer struct {
	w, h    int
	pix     []byte
	views   []render.View
	resizes int
}

func (r *fakeRenderer) Resize(w, h int) error {
	r.w, r.h = w, h
	r.pix = make([]byte, w*h*4)
	r.resizes++
	return nil
}

func (r *fakeRenderer) Render(view render.View) error {
	r.views = append(r.views, view)
	tag := byte(50 +
		10*int(view.Forward.X) + 20*int(view.Forward.Y) + 30*int(view.Forward.Z) +
		int(view.Position.X*100))
	for i := 0; i < len(r.pix); i += 4 {
		r.pix[i], r.pix[i+1], r.pix[i+2], r.pix[i+3] = tag, tag, tag, 255
	}
	return nil
}

func (r *fakeRenderer) Target() render.Surface { return r }
func (r *fakeRenderer) Width() int             { return r.w }
func (r *fakeRenderer) Height() int            { return r.h }

func (r *fakeRenderer) ReadPixels(dst []byte) error {
	copy(dst, r.pix)
	return nil
}

func newCapturer(t *testing.T) (*Capturer, *fakeRenderer) {
	t.Helper()
	renderer := &fakeRenderer{}
	c, err := NewCapturer(renderer, 1.0, logging.NewNop())
	if err != nil {
		t.Fatalf("NewCapturer: %v", err)
	}
	return c, renderer
}

func TestCaptureProducesSixDistinctFaces(t *testing.T) {
	c, renderer := newCapturer(t)

	set, err := c.Capture(context.Background(), 3, render.Vec3{}, 64)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if set.Resolution != 16 {
		t.Fatalf("Resolution = %d, want 16", set.Resolution)
	}
	if len(renderer.views) != 6 {
		t.Fatalf("rendered %d views, want 6", len(renderer.views))
	}

	seen := map[byte]Face{}
	for f := Face(0); f < faceCount; f++ {
		face := set.Face(f)
		if face == nil {
			t.Fatalf("face %s missing", f)
		}
		if face.Width != 16 || face.Height != 16 {
			t.Fatalf("face %s is %dx%d", f, face.Width, face.Height)
		}
		if face.FrameNumber != 3 {
			t.Fatalf("face %s frame number %d", f, face.FrameNumber)
		}
		tag := face.PixelData[0]
		if prev, dup := seen[tag]; dup {
			t.Fatalf("faces %s and %s captured identical pixels", prev, f)
		}
		seen[tag] = f
	}
}

func TestFaceResolutionTracksOutputWidth(t *testing.T) {
	c, renderer := newCapturer(t)
	ctx := context.Background()

	if _, err := c.Capture(ctx, 0, render.Vec3{}, 4096); err != nil {
		t.Fatalf("Capture 4096: %v", err)
	}
	if renderer.w != 1024 {
		t.Fatalf("face size %d, want 1024", renderer.w)
	}
	resizes := renderer.resizes

	if _, err := c.Capture(ctx, 1, render.Vec3{}, 4096); err != nil {
		t.Fatalf("Capture same width: %v", err)
	}
	if renderer.resizes != resizes {
		t.Fatal("unchanged width should not resize the renderer")
	}

	if _, err := c.Capture(ctx, 2, render.Vec3{}, 8192); err != nil {
		t.Fatalf("Capture 8192: %v", err)
	}
	if renderer.w != 2048 {
		t.Fatalf("face size after change %d, want 2048", renderer.w)
	}
}

func TestCaptureRejectsBadWidth(t *testing.T) {
	c, _ := newCapturer(t)
	for _, width := range []int{0, -4, 30} {
		if _, err := c.Capture(context.Background(), 0, render.Vec3{}, width); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("width %d: %v", width, err)
		}
	}
}

func TestCaptureHonorsCancellation(t *testing.T) {
	c, renderer := newCapturer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Capture(ctx, 0, render.Vec3{}, 64)
	if !services.IsAborted(err) {
		t.Fatalf("expected abort, got %v", err)
	}
	if len(renderer.views) != 0 {
		t.Fatalf("rendered %d views after cancellation", len(renderer.views))
	}
}

func TestStereoEyesAreOffset(t *testing.T) {
	c, renderer := newCapturer(t)
	stereo, err := NewStereoCapturer(c, 0.064, 1.0)
	if err != nil {
		t.Fatalf("NewStereoCapturer: %v", err)
	}

	left, right, err := stereo.Capture(context.Background(), 0, render.Vec3{}, 64)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if left == nil || right == nil {
		t.Fatal("missing eye")
	}
	if len(renderer.views) != 12 {
		t.Fatalf("rendered %d views, want 12", len(renderer.views))
	}
	if got := renderer.views[0].Position.X; got != -0.032 {
		t.Fatalf("left eye X = %v, want -0.032", got)
	}
	if got := renderer.views[6].Position.X; got != 0.032 {
		t.Fatalf("right eye X = %v, want 0.032", got)
	}
}

func TestStereoScaleWidensSeparation(t *testing.T) {
	c, renderer := newCapturer(t)
	stereo, err := NewStereoCapturer(c, 0.064, 2.0)
	if err != nil {
		t.Fatalf("NewStereoCapturer: %v", err)
	}
	if _, _, err := stereo.Capture(context.Background(), 0, render.Vec3{}, 64); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if got := renderer.views[0].Position.X; got != -0.064 {
		t.Fatalf("scaled left eye X = %v, want -0.064", got)
	}
}

func TestStereoValidation(t *testing.T) {
	c, _ := newCapturer(t)
	if _, err := NewStereoCapturer(c, 0, 1); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("zero ipd: %v", err)
	}
	if _, err := NewStereoCapturer(c, 0.064, 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("zero scale: %v", err)
	}
}
