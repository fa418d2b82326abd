package frame

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"emberpipe/internal/logging"
	"emberpipe/internal/services"
)

// fakeSurface hands back a fixed pixel buffer with rows bottom to top.
type fakeSurface struct {
	w, h int
	pix  []byte

	asyncStartErr error
	asyncWaitErr  error
	syncErr       error
	asyncStarts   int
	syncReads     int
}

func newFakeSurface(w, h int) *fakeSurface {
	s := &fakeSurface{w: w, h: h, pix: make([]byte, w*h*4)}
	for i := range s.pix {
		s.pix[i] = byte(i * 7)
	}
	return s
}

func (s *fakeSurface) Width() int  { return s.w }
func (s *fakeSurface) Height() int { return s.h }

func (s *fakeSurface) ReadPixels(dst []byte) error {
	s.syncReads++
	if s.syncErr != nil {
		return s.syncErr
	}
	copy(dst, s.pix)
	return nil
}

func (s *fakeSurface) ReadPixelsAsync(dst []byte) (func() error, error) {
	s.asyncStarts++
	if s.asyncStartErr != nil {
		return nil, s.asyncStartErr
	}
	return func() error {
		if s.asyncWaitErr != nil {
			return s.asyncWaitErr
		}
		copy(dst, s.pix)
		return nil
	}, nil
}

func newReader(t *testing.T, surface *fakeSurface, gamma float64, owned bool) *Reader {
	t.Helper()
	r, err := NewReader(surface, gamma, owned, logging.NewNop())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	return r
}

func gammaByte(v byte, gamma float64) byte {
	return byte(math.Round(255 * math.Pow(float64(v)/255, 1/gamma)))
}

func TestCaptureFlipsAndGammaCorrects(t *testing.T) {
	const gamma = 2.2
	surface := newFakeSurface(4, 3)
	r := newReader(t, surface, gamma, false)

	got, err := r.Capture(context.Background(), 9)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if got.FrameNumber != 9 || got.Width != 4 || got.Height != 3 {
		t.Fatalf("frame header: %+v", got)
	}
	if len(got.PixelData) != got.ByteLen() {
		t.Fatalf("PixelData length %d, want %d", len(got.PixelData), got.ByteLen())
	}

	rowBytes := surface.w * 4
	for y := 0; y < surface.h; y++ {
		src := surface.pix[(surface.h-1-y)*rowBytes : (surface.h-y)*rowBytes]
		dst := got.PixelData[y*rowBytes : (y+1)*rowBytes]
		for i := 0; i < rowBytes; i += 4 {
			for c := 0; c < 3; c++ {
				if dst[i+c] != gammaByte(src[i+c], gamma) {
					t.Fatalf("row %d channel %d: got %d, want gamma(%d)",
						y, c, dst[i+c], src[i+c])
				}
			}
			if dst[i+3] != src[i+3] {
				t.Fatalf("alpha modified at row %d offset %d", y, i)
			}
		}
	}
}

func TestIdentityGammaOnlyFlips(t *testing.T) {
	surface := newFakeSurface(2, 2)
	r := newReader(t, surface, 1.0, false)

	got, err := r.Capture(context.Background(), 0)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	rowBytes := surface.w * 4
	top := got.PixelData[:rowBytes]
	bottomSrc := surface.pix[rowBytes:]
	if !bytes.Equal(top, bottomSrc) {
		t.Fatal("identity gamma should leave channel values unchanged")
	}
}

func TestSharedBuffersAlternate(t *testing.T) {
	surface := newFakeSurface(2, 2)
	r := newReader(t, surface, 2.2, false)
	ctx := context.Background()

	a, err := r.Capture(ctx, 0)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	b, err := r.Capture(ctx, 1)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if &a.PixelData[0] == &b.PixelData[0] {
		t.Fatal("consecutive shared captures reused the same buffer")
	}
	c, err := r.Capture(ctx, 2)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if &a.PixelData[0] != &c.PixelData[0] {
		t.Fatal("third capture should cycle back to the first buffer")
	}
}

func TestOwnedFramesSurviveLaterCaptures(t *testing.T) {
	surface := newFakeSurface(2, 2)
	r := newReader(t, surface, 2.2, true)
	ctx := context.Background()

	a, err := r.Capture(ctx, 0)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	snapshot := append([]byte(nil), a.PixelData...)

	for i := range surface.pix {
		surface.pix[i] = byte(200 - i)
	}
	for n := 1; n <= 3; n++ {
		if _, err := r.Capture(ctx, n); err != nil {
			t.Fatalf("Capture %d: %v", n, err)
		}
	}
	if !bytes.Equal(a.PixelData, snapshot) {
		t.Fatal("owned frame mutated by later captures")
	}
}

func TestAsyncFallsBackToSync(t *testing.T) {
	surface := newFakeSurface(2, 2)
	surface.asyncStartErr = errors.New("transfer queue full")
	r := newReader(t, surface, 2.2, false)

	if _, err := r.Capture(context.Background(), 0); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if surface.asyncStarts != 1 || surface.syncReads != 1 {
		t.Fatalf("asyncStarts=%d syncReads=%d, want 1 and 1",
			surface.asyncStarts, surface.syncReads)
	}
	if r.SyncFallbacks() != 1 {
		t.Fatalf("SyncFallbacks = %d, want 1", r.SyncFallbacks())
	}

	surface.asyncStartErr = nil
	surface.asyncWaitErr = errors.New("fence lost")
	if _, err := r.Capture(context.Background(), 1); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if surface.syncReads != 2 {
		t.Fatalf("wait failure should also fall back, syncReads=%d", surface.syncReads)
	}
}

func TestBothPathsFailingIsCaptureError(t *testing.T) {
	surface := newFakeSurface(2, 2)
	surface.asyncStartErr = errors.New("no async")
	surface.syncErr = errors.New("device lost")
	r := newReader(t, surface, 2.2, false)

	_, err := r.Capture(context.Background(), 0)
	if !errors.Is(err, services.ErrCapture) {
		t.Fatalf("expected capture error, got %v", err)
	}
	if r.Captures() != 0 {
		t.Fatalf("failed capture counted: %d", r.Captures())
	}
}

func TestCancelledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	surface := newFakeSurface(2, 2)
	r := newReader(t, surface, 2.2, false)
	_, err := r.Capture(ctx, 0)
	if !services.IsAborted(err) {
		t.Fatalf("expected abort, got %v", err)
	}
	if surface.asyncStarts != 0 || surface.syncReads != 0 {
		t.Fatal("cancelled capture should not touch the surface")
	}
}

func TestReaderValidation(t *testing.T) {
	if _, err := NewReader(nil, 2.2, false, logging.NewNop()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("nil surface: %v", err)
	}
	if _, err := NewReader(newFakeSurface(1, 1), 0, false, logging.NewNop()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("zero gamma: %v", err)
	}
}

func TestStatsAccumulate(t *testing.T) {
	surface := newFakeSurface(2, 2)
	r := newReader(t, surface, 2.2, false)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := r.Capture(ctx, i); err != nil {
			t.Fatalf("Capture %d: %v", i, err)
		}
	}
	if r.Captures() != 5 {
		t.Fatalf("Captures = %d", r.Captures())
	}
	if r.AverageLatency() < 0 {
		t.Fatalf("AverageLatency = %v", r.AverageLatency())
	}
}
