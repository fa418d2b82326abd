package render

import (
	"bytes"
	"testing"

	"emberpipe/internal/audio"
	"emberpipe/internal/stepper"
)

func advancedRenderer(t *testing.T, seed uint64, steps int) *Procedural {
	t.Helper()
	gen := stepper.NewGenerator(seed)
	p, err := NewProcedural(32, 32, gen)
	if err != nil {
		t.Fatalf("NewProcedural: %v", err)
	}
	for i := 0; i < steps; i++ {
		p.Advance(i, audio.FeatureFrame{
			FrameIndex: i,
			BassLevel:  0.6,
			MidLevel:   0.3,
			HighLevel:  0.2,
			Amplitude:  0.4,
			IsBeat:     i%10 == 0,
		}, 1.0/30)
	}
	return p
}

func renderedPixels(t *testing.T, p *Procedural, view View) []byte {
	t.Helper()
	if err := p.Render(view); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := make([]byte, p.Width()*p.Height()*4)
	if err := p.ReadPixels(out); err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	return out
}

func TestRenderIsDeterministic(t *testing.T) {
	view := View{Forward: Vec3{Z: -1}, Up: Vec3{Y: 1}}

	a := renderedPixels(t, advancedRenderer(t, 7, 25), view)
	b := renderedPixels(t, advancedRenderer(t, 7, 25), view)
	if !bytes.Equal(a, b) {
		t.Fatal("same seed and step sequence produced different pixels")
	}

	c := renderedPixels(t, advancedRenderer(t, 8, 25), view)
	if bytes.Equal(a, c) {
		t.Fatal("different seeds should diverge after beat sparks")
	}
}

func TestRenderDependsOnView(t *testing.T) {
	p := advancedRenderer(t, 3, 5)
	front := renderedPixels(t, p, View{Forward: Vec3{Z: -1}, Up: Vec3{Y: 1}})
	upward := renderedPixels(t, p, View{Forward: Vec3{Y: 1}, Up: Vec3{Z: 1}})
	if bytes.Equal(front, upward) {
		t.Fatal("orthogonal views rendered identical pixels")
	}
}

func TestResizeReallocates(t *testing.T) {
	p := advancedRenderer(t, 1, 1)
	if err := p.Resize(64, 16); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if p.Width() != 64 || p.Height() != 16 {
		t.Fatalf("dimensions after resize: %dx%d", p.Width(), p.Height())
	}
	if err := p.ReadPixels(make([]byte, 64*16*4)); err != nil {
		t.Fatalf("ReadPixels after resize: %v", err)
	}
	if err := p.Resize(0, 16); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestReadPixelsRejectsWrongSize(t *testing.T) {
	p := advancedRenderer(t, 1, 1)
	if err := p.ReadPixels(make([]byte, 3)); err == nil {
		t.Fatal("expected size mismatch error")
	}
	if _, err := p.ReadPixelsAsync(make([]byte, 3)); err == nil {
		t.Fatal("expected size mismatch error from async start")
	}
}

func TestAsyncReadMatchesSync(t *testing.T) {
	p := advancedRenderer(t, 5, 12)
	view := View{Forward: Vec3{X: 1}, Up: Vec3{Y: 1}}
	if err := p.Render(view); err != nil {
		t.Fatalf("Render: %v", err)
	}

	sync := make([]byte, p.Width()*p.Height()*4)
	if err := p.ReadPixels(sync); err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}

	async := make([]byte, len(sync))
	wait, err := p.ReadPixelsAsync(async)
	if err != nil {
		t.Fatalf("ReadPixelsAsync: %v", err)
	}
	if err := wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if !bytes.Equal(sync, async) {
		t.Fatal("async readback differs from sync readback")
	}
}

func TestVecHelpers(t *testing.T) {
	v := Vec3{3, 0, 4}
	if v.Length() != 5 {
		t.Fatalf("Length = %v", v.Length())
	}
	n := v.Normalized()
	if n.X != 0.6 || n.Z != 0.8 {
		t.Fatalf("Normalized = %+v", n)
	}
	if (Vec3{}).Normalized() != (Vec3{}) {
		t.Fatal("zero vector should normalize to itself")
	}
	right := View{Forward: Vec3{Z: -1}, Up: Vec3{Y: 1}}.Right()
	if right.X != 1 || right.Y != 0 || right.Z != 0 {
		t.Fatalf("Right = %+v", right)
	}
}
