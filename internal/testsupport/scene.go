package testsupport

import (
	"fmt"

	"emberpipe/internal/audio"
	"emberpipe/internal/render"
	"emberpipe/internal/stepper"
)

// FakeScene is a minimal orchestration scene. It records stepper callbacks
// and consumes one random draw per advance, so tests can assert run
// reproducibility and call cadence without paying for real rendering.
type FakeScene struct {
	W, H     int
	Renders  int
	Advances []int
	Draws    []float64

	// RenderErr, when set, is consulted on every Render call.
	RenderErr func(renderCount int) error

	gen *stepper.Generator
	pix []byte
}

// NewFakeScene builds a scene drawing from gen. gen may be nil when the
// test does not care about draw sequences.
func NewFakeScene(gen *stepper.Generator) *FakeScene {
	return &FakeScene{gen: gen}
}

// Advance records the callback and consumes one draw.
func (s *FakeScene) Advance(frameIndex int, _ audio.FeatureFrame, _ float64) {
	s.Advances = append(s.Advances, frameIndex)
	if s.gen != nil {
		s.Draws = append(s.Draws, s.gen.Float64())
	}
}

// Resize reallocates the backing pixels.
func (s *FakeScene) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid fake scene size %dx%d", w, h)
	}
	if w != s.W || h != s.H {
		s.W, s.H = w, h
		s.pix = make([]byte, w*h*4)
	}
	return nil
}

// Render bumps the render counter and stamps it into the first pixel.
func (s *FakeScene) Render(render.View) error {
	s.Renders++
	if s.RenderErr != nil {
		if err := s.RenderErr(s.Renders); err != nil {
			return err
		}
	}
	if len(s.pix) >= 4 {
		s.pix[0] = byte(s.Renders)
		s.pix[3] = 255
	}
	return nil
}

// Target returns the scene's own surface.
func (s *FakeScene) Target() render.Surface { return s }

// Width returns the current surface width.
func (s *FakeScene) Width() int { return s.W }

// Height returns the current surface height.
func (s *FakeScene) Height() int { return s.H }

// ReadPixels copies the backing pixels.
func (s *FakeScene) ReadPixels(dst []byte) error {
	if len(dst) != len(s.pix) {
		return fmt.Errorf("fake scene readback size %d, want %d", len(dst), len(s.pix))
	}
	copy(dst, s.pix)
	return nil
}
