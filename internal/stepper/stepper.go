package stepper

import (
	"fmt"
	"log/slog"

	"emberpipe/internal/audio"
	"emberpipe/internal/logging"
	"emberpipe/internal/services"
)

// UpdateFunc advances the caller's animation state by one fixed-delta frame.
// The generator passed at construction is the only sanctioned randomness
// source inside the callback.
type UpdateFunc func(frameIndex int, feature audio.FeatureFrame, delta float64)

// Stepper advances animation state frame-exactly. It never jumps: a forward
// target is reached by stepping every intermediate frame with a silent
// feature frame, and a backward target resets to frame zero first, so the
// random draw sequence up to any frame N is always the same.
type Stepper struct {
	fps     int
	gen     *Generator
	update  UpdateFunc
	current int
	logger  *slog.Logger
}

// New constructs a stepper at frame zero.
func New(fps int, seed uint64, update UpdateFunc, logger *slog.Logger) *Stepper {
	return &Stepper{
		fps:    fps,
		gen:    NewGenerator(seed),
		update: update,
		logger: logging.NewComponentLogger(logger, "stepper"),
	}
}

// Generator exposes the stepper's random stream for use inside the update
// callback.
func (s *Stepper) Generator() *Generator {
	return s.gen
}

// CurrentFrame returns the next frame the stepper will produce.
func (s *Stepper) CurrentFrame() int {
	return s.current
}

// Reset returns to frame zero with the generator restored to its seed.
func (s *Stepper) Reset() {
	s.current = 0
	s.gen.Reset()
}

// StepToFrame advances state through every frame up to and including target.
// The supplied feature frame applies to the target frame; frames crossed on
// the way are stepped with synthesized silence to preserve continuity.
func (s *Stepper) StepToFrame(target int, feature audio.FeatureFrame) error {
	if target < 0 {
		return services.Wrap(services.ErrValidation, "stepper", "step",
			fmt.Sprintf("negative target frame %d", target), nil)
	}
	if target < s.current {
		s.logger.Debug("backward target, rewinding to frame zero",
			logging.Int("target", target),
			logging.Int("current", s.current))
		s.Reset()
	}
	for s.current <= target {
		stepFeature := feature
		if s.current != target {
			stepFeature = audio.Silent(s.current, s.fps)
		}
		s.stepOne(stepFeature)
	}
	return nil
}

func (s *Stepper) stepOne(feature audio.FeatureFrame) {
	if s.update != nil {
		s.update(s.current, feature, 1.0/float64(s.fps))
	}
	s.current++
}
