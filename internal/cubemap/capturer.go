package cubemap

import (
	"context"
	"fmt"
	"log/slog"

	"emberpipe/internal/frame"
	"emberpipe/internal/logging"
	"emberpipe/internal/render"
	"emberpipe/internal/services"
)

// Capturer renders and reads back the six cube faces for a frame. Face
// resolution follows the target equirectangular width at a quarter of it,
// and the renderer is resized whenever that changes. The frame reader runs
// in owned mode because all six faces of a set must stay valid together.
type Capturer struct {
	renderer render.Renderer
	reader   *frame.Reader
	logger   *slog.Logger
	faceRes  int
}

// NewCapturer constructs a capturer over renderer. gamma is applied at
// readback, matching flat capture output.
func NewCapturer(renderer render.Renderer, gamma float64, logger *slog.Logger) (*Capturer, error) {
	if renderer == nil {
		return nil, services.Wrap(services.ErrValidation, "cubemap", "new",
			"nil renderer", nil)
	}
	reader, err := frame.NewReader(renderer.Target(), gamma, true, logger)
	if err != nil {
		return nil, err
	}
	return &Capturer{
		renderer: renderer,
		reader:   reader,
		logger:   logging.NewComponentLogger(logger, "cubemap"),
	}, nil
}

// faceResolution derives the per-face size from the equirectangular output
// width. Width must be a positive multiple of four so faces stay square.
func faceResolution(outputWidth int) (int, error) {
	if outputWidth <= 0 || outputWidth%4 != 0 {
		return 0, services.Wrap(services.ErrValidation, "cubemap", "capture",
			fmt.Sprintf("output width must be a positive multiple of 4, got %d", outputWidth), nil)
	}
	return outputWidth / 4, nil
}

// Capture renders all six faces from position and returns them as one set.
func (c *Capturer) Capture(ctx context.Context, frameNumber int, position render.Vec3, outputWidth int) (*FaceSet, error) {
	res, err := faceResolution(outputWidth)
	if err != nil {
		return nil, err
	}
	if res != c.faceRes {
		if err := c.renderer.Resize(res, res); err != nil {
			return nil, err
		}
		c.logger.Debug("face resolution changed",
			logging.Int("resolution", res),
			logging.Int("output_width", outputWidth))
		c.faceRes = res
	}

	set := &FaceSet{FrameNumber: frameNumber, Resolution: res}
	for f := Face(0); f < faceCount; f++ {
		if err := ctx.Err(); err != nil {
			return nil, services.Abort("cubemap", "capture", err)
		}
		forward, up := f.Basis()
		if err := c.renderer.Render(render.View{Position: position, Forward: forward, Up: up}); err != nil {
			return nil, services.Wrap(services.ErrCapture, "cubemap", "capture",
				fmt.Sprintf("rendering face %s", f), err)
		}
		face, err := c.reader.Capture(ctx, frameNumber)
		if err != nil {
			return nil, err
		}
		set.Faces[f] = face
	}
	return set, nil
}

// StereoCapturer captures left/right face sets from eye positions offset
// laterally by half the interpupillary distance each way. Left is offset
// toward negative X of the rig.
type StereoCapturer struct {
	capturer *Capturer
	halfIPD  float64
}

// NewStereoCapturer wraps capturer with an eye separation of ipd world
// units, scaled by worldScale to match the scene's unit convention.
func NewStereoCapturer(capturer *Capturer, ipd, worldScale float64) (*StereoCapturer, error) {
	if ipd <= 0 || worldScale <= 0 {
		return nil, services.Wrap(services.ErrValidation, "cubemap", "new_stereo",
			fmt.Sprintf("ipd %v and world scale %v must be positive", ipd, worldScale), nil)
	}
	return &StereoCapturer{capturer: capturer, halfIPD: ipd / 2 * worldScale}, nil
}

// Capture renders both eyes for one frame.
func (s *StereoCapturer) Capture(ctx context.Context, frameNumber int, position render.Vec3, outputWidth int) (left, right *FaceSet, err error) {
	left, err = s.capturer.Capture(ctx, frameNumber, position.Add(render.Vec3{X: -s.halfIPD}), outputWidth)
	if err != nil {
		return nil, nil, err
	}
	right, err = s.capturer.Capture(ctx, frameNumber, position.Add(render.Vec3{X: s.halfIPD}), outputWidth)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}
