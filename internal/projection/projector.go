package projection

import (
	"fmt"
	"log/slog"
	"math"

	"emberpipe/internal/cubemap"
	"emberpipe/internal/frame"
	"emberpipe/internal/logging"
	"emberpipe/internal/render"
	"emberpipe/internal/services"
)

// Projector converts cube face sets to equirectangular frames. Output height
// is always half the width. Two output buffers alternate between calls, so a
// converted frame stays valid until the conversion after next; stereo eyes
// converted back to back therefore never alias.
type Projector struct {
	buffers [2][]byte
	active  int
	logger  *slog.Logger
}

// New constructs a projector.
func New(logger *slog.Logger) *Projector {
	return &Projector{logger: logging.NewComponentLogger(logger, "projection")}
}

// Convert resamples set into an equirectangular frame of the given width.
// Each output pixel maps through latitude and longitude to a direction on
// the unit sphere, then samples the cube face that direction passes through.
func (p *Projector) Convert(set *cubemap.FaceSet, outputWidth int) (*frame.PixelFrame, error) {
	if set == nil {
		return nil, services.Wrap(services.ErrValidation, "projection", "convert",
			"nil face set", nil)
	}
	if outputWidth <= 0 || outputWidth%2 != 0 {
		return nil, services.Wrap(services.ErrValidation, "projection", "convert",
			fmt.Sprintf("output width must be positive and even, got %d", outputWidth), nil)
	}
	for f := cubemap.Face(0); f < 6; f++ {
		face := set.Face(f)
		if face == nil {
			return nil, services.Wrap(services.ErrValidation, "projection", "convert",
				fmt.Sprintf("face %s missing from set", f), nil)
		}
		if face.Width != set.Resolution || face.Height != set.Resolution {
			return nil, services.Wrap(services.ErrValidation, "projection", "convert",
				fmt.Sprintf("face %s is %dx%d, set resolution is %d",
					f, face.Width, face.Height, set.Resolution), nil)
		}
	}

	outputHeight := outputWidth / 2
	need := outputWidth * outputHeight * 4
	p.active = 1 - p.active
	if len(p.buffers[p.active]) != need {
		p.buffers[p.active] = make([]byte, need)
		p.logger.Debug("projection buffer allocated",
			logging.Int("width", outputWidth),
			logging.Int("height", outputHeight))
	}
	out := p.buffers[p.active]

	for y := 0; y < outputHeight; y++ {
		// Polar angle from the +Y pole; row zero is straight up.
		phi := math.Pi * (float64(y) + 0.5) / float64(outputHeight)
		sinPhi, cosPhi := math.Sincos(phi)
		row := out[y*outputWidth*4:]
		for x := 0; x < outputWidth; x++ {
			theta := 2*math.Pi*(float64(x)+0.5)/float64(outputWidth) - math.Pi
			sinTheta, cosTheta := math.Sincos(theta)
			dir := render.Vec3{
				X: sinPhi * sinTheta,
				Y: cosPhi,
				Z: sinPhi * cosTheta,
			}
			sampleFace(set, dir, row[x*4:x*4+4])
		}
	}

	return &frame.PixelFrame{
		FrameNumber: set.FrameNumber,
		Width:       outputWidth,
		Height:      outputHeight,
		PixelData:   out,
	}, nil
}

// sampleFace picks the cube face the direction passes through and copies the
// nearest source pixel into dst.
func sampleFace(set *cubemap.FaceSet, dir render.Vec3, dst []byte) {
	ax, ay, az := math.Abs(dir.X), math.Abs(dir.Y), math.Abs(dir.Z)

	var f cubemap.Face
	switch {
	case ax >= ay && ax >= az:
		if dir.X > 0 {
			f = cubemap.FacePosX
		} else {
			f = cubemap.FaceNegX
		}
	case ay >= az:
		if dir.Y > 0 {
			f = cubemap.FacePosY
		} else {
			f = cubemap.FaceNegY
		}
	default:
		if dir.Z > 0 {
			f = cubemap.FacePosZ
		} else {
			f = cubemap.FaceNegZ
		}
	}

	forward, up := f.Basis()
	right := forward.Cross(up)
	depth := dir.Dot(forward)
	u := dir.Dot(right) / depth
	v := dir.Dot(up) / depth

	face := set.Face(f)
	res := face.Width
	// Captured frames store rows top to bottom, with v=+1 at the top row.
	px := clampIndex(int(math.Round((u+1)/2*float64(res-1))), res)
	py := clampIndex(int(math.Round((1-v)/2*float64(res-1))), res)
	copy(dst, face.PixelData[(py*res+px)*4:(py*res+px)*4+4])
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
