package render

import (
	"fmt"
	"math"

	"emberpipe/internal/audio"
	"emberpipe/internal/services"
	"emberpipe/internal/stepper"
)

const sparkCount = 24

type spark struct {
	x, y   float64
	vx, vy float64
	life   float64
}

type flameState struct {
	phase     float64
	bass      float64
	mid       float64
	high      float64
	amplitude float64
	beatPulse float64
	sparks    [sparkCount]spark
}

// Procedural is a software renderer producing an audio-reactive flame field.
// Identical seed and step sequences yield identical pixels, which makes it
// the reference scene for reproducibility tests and offline exports.
type Procedural struct {
	width  int
	height int
	pix    []uint8
	gen    *stepper.Generator
	state  flameState
}

// NewProcedural constructs a renderer with the given target dimensions. All
// randomness is drawn from gen, so state evolution is fully reproducible.
func NewProcedural(width, height int, gen *stepper.Generator) (*Procedural, error) {
	if width <= 0 || height <= 0 {
		return nil, services.Wrap(services.ErrValidation, "render", "new",
			fmt.Sprintf("invalid dimensions %dx%d", width, height), nil)
	}
	p := &Procedural{gen: gen}
	if err := p.Resize(width, height); err != nil {
		return nil, err
	}
	return p, nil
}

// Advance steps the scene by one frame. It has the shape of a stepper update
// callback and is the only place the generator is consumed.
func (p *Procedural) Advance(frameIndex int, feature audio.FeatureFrame, delta float64) {
	s := &p.state

	// Energies ease toward the incoming feature so a single loud frame does
	// not snap the whole field.
	const ease = 0.35
	s.bass += (feature.BassLevel - s.bass) * ease
	s.mid += (feature.MidLevel - s.mid) * ease
	s.high += (feature.HighLevel - s.high) * ease
	s.amplitude += (feature.Amplitude - s.amplitude) * ease

	s.phase += delta * (0.6 + 1.8*s.mid)
	s.beatPulse *= 0.88
	if feature.IsBeat {
		s.beatPulse = 1
		p.igniteSparks()
	}

	for i := range s.sparks {
		sp := &s.sparks[i]
		if sp.life <= 0 {
			continue
		}
		sp.x += sp.vx * delta
		sp.y += sp.vy * delta
		sp.vy -= 0.4 * delta
		sp.life -= delta
	}
}

func (p *Procedural) igniteSparks() {
	for i := range p.state.sparks {
		sp := &p.state.sparks[i]
		if sp.life > 0 {
			continue
		}
		sp.x = p.gen.Float64()*2 - 1
		sp.y = -0.8
		sp.vx = (p.gen.Float64() - 0.5) * 0.6
		sp.vy = 0.8 + p.gen.Float64()*0.7
		sp.life = 0.5 + p.gen.Float64()*0.8
	}
}

// Resize reallocates the pixel buffer.
func (p *Procedural) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return services.Wrap(services.ErrValidation, "render", "resize",
			fmt.Sprintf("invalid dimensions %dx%d", width, height), nil)
	}
	if width == p.width && height == p.height {
		return nil
	}
	p.width = width
	p.height = height
	p.pix = make([]uint8, width*height*4)
	return nil
}

// Target returns the renderer's own surface.
func (p *Procedural) Target() Surface {
	return p
}

// Render rasterizes the current flame state as seen from view, using a 90
// degree frustum so six axis-aligned views tile a full sphere.
func (p *Procedural) Render(view View) error {
	forward := view.Forward.Normalized()
	right := view.Right()
	up := right.Cross(forward).Normalized()
	s := &p.state

	base := 0.06 + 0.10*s.amplitude + 0.25*s.beatPulse
	for py := 0; py < p.height; py++ {
		// Row 0 of the buffer is the bottom of the image.
		v := 2*float64(py)/float64(p.height-1) - 1
		row := p.pix[py*p.width*4:]
		for px := 0; px < p.width; px++ {
			u := 2*float64(px)/float64(p.width-1) - 1
			dir := forward.Add(right.Scale(u)).Add(up.Scale(v)).Normalized()

			flame := s.bass * math.Max(0, 1.2-1.6*math.Abs(dir.Y+0.3))
			flame *= 0.7 + 0.3*math.Sin(5*dir.X+s.phase*3)
			shimmer := s.high * 0.5 * (1 + math.Sin(11*dir.X+7*dir.Z-s.phase*5))
			band := s.mid * 0.4 * (1 + math.Sin(3*dir.Y+s.phase*2))

			r := clampUnit(base + flame + shimmer*0.6)
			g := clampUnit(base*0.8 + flame*0.55 + band)
			b := clampUnit(base*0.6 + shimmer + s.beatPulse*0.3)

			o := px * 4
			row[o+0] = uint8(r * 255)
			row[o+1] = uint8(g * 255)
			row[o+2] = uint8(b * 255)
			row[o+3] = 255
		}
	}

	p.overlaySparks()
	return nil
}

// overlaySparks splats live sparks in screen space on top of the field.
func (p *Procedural) overlaySparks() {
	for i := range p.state.sparks {
		sp := &p.state.sparks[i]
		if sp.life <= 0 {
			continue
		}
		px := int((sp.x + 1) / 2 * float64(p.width-1))
		py := int((sp.y + 1) / 2 * float64(p.height-1))
		if px < 0 || px >= p.width || py < 0 || py >= p.height {
			continue
		}
		o := (py*p.width + px) * 4
		heat := clampUnit(sp.life)
		p.pix[o+0] = maxByte(p.pix[o+0], uint8(255*heat))
		p.pix[o+1] = maxByte(p.pix[o+1], uint8(220*heat))
		p.pix[o+2] = maxByte(p.pix[o+2], uint8(140*heat))
	}
}

// Width returns the target width in pixels.
func (p *Procedural) Width() int {
	return p.width
}

// Height returns the target height in pixels.
func (p *Procedural) Height() int {
	return p.height
}

// ReadPixels copies the most recent frame into dst, rows bottom to top.
func (p *Procedural) ReadPixels(dst []byte) error {
	if len(dst) != len(p.pix) {
		return services.Wrap(services.ErrCapture, "render", "read",
			fmt.Sprintf("destination is %d bytes, surface needs %d", len(dst), len(p.pix)), nil)
	}
	copy(dst, p.pix)
	return nil
}

// ReadPixelsAsync snapshots the frame immediately and completes on wait. A
// software surface has no transfer to overlap, but exposing the async shape
// keeps the capture fast path exercised end to end.
func (p *Procedural) ReadPixelsAsync(dst []byte) (func() error, error) {
	if len(dst) != len(p.pix) {
		return nil, services.Wrap(services.ErrCapture, "render", "read_async",
			fmt.Sprintf("destination is %d bytes, surface needs %d", len(dst), len(p.pix)), nil)
	}
	snapshot := append([]uint8(nil), p.pix...)
	return func() error {
		copy(dst, snapshot)
		return nil
	}, nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxByte(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}
