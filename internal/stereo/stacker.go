package stereo

import (
	"fmt"

	"emberpipe/internal/frame"
	"emberpipe/internal/services"
)

// platformMaxDimension is the largest edge mainstream 360 players accept.
const platformMaxDimension = 8192

// FramePair holds the two eye frames for one output frame.
type FramePair struct {
	Left  *frame.PixelFrame
	Right *frame.PixelFrame
}

// standardWidths are the equirectangular widths players handle natively.
var standardWidths = map[int]bool{4096: true, 6144: true, 8192: true}

// checkStackable returns a validation error unless both eyes are present,
// dimensions match, and pixel buffers carry the bytes their headers claim.
func checkStackable(pair FramePair, op string) error {
	if pair.Left == nil || pair.Right == nil {
		return services.Wrap(services.ErrValidation, "stereo", op,
			"both eye frames are required", nil)
	}
	l, r := pair.Left, pair.Right
	if l.Width != r.Width || l.Height != r.Height {
		return services.Wrap(services.ErrValidation, "stereo", op,
			fmt.Sprintf("eye dimensions differ: left %dx%d, right %dx%d",
				l.Width, l.Height, r.Width, r.Height), nil)
	}
	if len(l.PixelData) != l.ByteLen() || len(r.PixelData) != r.ByteLen() {
		return services.Wrap(services.ErrValidation, "stereo", op,
			fmt.Sprintf("pixel buffer sizes do not match headers: left %d, right %d, want %d",
				len(l.PixelData), len(r.PixelData), l.ByteLen()), nil)
	}
	return nil
}

// StackTopBottom joins the pair into one frame of doubled height, left eye
// on top. Left-on-top is the fixed playback convention. The returned frame
// owns its pixels and never aliases the inputs.
func StackTopBottom(pair FramePair) (*frame.PixelFrame, error) {
	if err := checkStackable(pair, "stack_top_bottom"); err != nil {
		return nil, err
	}
	l, r := pair.Left, pair.Right
	out := make([]byte, l.ByteLen()*2)
	copy(out, l.PixelData)
	copy(out[l.ByteLen():], r.PixelData)
	return &frame.PixelFrame{
		FrameNumber: l.FrameNumber,
		Width:       l.Width,
		Height:      l.Height * 2,
		PixelData:   out,
		Timestamp:   l.Timestamp,
	}, nil
}

// StackLeftRight joins the pair into one frame of doubled width by
// interleaving rows, left eye in the left half.
func StackLeftRight(pair FramePair) (*frame.PixelFrame, error) {
	if err := checkStackable(pair, "stack_left_right"); err != nil {
		return nil, err
	}
	l, r := pair.Left, pair.Right
	rowBytes := l.Width * 4
	out := make([]byte, l.ByteLen()*2)
	for y := 0; y < l.Height; y++ {
		dst := out[y*rowBytes*2:]
		copy(dst[:rowBytes], l.PixelData[y*rowBytes:(y+1)*rowBytes])
		copy(dst[rowBytes:rowBytes*2], r.PixelData[y*rowBytes:(y+1)*rowBytes])
	}
	return &frame.PixelFrame{
		FrameNumber: l.FrameNumber,
		Width:       l.Width * 2,
		Height:      l.Height,
		PixelData:   out,
		Timestamp:   l.Timestamp,
	}, nil
}

// Report is the outcome of validating a pair. Errors block stacking;
// warnings flag playback concerns but leave the pair usable. An oversized
// combined frame stays a warning because some pipelines downscale after
// stacking.
type Report struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validate checks a pair without stacking it.
func Validate(pair FramePair) Report {
	var rep Report
	if err := checkStackable(pair, "validate"); err != nil {
		rep.Errors = append(rep.Errors, err.Error())
		return rep
	}
	rep.Valid = true

	l, r := pair.Left, pair.Right
	if l.Width != l.Height*2 {
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("aspect ratio %dx%d is not 2:1", l.Width, l.Height))
	}
	if !standardWidths[l.Width] {
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("width %d is not a standard panorama width", l.Width))
	}
	if l.FrameNumber != r.FrameNumber {
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("eye frame numbers differ: left %d, right %d",
				l.FrameNumber, r.FrameNumber))
	}
	if l.Width > platformMaxDimension || l.Height*2 > platformMaxDimension {
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("stacked size %dx%d exceeds the %d player limit",
				l.Width, l.Height*2, platformMaxDimension))
	}
	return rep
}
