package frame

import "time"

// PixelFrame is a captured frame in display-ready form: gamma corrected,
// rows top to bottom, RGBA at 4 bytes per pixel.
type PixelFrame struct {
	FrameNumber int
	Width       int
	Height      int
	PixelData   []byte
	Timestamp   time.Time
}

// ByteLen returns the expected PixelData length for the frame's dimensions.
func (f *PixelFrame) ByteLen() int {
	return f.Width * f.Height * 4
}
