package export

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"emberpipe/internal/frame"
	"emberpipe/internal/services"
)

// Sink is the encoder collaborator. Frames arrive strictly in increasing
// frame order; Flush is called once after the last frame of a successful
// render pass.
type Sink interface {
	WriteFrame(ctx context.Context, f *frame.PixelFrame) error
	Flush(ctx context.Context) error
}

// CollectSink accumulates frames in memory. Suitable for tests and short
// runs; callers hand it owned frames.
type CollectSink struct {
	Frames []*frame.PixelFrame
}

// WriteFrame appends the frame.
func (s *CollectSink) WriteFrame(_ context.Context, f *frame.PixelFrame) error {
	s.Frames = append(s.Frames, f)
	return nil
}

// Flush is a no-op.
func (s *CollectSink) Flush(context.Context) error {
	return nil
}

// PNGSink writes each frame as a numbered PNG under a directory, a
// debugging surface for inspecting exports without an encoder attached.
type PNGSink struct {
	Dir    string
	Prefix string
	count  int
}

// WriteFrame encodes the frame to <dir>/<prefix><frame>.png.
func (s *PNGSink) WriteFrame(ctx context.Context, f *frame.PixelFrame) error {
	if err := ctx.Err(); err != nil {
		return services.Abort("export", "png_sink", err)
	}
	img := &image.RGBA{
		Pix:    f.PixelData,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
	prefix := s.Prefix
	if prefix == "" {
		prefix = "frame_"
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("%s%06d.png", prefix, f.FrameNumber))
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame file: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("encode frame %d: %w", f.FrameNumber, err)
	}
	s.count++
	return out.Close()
}

// Flush is a no-op; frames are durable as soon as they are written.
func (s *PNGSink) Flush(context.Context) error {
	return nil
}

// Written returns how many frames the sink has encoded.
func (s *PNGSink) Written() int {
	return s.count
}
