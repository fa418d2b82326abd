package export

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"emberpipe/internal/frame"
	"emberpipe/internal/services"
)

func TestPNGSinkWritesNumberedFrames(t *testing.T) {
	dir := t.TempDir()
	sink := &PNGSink{Dir: dir}
	ctx := context.Background()

	pix := make([]byte, 8*4*4)
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 255
	}
	for _, n := range []int{0, 1, 7} {
		f := &frame.PixelFrame{FrameNumber: n, Width: 8, Height: 4, PixelData: pix}
		if err := sink.WriteFrame(ctx, f); err != nil {
			t.Fatalf("WriteFrame %d: %v", n, err)
		}
	}
	if sink.Written() != 3 {
		t.Fatalf("Written = %d", sink.Written())
	}
	if err := sink.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	for _, name := range []string{"frame_000000.png", "frame_000001.png", "frame_000007.png"} {
		file, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		img, err := png.Decode(file)
		file.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
			t.Fatalf("%s decoded to %v", name, img.Bounds())
		}
	}
}

func TestPNGSinkHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &PNGSink{Dir: t.TempDir()}
	err := sink.WriteFrame(ctx, &frame.PixelFrame{Width: 2, Height: 2, PixelData: make([]byte, 16)})
	if !services.IsAborted(err) {
		t.Fatalf("expected abort, got %v", err)
	}
}
