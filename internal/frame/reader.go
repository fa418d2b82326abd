package frame

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"emberpipe/internal/logging"
	"emberpipe/internal/render"
	"emberpipe/internal/services"
)

// Reader captures pixels from a render surface. Two output buffers alternate
// between captures, so in shared mode a returned frame stays valid until the
// capture after next. OwnedFrames trades a copy per frame for frames the
// caller may hold indefinitely.
type Reader struct {
	surface render.Surface
	lut     [256]uint8
	owned   bool
	logger  *slog.Logger

	scratch []byte
	buffers [2][]byte
	active  int

	captures     int64
	syncFallback int64
	totalLatency time.Duration
}

// NewReader constructs a reader over surface. gamma is the display exponent
// applied on capture; owned selects per-frame copies over shared buffers.
func NewReader(surface render.Surface, gamma float64, owned bool, logger *slog.Logger) (*Reader, error) {
	if surface == nil {
		return nil, services.Wrap(services.ErrValidation, "frame", "new",
			"nil surface", nil)
	}
	if gamma <= 0 || math.IsNaN(gamma) {
		return nil, services.Wrap(services.ErrValidation, "frame", "new",
			fmt.Sprintf("gamma must be positive, got %v", gamma), nil)
	}
	r := &Reader{
		surface: surface,
		owned:   owned,
		logger:  logging.NewComponentLogger(logger, "frame"),
	}
	inv := 1 / gamma
	for i := range r.lut {
		r.lut[i] = uint8(math.Round(255 * math.Pow(float64(i)/255, inv)))
	}
	return r, nil
}

// Capture reads the surface's current pixels into a display-ready frame.
// The fused correction pass applies the gamma table to R, G and B while
// reversing row order; alpha passes through untouched.
func (r *Reader) Capture(ctx context.Context, frameNumber int) (*PixelFrame, error) {
	if err := ctx.Err(); err != nil {
		return nil, services.Abort("frame", "capture", err)
	}
	start := time.Now()

	w, h := r.surface.Width(), r.surface.Height()
	need := w * h * 4
	if len(r.scratch) != need {
		r.scratch = make([]byte, need)
		r.buffers[0] = make([]byte, need)
		r.buffers[1] = make([]byte, need)
	}

	if err := r.readback(); err != nil {
		return nil, err
	}

	r.active = 1 - r.active
	out := r.buffers[r.active]
	rowBytes := w * 4
	for y := 0; y < h; y++ {
		src := r.scratch[(h-1-y)*rowBytes : (h-y)*rowBytes]
		dst := out[y*rowBytes : (y+1)*rowBytes]
		for i := 0; i < rowBytes; i += 4 {
			dst[i+0] = r.lut[src[i+0]]
			dst[i+1] = r.lut[src[i+1]]
			dst[i+2] = r.lut[src[i+2]]
			dst[i+3] = src[i+3]
		}
	}
	if r.owned {
		out = append([]byte(nil), out...)
	}

	r.captures++
	r.totalLatency += time.Since(start)
	return &PixelFrame{
		FrameNumber: frameNumber,
		Width:       w,
		Height:      h,
		PixelData:   out,
		Timestamp:   start,
	}, nil
}

// readback prefers the surface's async path and falls back to the blocking
// read when either the start or the wait fails.
func (r *Reader) readback() error {
	if async, ok := r.surface.(render.AsyncSurface); ok {
		wait, err := async.ReadPixelsAsync(r.scratch)
		if err == nil {
			if err = wait(); err == nil {
				return nil
			}
		}
		r.syncFallback++
		r.logger.Debug("async readback failed, using blocking read",
			logging.Error(err))
	}
	if err := r.surface.ReadPixels(r.scratch); err != nil {
		return services.Wrap(services.ErrCapture, "frame", "capture",
			"surface readback failed", err)
	}
	return nil
}

// Captures returns the number of successful captures.
func (r *Reader) Captures() int64 {
	return r.captures
}

// SyncFallbacks returns how many captures fell back to the blocking read.
func (r *Reader) SyncFallbacks() int64 {
	return r.syncFallback
}

// AverageLatency returns the mean wall time per successful capture.
func (r *Reader) AverageLatency() time.Duration {
	if r.captures == 0 {
		return 0
	}
	return r.totalLatency / time.Duration(r.captures)
}
