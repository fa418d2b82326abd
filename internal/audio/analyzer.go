package audio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"math/cmplx"
	"time"

	algofft "github.com/cwbudde/algo-fft"

	"emberpipe/internal/config"
	"emberpipe/internal/logging"
	"emberpipe/internal/services"
)

// Cache is the persistence seam for analysis results. Implementations must
// treat entries as immutable.
type Cache interface {
	Get(ctx context.Context, key string) (*AnalysisResult, bool, error)
	Put(ctx context.Context, key string, result *AnalysisResult) error
}

// Analyzer computes per-frame audio features for the export pipeline. It owns
// its cache handle; no process-wide state is involved.
type Analyzer struct {
	cfg    *config.Config
	cache  Cache
	logger *slog.Logger
}

// AnalyzeOptions tunes a single Analyze call.
type AnalyzeOptions struct {
	UseCache bool
}

// NewAnalyzer constructs an analyzer. cache may be nil to disable caching.
func NewAnalyzer(cfg *config.Config, cache Cache, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "audio-analyzer"),
	}
}

// CacheKey derives the cache key for a track at a given fps: content hash
// plus frame rate, so the same bytes analyzed at 30 and 60 fps coexist.
func CacheKey(data []byte, fps int) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s-%d", hex.EncodeToString(sum[:]), fps)
}

// Analyze decodes the track and produces one feature frame per output frame.
// The result depends only on the input bytes, fps, and analyzer settings.
func (a *Analyzer) Analyze(ctx context.Context, data []byte, fps int, opts AnalyzeOptions) (*AnalysisResult, error) {
	if a == nil || a.cfg == nil {
		return nil, services.Wrap(services.ErrValidation, "audio", "analyze", "analyzer is not configured", nil)
	}
	switch fps {
	case 30, 60:
	default:
		return nil, services.Wrap(services.ErrValidation, "audio", "analyze",
			fmt.Sprintf("unsupported fps %d (want 30 or 60)", fps), nil)
	}

	key := CacheKey(data, fps)
	useCache := opts.UseCache && a.cfg.Analysis.CacheEnabled && a.cache != nil
	if useCache {
		if cached, ok, err := a.cache.Get(ctx, key); err != nil {
			a.logger.Warn("analysis cache read failed",
				logging.Error(services.Wrap(services.ErrCache, "audio", "cache get", "", err)))
		} else if ok {
			a.logger.Debug("analysis cache hit", logging.String("key", key))
			return cached, nil
		}
	}

	start := time.Now()
	result, err := a.analyze(ctx, data, fps)
	if err != nil {
		return nil, err
	}
	a.logger.Info("audio analyzed",
		logging.Int("total_frames", result.TotalFrames),
		logging.Float64("duration_seconds", result.Duration),
		logging.Int("fps", fps),
		logging.Duration("elapsed", time.Since(start)))

	if useCache {
		if err := a.cache.Put(ctx, key, result); err != nil {
			a.logger.Warn("analysis cache write failed",
				logging.Error(services.Wrap(services.ErrCache, "audio", "cache put", "", err)))
		}
	}
	return result, nil
}

func (a *Analyzer) analyze(ctx context.Context, data []byte, fps int) (*AnalysisResult, error) {
	samples, rate, err := decodeMono(data)
	if err != nil {
		return nil, err
	}
	duration := float64(len(samples)) / float64(rate)

	if _, ok := analysisRates[rate]; !ok {
		resampled, err := resampleTo(samples, rate, fallbackRate)
		if err != nil {
			return nil, err
		}
		samples, rate = resampled, fallbackRate
	}

	windowSize := a.cfg.Analysis.WindowSize
	plan, err := algofft.NewPlanReal64(windowSize)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "audio", "analyze", "construct fft plan", err)
	}

	hann := make([]float64, windowSize)
	for i := range hann {
		hann[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(windowSize-1))
	}

	bounds := boundsFor(rate, windowSize)
	detector := newBeatDetector(a.cfg.Analysis.BeatThreshold, a.cfg.Analysis.BeatCooldownMs, fps)

	totalFrames := TotalFramesFor(duration, fps)
	frames := make([]FeatureFrame, 0, totalFrames)

	windowed := make([]float64, windowSize)
	spectrum := make([]complex128, windowSize/2+1)
	magnitudes := make([]float64, windowSize/2+1)
	specScale := 2.0 / float64(windowSize)

	for i := 0; i < totalFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, services.Abort("audio", "analyze", err)
		}

		t := float64(i) / float64(fps)
		center := int(t * float64(rate))
		start := center - windowSize/2

		var sumSquares float64
		for j := 0; j < windowSize; j++ {
			idx := start + j
			var s float64
			if idx >= 0 && idx < len(samples) {
				s = samples[idx]
			}
			sumSquares += s * s
			windowed[j] = s * hann[j]
		}

		plan.Forward(spectrum, windowed)
		for k := range magnitudes {
			magnitudes[k] = cmplx.Abs(spectrum[k]) * specScale
		}
		bass, mid, high := aggregateBands(magnitudes, bounds)

		frame := FeatureFrame{
			FrameIndex:  i,
			TimeSeconds: t,
			Amplitude:   clampUnit(math.Sqrt(sumSquares / float64(windowSize))),
			BassLevel:   bass,
			MidLevel:    mid,
			HighLevel:   high,
		}
		frame.IsBeat = detector.observe(i, bass)
		frames = append(frames, frame)
	}

	return &AnalysisResult{
		Frames:      frames,
		TotalFrames: totalFrames,
		Duration:    duration,
		FPS:         fps,
	}, nil
}
