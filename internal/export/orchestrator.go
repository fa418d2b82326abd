package export

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"

	"emberpipe/internal/audio"
	"emberpipe/internal/config"
	"emberpipe/internal/cubemap"
	"emberpipe/internal/frame"
	"emberpipe/internal/logging"
	"emberpipe/internal/projection"
	"emberpipe/internal/render"
	"emberpipe/internal/services"
	"emberpipe/internal/stepper"
	"emberpipe/internal/stereo"
)

// Scene is the animated content of an export: a renderer plus the state
// update the stepper drives once per frame.
type Scene interface {
	render.Renderer
	Advance(frameIndex int, feature audio.FeatureFrame, delta float64)
}

// SceneFactory builds a scene bound to the run's random stream. A fresh
// scene per run keeps state evolution reproducible from the seed alone.
type SceneFactory func(gen *stepper.Generator) (Scene, error)

// Request describes one export run.
type Request struct {
	Audio []byte
	Kind  Kind
	// FPS overrides the configured frame rate when non-zero.
	FPS int
	// Seed overrides the configured seed when non-nil.
	Seed *uint64
	// UseCache allows reading and writing the analysis cache.
	UseCache bool
}

// Result is the structured outcome of a run. Stage failures land here
// instead of propagating; Frames counts frames delivered to the sink before
// any failure, and those frames remain valid.
type Result struct {
	RunID    string
	Kind     Kind
	Success  bool
	Aborted  bool
	Frames   int
	Duration time.Duration
	Err      error
}

// Orchestrator runs exports end to end: analyze, render, finalize. A single
// logical worker produces frames in strictly increasing order; reproducibility
// depends on the sequential generator draws, so there is no intra-run
// parallelism, only cooperative yielding.
type Orchestrator struct {
	cfg      *config.Config
	analyzer *audio.Analyzer
	newScene SceneFactory
	sink     Sink
	progress ProgressFunc
	logger   *slog.Logger
}

// NewOrchestrator wires an orchestrator. progress may be nil.
func NewOrchestrator(cfg *config.Config, analyzer *audio.Analyzer, newScene SceneFactory, sink Sink, progress ProgressFunc, logger *slog.Logger) (*Orchestrator, error) {
	if cfg == nil || analyzer == nil || newScene == nil || sink == nil {
		return nil, services.Wrap(services.ErrValidation, "export", "new",
			"config, analyzer, scene factory and sink are all required", nil)
	}
	return &Orchestrator{
		cfg:      cfg,
		analyzer: analyzer,
		newScene: newScene,
		sink:     sink,
		progress: progress,
		logger:   logging.NewComponentLogger(logger, "export"),
	}, nil
}

// Export runs one export to completion or failure.
func (o *Orchestrator) Export(ctx context.Context, req Request) Result {
	start := time.Now()
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	log := o.logger.With(logging.String(logging.FieldRunID, runID))

	result := Result{RunID: runID, Kind: req.Kind}
	fail := func(err error) Result {
		result.Err = err
		result.Aborted = services.IsAborted(err)
		result.Duration = time.Since(start)
		if result.Aborted {
			log.Info("export cancelled",
				logging.Int("frames", result.Frames),
				logging.Duration("elapsed", result.Duration))
		} else {
			log.Error("export failed",
				logging.Error(err),
				logging.Int("frames", result.Frames))
		}
		return result
	}

	if _, ok := kinds[req.Kind]; !ok {
		return fail(services.Wrap(services.ErrValidation, "export", "export",
			fmt.Sprintf("unknown export kind %d", int(req.Kind)), nil))
	}
	fps := req.FPS
	if fps == 0 {
		fps = o.cfg.Export.FPS
	}
	seed := o.cfg.Export.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	log.Info("export starting",
		logging.String("kind", req.Kind.String()),
		logging.Int("fps", fps),
		logging.Bool("needs_gpu", req.Kind.NeedsGPU()))

	tracker := newProgressTracker(o.progress)
	tracker.report(StageAnalyze, 0)
	analysis, err := o.analyzer.Analyze(ctx, req.Audio, fps, audio.AnalyzeOptions{UseCache: req.UseCache})
	if err != nil {
		return fail(err)
	}
	tracker.report(StageAnalyze, 1)

	var scene Scene
	st := stepper.New(fps, seed, func(i int, f audio.FeatureFrame, d float64) {
		scene.Advance(i, f, d)
	}, log)
	scene, err = o.newScene(st.Generator())
	if err != nil {
		return fail(err)
	}

	run := o.runFlat
	if req.Kind.IsStereo() {
		run = o.runStereo
	} else if req.Kind.Is360() {
		run = o.runMono360
	}
	delivered, err := run(ctx, req.Kind, analysis, st, scene, tracker, log)
	result.Frames = delivered
	if err != nil {
		return fail(err)
	}

	tracker.report(StageFinalize, 0)
	if err := o.sink.Flush(ctx); err != nil {
		return fail(err)
	}
	tracker.report(StageFinalize, 1)

	result.Success = true
	result.Duration = time.Since(start)
	log.Info("export complete",
		logging.Int("frames", result.Frames),
		logging.Duration("elapsed", result.Duration))
	return result
}

// frameLoop runs the shared per-frame cadence: cancellation check, stepper
// advance, produce, progress, cooperative yield.
func (o *Orchestrator) frameLoop(ctx context.Context, analysis *audio.AnalysisResult, st *stepper.Stepper, tracker *progressTracker, produce func(ctx context.Context, frameIndex int) error) (int, error) {
	total := analysis.TotalFrames
	stride := total / 100
	if stride < 1 {
		stride = 1
	}
	yieldEvery := o.cfg.Export.YieldEvery

	delivered := 0
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return delivered, services.Abort("export", "render", err)
		}
		if err := st.StepToFrame(i, analysis.FrameAt(i)); err != nil {
			return delivered, err
		}
		if err := produce(ctx, i); err != nil {
			return delivered, err
		}
		delivered++
		if delivered%stride == 0 || delivered == total {
			tracker.report(StageRender, float64(delivered)/float64(total))
		}
		if yieldEvery > 0 && delivered%yieldEvery == 0 {
			runtime.Gosched()
		}
	}
	return delivered, nil
}

func (o *Orchestrator) runFlat(ctx context.Context, kind Kind, analysis *audio.AnalysisResult, st *stepper.Stepper, scene Scene, tracker *progressTracker, log *slog.Logger) (int, error) {
	w, h := kind.Resolution()
	if err := scene.Resize(w, h); err != nil {
		return 0, err
	}
	reader, err := frame.NewReader(scene.Target(), o.cfg.Export.Gamma, o.cfg.Export.OwnedFrames, log)
	if err != nil {
		return 0, err
	}
	view := render.View{Forward: render.Vec3{Z: -1}, Up: render.Vec3{Y: 1}}

	return o.frameLoop(ctx, analysis, st, tracker, func(ctx context.Context, i int) error {
		if err := scene.Render(view); err != nil {
			return services.Wrap(services.ErrCapture, "export", "render",
				fmt.Sprintf("rendering frame %d", i), err)
		}
		pf, err := reader.Capture(ctx, i)
		if err != nil {
			return err
		}
		return o.sink.WriteFrame(ctx, pf)
	})
}

func (o *Orchestrator) runMono360(ctx context.Context, kind Kind, analysis *audio.AnalysisResult, st *stepper.Stepper, scene Scene, tracker *progressTracker, log *slog.Logger) (int, error) {
	capturer, err := cubemap.NewCapturer(scene, o.cfg.Export.Gamma, log)
	if err != nil {
		return 0, err
	}
	projector := projection.New(log)
	width := kind.PanoramaWidth()

	return o.frameLoop(ctx, analysis, st, tracker, func(ctx context.Context, i int) error {
		set, err := capturer.Capture(ctx, i, render.Vec3{}, width)
		if err != nil {
			return err
		}
		pf, err := projector.Convert(set, width)
		if err != nil {
			return err
		}
		return o.deliver(ctx, pf)
	})
}

func (o *Orchestrator) runStereo(ctx context.Context, kind Kind, analysis *audio.AnalysisResult, st *stepper.Stepper, scene Scene, tracker *progressTracker, log *slog.Logger) (int, error) {
	capturer, err := cubemap.NewCapturer(scene, o.cfg.Export.Gamma, log)
	if err != nil {
		return 0, err
	}
	stereoCap, err := cubemap.NewStereoCapturer(capturer, o.cfg.Stereo.IPD, o.cfg.Stereo.Scale)
	if err != nil {
		return 0, err
	}
	projector := projection.New(log)
	width := kind.PanoramaWidth()

	return o.frameLoop(ctx, analysis, st, tracker, func(ctx context.Context, i int) error {
		leftSet, rightSet, err := stereoCap.Capture(ctx, i, render.Vec3{}, width)
		if err != nil {
			return err
		}
		left, err := projector.Convert(leftSet, width)
		if err != nil {
			return err
		}
		right, err := projector.Convert(rightSet, width)
		if err != nil {
			return err
		}
		stacked, err := stereo.StackTopBottom(stereo.FramePair{Left: left, Right: right})
		if err != nil {
			return err
		}
		// Stacked frames already own their pixels.
		return o.sink.WriteFrame(ctx, stacked)
	})
}

// deliver hands a frame to the sink, detaching it from any recycled buffer
// first when the run is configured for owned frames.
func (o *Orchestrator) deliver(ctx context.Context, pf *frame.PixelFrame) error {
	if o.cfg.Export.OwnedFrames {
		clone := *pf
		clone.PixelData = append([]byte(nil), pf.PixelData...)
		pf = &clone
	}
	return o.sink.WriteFrame(ctx, pf)
}
