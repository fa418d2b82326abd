package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"emberpipe/internal/audio"
	"emberpipe/internal/export"
	"emberpipe/internal/featurecache"
	"emberpipe/internal/render"
	"emberpipe/internal/stepper"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var kindTag string
	var fps int
	var seed uint64
	var noCache bool
	var framesDir string

	cmd := &cobra.Command{
		Use:   "export <audio-file>",
		Short: "Render an audio track into a frame sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			kind, err := export.ParseKind(kindTag)
			if err != nil {
				return err
			}
			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			audioBytes, err := readAudioFile(args[0])
			if err != nil {
				return err
			}

			// One export at a time: runs share the rendering resource.
			lock := flock.New(cfg.Paths.LockFile)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire export lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another export is already running (lock %s)", cfg.Paths.LockFile)
			}
			defer func() { _ = lock.Unlock() }()

			var cache audio.Cache
			if cfg.Analysis.CacheEnabled {
				store, err := featurecache.Open(cfg)
				if err != nil {
					return fmt.Errorf("open analysis cache: %w", err)
				}
				defer store.Close()
				cache = store
			}
			analyzer := audio.NewAnalyzer(cfg, cache, logger)

			dir := framesDir
			if dir == "" {
				dir = filepath.Join(cfg.Paths.OutputDir,
					fmt.Sprintf("%s-%s", kind, uuid.NewString()[:8]))
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create frames directory: %w", err)
			}
			sink := &export.PNGSink{Dir: dir}

			sceneFactory := func(gen *stepper.Generator) (export.Scene, error) {
				return render.NewProcedural(64, 64, gen)
			}

			bar := progressbar.NewOptions(100,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("analyze"),
				progressbar.OptionSetWidth(30),
				progressbar.OptionShowCount(),
			)
			progress := func(percent float64, stage string) {
				bar.Describe(stage)
				_ = bar.Set(int(percent + 0.5))
			}

			orchestrator, err := export.NewOrchestrator(cfg, analyzer, sceneFactory, sink, progress, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			req := export.Request{
				Audio:    audioBytes,
				Kind:     kind,
				FPS:      fps,
				UseCache: !noCache,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			result := orchestrator.Export(runCtx, req)
			_ = bar.Finish()
			fmt.Fprintln(cmd.ErrOrStderr())

			if !result.Success {
				if result.Aborted {
					return fmt.Errorf("export cancelled after %d frames", result.Frames)
				}
				return fmt.Errorf("export failed: %w", result.Err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run ID:   %s\n", result.RunID)
			fmt.Fprintf(out, "Kind:     %s\n", result.Kind)
			fmt.Fprintf(out, "Frames:   %d\n", result.Frames)
			fmt.Fprintf(out, "Elapsed:  %s\n", result.Duration.Round(10*time.Millisecond))
			fmt.Fprintf(out, "Output:   %s\n", dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindTag, "kind", "k", export.KindFlat1080pLandscape.String(), "Export kind (see `emberpipe presets`)")
	cmd.Flags().IntVar(&fps, "fps", 0, "Frame rate override (30 or 60)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed override for the deterministic generator")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the audio analysis cache")
	cmd.Flags().StringVar(&framesDir, "frames-dir", "", "Directory for PNG frames (default under output_dir)")
	return cmd
}
