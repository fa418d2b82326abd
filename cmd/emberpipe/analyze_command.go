package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"emberpipe/internal/audio"
	"emberpipe/internal/featurecache"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var fps int
	var noCache bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <audio-file>",
		Short: "Analyze an audio track without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
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
			result, err := analyzer.Analyze(cmd.Context(), audioBytes, fps,
				audio.AnalyzeOptions{UseCache: !noCache})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, result)
			}

			beats := 0
			peak := 0.0
			for _, f := range result.Frames {
				if f.IsBeat {
					beats++
				}
				if f.Amplitude > peak {
					peak = f.Amplitude
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Duration:       %.3fs\n", result.Duration)
			fmt.Fprintf(out, "Frame rate:     %d fps\n", result.FPS)
			fmt.Fprintf(out, "Total frames:   %d\n", result.TotalFrames)
			fmt.Fprintf(out, "Beats detected: %d\n", beats)
			fmt.Fprintf(out, "Peak amplitude: %.3f\n", peak)
			return nil
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 30, "Analysis frame rate (30 or 60)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the analysis cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the full analysis result as JSON")
	return cmd
}
