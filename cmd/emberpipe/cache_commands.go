package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"emberpipe/internal/featurecache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Audio analysis cache maintenance",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show analysis cache contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := featurecache.Open(cfg)
			if err != nil {
				return fmt.Errorf("open analysis cache: %w", err)
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache path: %s\n", store.Path())
			fmt.Fprintf(out, "Entries:    %d\n", stats.Entries)
			if stats.Entries > 0 {
				fmt.Fprintf(out, "Oldest:     %s ago\n", stats.OldestAge.Round(time.Minute))
			}
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop expired analysis cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := featurecache.Open(cfg)
			if err != nil {
				return fmt.Errorf("open analysis cache: %w", err)
			}
			defer store.Close()

			dropped, err := store.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d expired entries\n", dropped)
			return nil
		},
	}
}
