package testsupport

import (
	"path/filepath"
	"testing"

	"emberpipe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LockFile = filepath.Join(base, "export.lock")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithFPS overrides the output frame rate on the test config.
func WithFPS(fps int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Export.FPS = fps
	}
}

// WithSeed overrides the stepper seed on the test config.
func WithSeed(seed uint64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Export.Seed = seed
	}
}

// WithSharedBuffers disables owned frame copies so tests can exercise the
// double-buffer borrow contract.
func WithSharedBuffers() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Export.OwnedFrames = false
	}
}

// WithCacheDisabled turns the analysis cache off.
func WithCacheDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Analysis.CacheEnabled = false
	}
}
