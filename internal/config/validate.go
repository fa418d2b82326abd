package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateStereo(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExport() error {
	switch c.Export.FPS {
	case 30, 60:
	default:
		return fmt.Errorf("export.fps must be 30 or 60, got %d", c.Export.FPS)
	}
	if c.Export.Gamma <= 0 {
		return errors.New("export.gamma must be positive")
	}
	if c.Export.YieldEvery <= 0 {
		return errors.New("export.yield_every must be positive")
	}
	return nil
}

func (c *Config) validateStereo() error {
	if c.Stereo.IPD <= 0 {
		return errors.New("stereo.ipd must be positive")
	}
	if c.Stereo.Scale <= 0 {
		return errors.New("stereo.scale must be positive")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.WindowSize <= 0 || c.Analysis.WindowSize&(c.Analysis.WindowSize-1) != 0 {
		return fmt.Errorf("analysis.window_size must be a positive power of two, got %d", c.Analysis.WindowSize)
	}
	if c.Analysis.BeatThreshold <= 0 || c.Analysis.BeatThreshold >= 1 {
		return errors.New("analysis.beat_threshold must be between 0 and 1")
	}
	if c.Analysis.BeatCooldownMs <= 0 {
		return errors.New("analysis.beat_cooldown_ms must be positive")
	}
	if c.Analysis.CacheTTLDays <= 0 {
		return errors.New("analysis.cache_ttl_days must be positive")
	}
	return nil
}
