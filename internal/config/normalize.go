package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExport()
	c.normalizeStereo()
	c.normalizeAnalysis()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockFile) == "" {
		c.Paths.LockFile = defaultLockFile
	}
	if c.Paths.LockFile, err = expandPath(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeExport() {
	if c.Export.FPS == 0 {
		c.Export.FPS = defaultFPS
	}
	if c.Export.Gamma == 0 {
		c.Export.Gamma = defaultGamma
	}
	if c.Export.Seed == 0 {
		c.Export.Seed = defaultSeed
	}
	if c.Export.YieldEvery <= 0 {
		c.Export.YieldEvery = defaultYieldEvery
	}
}

func (c *Config) normalizeStereo() {
	if c.Stereo.IPD == 0 {
		c.Stereo.IPD = defaultIPD
	}
	if c.Stereo.Scale == 0 {
		c.Stereo.Scale = defaultStereoScale
	}
}

func (c *Config) normalizeAnalysis() {
	if c.Analysis.WindowSize == 0 {
		c.Analysis.WindowSize = defaultWindowSize
	}
	if c.Analysis.BeatThreshold == 0 {
		c.Analysis.BeatThreshold = defaultBeatThreshold
	}
	if c.Analysis.BeatCooldownMs == 0 {
		c.Analysis.BeatCooldownMs = defaultBeatCooldownMs
	}
	if c.Analysis.CacheTTLDays == 0 {
		c.Analysis.CacheTTLDays = defaultCacheTTLDays
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
