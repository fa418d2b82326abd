package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultOutputDir      = "~/.local/share/emberpipe/output"
	defaultLogDir         = "~/.local/share/emberpipe/logs"
	defaultLockFile       = "~/.local/share/emberpipe/export.lock"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultFPS            = 30
	defaultGamma          = 2.2
	defaultSeed           = uint64(0x45464C414D45) // "EFLAME"
	defaultYieldEvery     = 4
	defaultIPD            = 0.064
	defaultStereoScale    = 1.0
	defaultWindowSize     = 512
	defaultBeatThreshold  = 0.3
	defaultBeatCooldownMs = 80
	defaultCacheTTLDays   = 7
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			CacheDir:  defaultCacheDir(),
			LogDir:    defaultLogDir,
			LockFile:  defaultLockFile,
		},
		Export: Export{
			FPS:         defaultFPS,
			Gamma:       defaultGamma,
			Seed:        defaultSeed,
			YieldEvery:  defaultYieldEvery,
			OwnedFrames: true,
		},
		Stereo: Stereo{
			IPD:   defaultIPD,
			Scale: defaultStereoScale,
		},
		Analysis: Analysis{
			WindowSize:     defaultWindowSize,
			BeatThreshold:  defaultBeatThreshold,
			BeatCooldownMs: defaultBeatCooldownMs,
			CacheEnabled:   true,
			CacheTTLDays:   defaultCacheTTLDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "emberpipe")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/emberpipe"
	}
	return filepath.Join(home, ".cache", "emberpipe")
}
