// Package config loads, normalizes, and validates emberpipe configuration
// from TOML. Missing files fall back to Default(); all path fields are
// expanded to absolute paths during Load.
package config
