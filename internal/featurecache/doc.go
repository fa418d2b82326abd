// Package featurecache persists audio analysis results in SQLite so repeated
// exports of the same track skip the FFT pass.
//
// Entries are keyed by audio content hash plus fps and expire after a
// configurable TTL (seven days by default). Expiry is lazy: stale rows are
// dropped when read, and Prune removes them in bulk. Callers treat every
// failure here as non-fatal; the analyzer recomputes on any miss.
package featurecache
