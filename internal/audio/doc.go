// Package audio turns a raw audio track into per-frame feature vectors the
// animation stepper and export orchestrator consume.
//
// Analysis is fully determined by its inputs: the track is decoded, mixed to
// mono, resampled to a supported analysis rate when needed, and windowed once
// per output frame. Each window yields a magnitude spectrum (real FFT) that
// is aggregated into bass/mid/high band levels through a sample-rate-indexed
// bin boundary table. Beats are rising-edge threshold crossings on the
// smoothed bass envelope, spaced at least one cooldown apart.
//
// Results are cached through an optional store keyed by audio content hash
// and fps; cache failures never fail an analysis.
package audio
