// Package services defines the shared error taxonomy and context annotations
// used across the pipeline.
//
// Stage implementations wrap failures with one of the exported sentinel
// errors (ErrValidation, ErrAborted, ErrDecode, ErrCapture, ErrCache) via
// Wrap so the export orchestrator can classify them without string matching.
// Only ErrCapture is recovered locally (sync readback fallback); ErrCache is
// logged and ignored; everything else surfaces as a structured export
// failure.
package services
