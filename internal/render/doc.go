// Package render defines the surface and renderer seams the capture pipeline
// draws from, plus a deterministic procedural renderer used by the CLI and
// tests. Surfaces hand back RGBA pixels with rows ordered bottom to top, the
// convention of GPU readback paths; orientation correction happens downstream.
package render
