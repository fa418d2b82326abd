// Package projection resamples captured cube faces into the 2:1
// equirectangular layout 360 video players expect.
package projection
