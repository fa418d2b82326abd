// Package stereo combines left/right equirectangular eye frames into single
// stacked frames for stereoscopic playback.
package stereo
