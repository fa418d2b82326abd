package audio

import "math"

// beatDetector flags rising-edge threshold crossings on the smoothed bass
// envelope. A beat registers only when the smoothed level rises through the
// threshold and the cooldown since the previous beat has elapsed.
type beatDetector struct {
	threshold      float64
	cooldownFrames int
	smoothing      float64

	smoothed  float64
	prevAbove bool
	lastBeat  int
	sawBeat   bool
}

// newBeatDetector builds a detector for the given fps. cooldownMs is
// converted to whole frames, rounding up so the minimum spacing holds at any
// frame rate.
func newBeatDetector(threshold float64, cooldownMs, fps int) *beatDetector {
	return &beatDetector{
		threshold:      threshold,
		cooldownFrames: int(math.Ceil(float64(cooldownMs) / 1000.0 * float64(fps))),
		smoothing:      0.4,
	}
}

// observe feeds one frame's bass level and reports whether it is a beat.
func (d *beatDetector) observe(frameIndex int, bass float64) bool {
	d.smoothed += d.smoothing * (bass - d.smoothed)

	above := d.smoothed > d.threshold
	rising := above && !d.prevAbove
	d.prevAbove = above

	if !rising {
		return false
	}
	if d.sawBeat && frameIndex-d.lastBeat < d.cooldownFrames {
		return false
	}
	d.lastBeat = frameIndex
	d.sawBeat = true
	return true
}
