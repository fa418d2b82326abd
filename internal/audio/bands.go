package audio

// Frequency band edges in Hz. Everything below bassLowHz or at and above
// highEdgeHz is ignored.
const (
	bassLowHz  = 20.0
	bassMidHz  = 250.0
	midHighHz  = 4000.0
	highEdgeHz = 16000.0
)

// analysisRates are the sample rates the band boundary table covers. Tracks
// at any other rate are resampled to fallbackRate before analysis.
var analysisRates = map[int]struct{}{
	44100: {},
	48000: {},
}

const fallbackRate = 48000

// bandBounds holds half-open FFT bin ranges [lo, hi) for the three bands at
// one sample rate and window size.
type bandBounds struct {
	bassLo, bassHi int
	midHi          int
	highHi         int
}

// boundsFor computes the bin boundary entry for a supported sample rate.
// Bin k covers frequency k*rate/windowSize.
func boundsFor(sampleRate, windowSize int) bandBounds {
	bin := func(hz float64) int {
		b := int(hz * float64(windowSize) / float64(sampleRate))
		if max := windowSize / 2; b > max {
			b = max
		}
		return b
	}
	bounds := bandBounds{
		bassLo: bin(bassLowHz),
		bassHi: bin(bassMidHz),
		midHi:  bin(midHighHz),
		highHi: bin(highEdgeHz),
	}
	// A narrow band must still cover at least one bin.
	if bounds.bassHi <= bounds.bassLo {
		bounds.bassHi = bounds.bassLo + 1
	}
	if bounds.midHi <= bounds.bassHi {
		bounds.midHi = bounds.bassHi + 1
	}
	if bounds.highHi <= bounds.midHi {
		bounds.highHi = bounds.midHi + 1
	}
	return bounds
}

// aggregateBands reduces a linear magnitude spectrum to per-band levels by
// averaging the bins inside each band.
func aggregateBands(magnitudes []float64, bounds bandBounds) (bass, mid, high float64) {
	mean := func(lo, hi int) float64 {
		if hi > len(magnitudes) {
			hi = len(magnitudes)
		}
		if lo >= hi {
			return 0
		}
		var sum float64
		for k := lo; k < hi; k++ {
			sum += magnitudes[k]
		}
		return sum / float64(hi-lo)
	}
	bass = clampUnit(mean(bounds.bassLo, bounds.bassHi))
	mid = clampUnit(mean(bounds.bassHi, bounds.midHi))
	high = clampUnit(mean(bounds.midHi, bounds.highHi))
	return bass, mid, high
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
