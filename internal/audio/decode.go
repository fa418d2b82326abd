package audio

import (
	"bytes"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"

	"emberpipe/internal/services"
)

// decodeMono decodes WAV bytes to a mono float64 signal in [-1, 1] and
// returns the signal with its sample rate.
func decodeMono(data []byte) ([]float64, int, error) {
	if len(data) == 0 {
		return nil, 0, services.Wrap(services.ErrDecode, "audio", "decode", "empty audio input", nil)
	}
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, 0, services.Wrap(services.ErrDecode, "audio", "decode", "not a valid wav file", nil)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, services.Wrap(services.ErrDecode, "audio", "decode", "read pcm data", err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate <= 0 {
		return nil, 0, services.Wrap(services.ErrDecode, "audio", "decode", "missing pcm format", nil)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(dec.BitDepth)
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		out[i] = sum / float64(ch) / scale
	}
	return out, buf.Format.SampleRate, nil
}

// resampleTo converts a signal to the target rate. Rates already equal pass
// through untouched.
func resampleTo(in []float64, fromRate, toRate int) ([]float64, error) {
	if fromRate == toRate {
		return in, nil
	}
	r, err := dspresample.NewForRates(
		float64(fromRate),
		float64(toRate),
		dspresample.WithQuality(dspresample.QualityBest),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrDecode, "audio", "resample", "construct resampler", err)
	}
	return r.Process(in), nil
}
