package testsupport

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"
)

// WAVBytes encodes mono float32 samples as a 16-bit PCM WAV and returns the
// raw file bytes.
func WAVBytes(t testing.TB, samples []float32, sampleRate int) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "track.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &goaudio.Float32Buffer{
		Format: &goaudio.Format{
			SampleRate:  sampleRate,
			NumChannels: 1,
		},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	return data
}

// SilentWAV returns WAV bytes holding pure silence.
func SilentWAV(t testing.TB, seconds float64, sampleRate int) []byte {
	t.Helper()
	return WAVBytes(t, make([]float32, int(seconds*float64(sampleRate))), sampleRate)
}

// SineWAV returns WAV bytes holding a constant-frequency sine tone at the
// given amplitude.
func SineWAV(t testing.TB, freqHz, seconds, amplitude float64, sampleRate int) []byte {
	t.Helper()
	n := int(seconds * float64(sampleRate))
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(amplitude * math.Sin(2*math.Pi*freqHz*float64(i)/float64(sampleRate)))
	}
	return WAVBytes(t, samples, sampleRate)
}

// PulseWAV returns WAV bytes where a low-frequency tone switches on and off
// every burst period, producing clean rising edges for beat detection.
func PulseWAV(t testing.TB, freqHz, seconds, burstSeconds float64, sampleRate int) []byte {
	t.Helper()
	n := int(seconds * float64(sampleRate))
	burst := int(burstSeconds * float64(sampleRate))
	samples := make([]float32, n)
	for i := range samples {
		if (i/burst)%2 == 0 {
			samples[i] = float32(0.9 * math.Sin(2*math.Pi*freqHz*float64(i)/float64(sampleRate)))
		}
	}
	return WAVBytes(t, samples, sampleRate)
}
