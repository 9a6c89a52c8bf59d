package tone

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/julianstephens/pausa/internal/constants"
)

const (
	envelopeSamples = constants.ToneSampleRate / 200 // 5ms attack and release
	headroom        = 0.8
	pcmFormat       = 1
)

// Render synthesises p as mono 16-bit PCM at volume 0-100. Output is deterministic.
func Render(p Preset, volume int) []int {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	peak := float64(volume) / 100 * headroom * float64(math.MaxInt16)

	var out []int
	for _, seg := range p.Segments {
		n := int(seg.Duration.Seconds() * constants.ToneSampleRate)
		for i := 0; i < n; i++ {
			phase := math.Mod(seg.Frequency*float64(i)/constants.ToneSampleRate, 1)
			v := oscillate(p.Waveform, phase) * envelope(i, n) * peak
			out = append(out, int(math.Round(v)))
		}
	}
	return out
}

// oscillate returns the waveform value in [-1, 1] at phase [0, 1).
func oscillate(w Waveform, phase float64) float64 {
	switch w {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		return 1 - 4*math.Abs(phase-0.5)
	case Sawtooth:
		return 2*phase - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

func envelope(i, n int) float64 {
	ramp := envelopeSamples
	if ramp*2 > n {
		ramp = n / 2
	}
	if ramp == 0 {
		return 1
	}
	switch {
	case i < ramp:
		return float64(i) / float64(ramp)
	case i >= n-ramp:
		return float64(n-1-i) / float64(ramp)
	default:
		return 1
	}
}

// EncodeWAV writes samples as a RIFF/WAVE stream.
func EncodeWAV(w io.WriteSeeker, samples []int) error {
	enc := wav.NewEncoder(w, constants.ToneSampleRate, constants.ToneBitDepth, 1, pcmFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: constants.ToneSampleRate},
		Data:           samples,
		SourceBitDepth: constants.ToneBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to encode tone: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalise tone: %w", err)
	}
	return nil
}

// WriteFile renders p at volume into a WAV file at path.
func WriteFile(path string, p Preset, volume int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := EncodeWAV(f, Render(p, volume)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeTemp renders p into a temporary WAV file and returns its path.
func writeTemp(p Preset, volume int) (string, error) {
	f, err := os.CreateTemp("", "pausa-tone-*.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create tone file: %w", err)
	}
	if err := EncodeWAV(f, Render(p, volume)); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
