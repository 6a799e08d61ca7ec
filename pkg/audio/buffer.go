package audio

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Reference clip length bounds. Clips outside this range produce poor
// clones, so they are rejected before any backend call.
const (
	MinReferenceDuration = 3 * time.Second
	MaxReferenceDuration = 30 * time.Second
)

// Errors reported by buffer construction and reference validation.
var (
	// ErrInvalidFormat indicates audio data that cannot be interpreted
	// (bad header, unsupported encoding, misaligned sample data).
	ErrInvalidFormat = errors.New("audio: invalid format")

	// ErrReferenceTooShort indicates a reference clip under MinReferenceDuration.
	ErrReferenceTooShort = errors.New("audio: reference clip too short")

	// ErrReferenceTooLong indicates a reference clip over MaxReferenceDuration.
	ErrReferenceTooLong = errors.New("audio: reference clip too long")
)

// Buffer is an immutable in-memory PCM buffer: interleaved float64 samples
// in [-1.0, 1.0], a sample rate in Hz, and a channel count.
type Buffer struct {
	samples  []float64
	rate     int
	channels int
}

// New creates a Buffer from interleaved samples. The sample count must be
// a multiple of the channel count.
func New(samples []float64, rate, channels int) (*Buffer, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, rate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channel count %d", ErrInvalidFormat, channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples not divisible by %d channels",
			ErrInvalidFormat, len(samples), channels)
	}
	return &Buffer{samples: samples, rate: rate, channels: channels}, nil
}

// Samples returns the interleaved sample data. The returned slice is owned
// by the buffer and must not be modified.
func (b *Buffer) Samples() []float64 { return b.samples }

// SampleRate returns the sample rate in Hz.
func (b *Buffer) SampleRate() int { return b.rate }

// Channels returns the number of interleaved channels.
func (b *Buffer) Channels() int { return b.channels }

// Frames returns the number of frames (samples per channel).
func (b *Buffer) Frames() int { return len(b.samples) / b.channels }

// Duration returns the playback duration of the buffer.
func (b *Buffer) Duration() time.Duration {
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.rate)
}

// Mono returns a single-channel buffer. Multi-channel input is mixed down
// by averaging each frame's channel values. Mono input is returned as is.
func (b *Buffer) Mono() *Buffer {
	if b.channels == 1 {
		return b
	}
	frames := b.Frames()
	mixed := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < b.channels; c++ {
			sum += b.samples[i*b.channels+c]
		}
		mixed[i] = sum / float64(b.channels)
	}
	return &Buffer{samples: mixed, rate: b.rate, channels: 1}
}

// Resample returns a new buffer at the target rate using linear
// interpolation. The output frame count is computed from the rate ratio,
// so the duration is preserved to within half an output sample.
func (b *Buffer) Resample(rate int) (*Buffer, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("%w: target rate %d", ErrInvalidFormat, rate)
	}
	if rate == b.rate {
		return b, nil
	}
	srcFrames := b.Frames()
	if srcFrames == 0 {
		return &Buffer{samples: nil, rate: rate, channels: b.channels}, nil
	}

	dstFrames := int(math.Round(float64(srcFrames) * float64(rate) / float64(b.rate)))
	if dstFrames < 1 {
		dstFrames = 1
	}

	step := float64(b.rate) / float64(rate)
	out := make([]float64, dstFrames*b.channels)
	for i := 0; i < dstFrames; i++ {
		pos := float64(i) * step
		j := int(pos)
		if j >= srcFrames-1 {
			// Past the last frame pair: hold the final frame.
			copy(out[i*b.channels:], b.samples[(srcFrames-1)*b.channels:srcFrames*b.channels])
			continue
		}
		frac := pos - float64(j)
		for c := 0; c < b.channels; c++ {
			s0 := b.samples[j*b.channels+c]
			s1 := b.samples[(j+1)*b.channels+c]
			out[i*b.channels+c] = s0 + (s1-s0)*frac
		}
	}
	return &Buffer{samples: out, rate: rate, channels: b.channels}, nil
}

// ValidateReference checks that the buffer is usable as a voice-cloning
// reference clip. It returns ErrReferenceTooShort or ErrReferenceTooLong
// when the duration falls outside the supported range.
func (b *Buffer) ValidateReference() error {
	d := b.Duration()
	if d < MinReferenceDuration {
		return fmt.Errorf("%w: %.2fs, need at least %s",
			ErrReferenceTooShort, d.Seconds(), MinReferenceDuration)
	}
	if d > MaxReferenceDuration {
		return fmt.Errorf("%w: %.2fs, limit is %s",
			ErrReferenceTooLong, d.Seconds(), MaxReferenceDuration)
	}
	return nil
}
