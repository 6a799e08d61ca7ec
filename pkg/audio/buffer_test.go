package audio

import (
	"errors"
	"math"
	"testing"
	"time"
)

func sine(freq float64, rate, channels int, d time.Duration) *Buffer {
	frames := int(d.Seconds() * float64(rate))
	samples := make([]float64, frames*channels)
	for i := 0; i < frames; i++ {
		v := 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		for c := 0; c < channels; c++ {
			samples[i*channels+c] = v
		}
	}
	b, err := New(samples, rate, channels)
	if err != nil {
		panic(err)
	}
	return b
}

func TestNew_invariants(t *testing.T) {
	tests := []struct {
		name     string
		samples  []float64
		rate     int
		channels int
		wantErr  bool
	}{
		{name: "valid mono", samples: make([]float64, 100), rate: 16000, channels: 1},
		{name: "valid stereo", samples: make([]float64, 100), rate: 44100, channels: 2},
		{name: "misaligned", samples: make([]float64, 101), rate: 44100, channels: 2, wantErr: true},
		{name: "zero rate", samples: make([]float64, 10), rate: 0, channels: 1, wantErr: true},
		{name: "zero channels", samples: make([]float64, 10), rate: 16000, channels: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.samples, tt.rate, tt.channels)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("New() error = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestBuffer_Mono(t *testing.T) {
	b, _ := New([]float64{0.2, 0.4, -0.6, 0.6, 1.0, 0.0}, 16000, 2)
	m := b.Mono()

	if m.Channels() != 1 {
		t.Fatalf("Channels() = %d, want 1", m.Channels())
	}
	want := []float64{0.3, 0.0, 0.5}
	got := m.Samples()
	if len(got) != len(want) {
		t.Fatalf("len(Samples()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestBuffer_Mono_passthrough(t *testing.T) {
	b, _ := New([]float64{0.1, 0.2}, 16000, 1)
	if m := b.Mono(); m != b {
		t.Error("Mono() on mono input should return the same buffer")
	}
}

func TestBuffer_Resample_durationBound(t *testing.T) {
	// 5.0s at 44100 Hz down to 24000 Hz must stay within 1ms of 5.0s.
	b := sine(440, 44100, 1, 5*time.Second)
	out, err := b.Resample(24000)
	if err != nil {
		t.Fatal(err)
	}
	if out.SampleRate() != 24000 {
		t.Fatalf("SampleRate() = %d, want 24000", out.SampleRate())
	}
	got := out.Duration()
	if diff := (got - 5*time.Second).Abs(); diff > time.Millisecond {
		t.Errorf("Duration() = %v, off by %v (limit 1ms)", got, diff)
	}
}

func TestBuffer_Resample_upsample(t *testing.T) {
	b := sine(200, 16000, 1, 2*time.Second)
	out, err := b.Resample(48000)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := out.Frames(), 96000; got != want {
		t.Errorf("Frames() = %d, want %d", got, want)
	}
}

func TestBuffer_Resample_sameRate(t *testing.T) {
	b := sine(200, 24000, 1, time.Second)
	out, err := b.Resample(24000)
	if err != nil {
		t.Fatal(err)
	}
	if out != b {
		t.Error("Resample() to the same rate should return the same buffer")
	}
}

func TestBuffer_Resample_stereo(t *testing.T) {
	b := sine(100, 44100, 2, time.Second)
	out, err := b.Resample(22050)
	if err != nil {
		t.Fatal(err)
	}
	if out.Channels() != 2 {
		t.Fatalf("Channels() = %d, want 2", out.Channels())
	}
	if len(out.Samples())%2 != 0 {
		t.Error("resampled stereo buffer has misaligned samples")
	}
}

func TestBuffer_ValidateReference(t *testing.T) {
	tests := []struct {
		name    string
		dur     time.Duration
		wantErr error
	}{
		{name: "too short", dur: 2 * time.Second, wantErr: ErrReferenceTooShort},
		{name: "too long", dur: 35 * time.Second, wantErr: ErrReferenceTooLong},
		{name: "ok", dur: 10 * time.Second},
		{name: "lower bound", dur: 3 * time.Second},
		{name: "upper bound", dur: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sine(440, 16000, 1, tt.dur)
			err := b.ValidateReference()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateReference() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateReference() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuffer_Duration(t *testing.T) {
	b, _ := New(make([]float64, 48000), 24000, 2)
	if got := b.Duration(); got != time.Second {
		t.Errorf("Duration() = %v, want 1s", got)
	}
}
