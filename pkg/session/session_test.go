package session

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opentts/opentts/pkg/audio"
	"github.com/opentts/opentts/pkg/backend"
	"github.com/opentts/opentts/pkg/voice"
)

// stubBackend is a scripted backend.Client that records call counts.
type stubBackend struct {
	model   backend.Model
	healthy bool

	cannedAudio   *audio.Buffer
	cannedPayload []byte

	healthCalls  int
	extractCalls int
	synthCalls   int

	lastExtract *audio.Buffer
	lastText    string
	lastSpeed   float64
}

func (s *stubBackend) Model() backend.Model { return s.model }

func (s *stubBackend) Health(ctx context.Context) backend.Health {
	s.healthCalls++
	return backend.Health{Available: s.healthy, Model: string(s.model)}
}

func (s *stubBackend) ExtractVoice(ctx context.Context, buf *audio.Buffer, transcript string) (*voice.Embedding, error) {
	s.extractCalls++
	s.lastExtract = buf
	return &voice.Embedding{
		Model:      string(s.model),
		Transcript: transcript,
		CreatedAt:  time.Now().UTC(),
		Payload:    s.cannedPayload,
	}, nil
}

func (s *stubBackend) Synthesize(ctx context.Context, text string, e *voice.Embedding, speed float64) (*audio.Buffer, error) {
	if e.Model != string(s.model) {
		return nil, backend.ErrModelMismatch
	}
	s.synthCalls++
	s.lastText = text
	s.lastSpeed = speed
	return s.cannedAudio, nil
}

func (s *stubBackend) ListVoices(ctx context.Context) ([]backend.RemoteVoice, error) {
	return nil, nil
}

func (s *stubBackend) DeleteVoice(ctx context.Context, name string) error {
	return nil
}

func newStub(model backend.Model) *stubBackend {
	frames := backend.InputSampleRate // one second of silence
	canned, err := audio.New(make([]float64, frames), backend.InputSampleRate, 1)
	if err != nil {
		panic(err)
	}
	return &stubBackend{
		model:         model,
		healthy:       true,
		cannedAudio:   canned,
		cannedPayload: []byte{0x0b, 0x0e, 0x0e, 0x0f},
	}
}

// writeWAV writes a stereo 44.1 kHz sine clip of the given length and
// returns its path.
func writeWAV(t *testing.T, dir string, d time.Duration) string {
	t.Helper()
	frames := int(d.Seconds() * 44100)
	samples := make([]float64, frames*2)
	for i := 0; i < frames; i++ {
		v := 0.4 * math.Sin(2*math.Pi*440*float64(i)/44100)
		samples[i*2] = v
		samples[i*2+1] = v
	}
	buf, err := audio.New(samples, 44100, 2)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := audio.EncodeWAV(&out, buf); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "sample.wav")
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func openStore(t *testing.T, dir string) *voice.Store {
	t.Helper()
	s, err := voice.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestEngine_endToEnd(t *testing.T) {
	dir := t.TempDir()
	wav := writeWAV(t, dir, 10*time.Second)
	storeDir := filepath.Join(dir, "voices")
	ctx := context.Background()

	// First invocation: clone from reference and save.
	stub := newStub(backend.OpenVoice)
	eng := New(stub, openStore(t, storeDir))

	if eng.State() != Idle {
		t.Fatalf("initial State() = %v, want idle", eng.State())
	}
	ref := Reference{Path: wav, Transcript: "Hello, this is my voice."}
	if err := eng.LoadReference(ctx, ref); err != nil {
		t.Fatal(err)
	}
	if eng.State() != ReferenceLoaded {
		t.Fatalf("State() after LoadReference = %v, want reference-loaded", eng.State())
	}
	if err := eng.SaveVoice("myvoice"); err != nil {
		t.Fatal(err)
	}

	// Fresh session: load by name and generate.
	stub2 := newStub(backend.OpenVoice)
	eng2 := New(stub2, openStore(t, storeDir))

	if err := eng2.LoadNamedVoice("myvoice"); err != nil {
		t.Fatal(err)
	}
	out, err := eng2.Generate(ctx, "Welcome.", 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if out != stub2.cannedAudio {
		t.Error("Generate() did not return the backend's audio")
	}
	if stub2.lastText != "Welcome." {
		t.Errorf("backend received text %q, want Welcome.", stub2.lastText)
	}
	if eng2.State() != ReferenceLoaded {
		t.Errorf("State() after Generate = %v, want reference-loaded", eng2.State())
	}
	if eng2.Current().Transcript != "Hello, this is my voice." {
		t.Errorf("loaded voice transcript = %q", eng2.Current().Transcript)
	}
}

func TestEngine_loadReferenceNormalizes(t *testing.T) {
	dir := t.TempDir()
	wav := writeWAV(t, dir, 5*time.Second)
	stub := newStub(backend.OpenF5)
	eng := New(stub, openStore(t, filepath.Join(dir, "voices")))

	err := eng.LoadReference(context.Background(), Reference{Path: wav, Transcript: "words"})
	if err != nil {
		t.Fatal(err)
	}

	got := stub.lastExtract
	if got.Channels() != backend.InputChannels {
		t.Errorf("extracted buffer has %d channels, want %d", got.Channels(), backend.InputChannels)
	}
	if got.SampleRate() != backend.InputSampleRate {
		t.Errorf("extracted buffer rate = %d, want %d", got.SampleRate(), backend.InputSampleRate)
	}
	if diff := (got.Duration() - 5*time.Second).Abs(); diff > time.Millisecond {
		t.Errorf("normalized duration off by %v", diff)
	}
}

func TestEngine_referenceLengthGuard(t *testing.T) {
	tests := []struct {
		name    string
		length  time.Duration
		wantErr error
	}{
		{name: "too short", length: 2 * time.Second, wantErr: audio.ErrReferenceTooShort},
		{name: "too long", length: 35 * time.Second, wantErr: audio.ErrReferenceTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			wav := writeWAV(t, dir, tt.length)
			stub := newStub(backend.OpenVoice)
			eng := New(stub, openStore(t, filepath.Join(dir, "voices")))

			err := eng.LoadReference(context.Background(), Reference{Path: wav, Transcript: "x"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("LoadReference() = %v, want %v", err, tt.wantErr)
			}
			if stub.extractCalls != 0 {
				t.Error("rejected reference still reached the backend")
			}
			if eng.State() != Idle {
				t.Errorf("State() = %v, want idle", eng.State())
			}
		})
	}
}

func TestEngine_healthGate(t *testing.T) {
	dir := t.TempDir()
	wav := writeWAV(t, dir, 10*time.Second)
	stub := newStub(backend.OpenVoice)
	stub.healthy = false
	eng := New(stub, openStore(t, filepath.Join(dir, "voices")))

	err := eng.LoadReference(context.Background(), Reference{Path: wav, Transcript: "x"})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("LoadReference() = %v, want ErrBackendUnavailable", err)
	}
	if stub.extractCalls != 0 {
		t.Error("extraction attempted against an unavailable backend")
	}
}

func TestEngine_operationsRequireVoice(t *testing.T) {
	stub := newStub(backend.OpenVoice)
	eng := New(stub, openStore(t, t.TempDir()))

	if err := eng.SaveVoice("name"); !errors.Is(err, ErrNoVoiceLoaded) {
		t.Errorf("SaveVoice() in idle = %v, want ErrNoVoiceLoaded", err)
	}
	if _, err := eng.Generate(context.Background(), "text", 1.0); !errors.Is(err, ErrNoVoiceLoaded) {
		t.Errorf("Generate() in idle = %v, want ErrNoVoiceLoaded", err)
	}
	if stub.synthCalls != 0 {
		t.Error("Generate() in idle reached the backend")
	}
}

func TestEngine_loadNamedVoiceModelMismatch(t *testing.T) {
	storeDir := t.TempDir()
	store := openStore(t, storeDir)

	// A voice cloned by the other model.
	err := store.Save("foreign", &voice.Embedding{
		Model:      string(backend.OpenF5),
		Transcript: "other",
		CreatedAt:  time.Now().UTC(),
		Payload:    []byte{1, 2, 3},
	})
	if err != nil {
		t.Fatal(err)
	}

	eng := New(newStub(backend.OpenVoice), store)
	if err := eng.LoadNamedVoice("foreign"); !errors.Is(err, backend.ErrModelMismatch) {
		t.Fatalf("LoadNamedVoice() = %v, want ErrModelMismatch", err)
	}
	if eng.State() != Idle || eng.Current() != nil {
		t.Error("failed load changed the session")
	}
}

func TestEngine_loadNamedVoiceUnknown(t *testing.T) {
	eng := New(newStub(backend.OpenVoice), openStore(t, t.TempDir()))
	if err := eng.LoadNamedVoice("ghost"); !errors.Is(err, voice.ErrNotFound) {
		t.Errorf("LoadNamedVoice(ghost) = %v, want voice.ErrNotFound", err)
	}
}

func TestEngine_lastReferenceWins(t *testing.T) {
	dir := t.TempDir()
	wav := writeWAV(t, dir, 10*time.Second)
	stub := newStub(backend.OpenVoice)
	eng := New(stub, openStore(t, filepath.Join(dir, "voices")))
	ctx := context.Background()

	if err := eng.LoadReference(ctx, Reference{Path: wav, Transcript: "first take"}); err != nil {
		t.Fatal(err)
	}
	if err := eng.LoadReference(ctx, Reference{Path: wav, Transcript: "second take"}); err != nil {
		t.Fatal(err)
	}
	if got := eng.Current().Transcript; got != "second take" {
		t.Errorf("current voice transcript = %q, want the later reference", got)
	}
	if stub.extractCalls != 2 {
		t.Errorf("extractCalls = %d, want 2", stub.extractCalls)
	}
}

func TestEngine_generateRepeatable(t *testing.T) {
	dir := t.TempDir()
	wav := writeWAV(t, dir, 10*time.Second)
	stub := newStub(backend.OpenVoice)
	eng := New(stub, openStore(t, filepath.Join(dir, "voices")))
	ctx := context.Background()

	if err := eng.LoadReference(ctx, Reference{Path: wav, Transcript: "x"}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := eng.Generate(ctx, "again", 1.0); err != nil {
			t.Fatal(err)
		}
	}
	if stub.synthCalls != 3 {
		t.Errorf("synthCalls = %d, want 3", stub.synthCalls)
	}
}

func TestEngine_loadReferenceMissingFile(t *testing.T) {
	eng := New(newStub(backend.OpenVoice), openStore(t, t.TempDir()))
	err := eng.LoadReference(context.Background(), Reference{Path: "/nonexistent/clip.wav", Transcript: "x"})
	if err == nil {
		t.Fatal("LoadReference() with missing file succeeded")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadReference() = %v, want wrapped os.ErrNotExist", err)
	}
}
