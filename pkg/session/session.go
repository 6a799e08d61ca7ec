package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/opentts/opentts/pkg/audio"
	"github.com/opentts/opentts/pkg/backend"
	"github.com/opentts/opentts/pkg/voice"
)

// Errors reported by the engine.
var (
	// ErrNoVoiceLoaded indicates an operation that needs a current voice
	// was invoked while the session is Idle.
	ErrNoVoiceLoaded = errors.New("session: no voice loaded")

	// ErrBackendUnavailable indicates the health probe failed before an
	// extraction or synthesis was attempted.
	ErrBackendUnavailable = errors.New("session: backend unavailable")
)

// State is the session state machine position.
type State int

const (
	// Idle means no voice is loaded.
	Idle State = iota
	// ReferenceLoaded means a current voice is ready for saving or
	// generation.
	ReferenceLoaded
	// Generating is the transient state during synthesis; it collapses
	// back to ReferenceLoaded on completion.
	Generating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ReferenceLoaded:
		return "reference-loaded"
	case Generating:
		return "generating"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Engine executes session operations to completion, one at a time. It is
// created per invocation and must not be shared between goroutines.
type Engine struct {
	backend backend.Client
	store   *voice.Store
	log     *slog.Logger

	state   State
	current *voice.Embedding
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine bound to one backend and one store. The backend
// choice is immutable; switching models requires a new engine.
func New(b backend.Client, s *voice.Store, opts ...Option) *Engine {
	e := &Engine{backend: b, store: s, log: slog.Default(), state: Idle}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the state machine position.
func (e *Engine) State() State { return e.state }

// Current returns the in-memory current voice, or nil when Idle.
func (e *Engine) Current() *voice.Embedding { return e.current }

// Model returns the active backend's model.
func (e *Engine) Model() backend.Model { return e.backend.Model() }

// LoadReference clones a voice from a reference clip: decode, validate
// length, normalize to the backend's required format, then extract. Any
// previously loaded voice is replaced — last reference wins.
func (e *Engine) LoadReference(ctx context.Context, ref Reference) error {
	f, err := os.Open(ref.Path)
	if err != nil {
		return fmt.Errorf("open reference %s: %w", ref.Path, err)
	}
	buf, err := audio.DecodeWAV(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode reference %s: %w", ref.Path, err)
	}
	if err := buf.ValidateReference(); err != nil {
		return err
	}

	norm, err := buf.Mono().Resample(backend.InputSampleRate)
	if err != nil {
		return fmt.Errorf("normalize reference: %w", err)
	}
	e.log.Debug("reference normalized",
		"path", ref.Path,
		"duration", norm.Duration(),
		"rate", norm.SampleRate())

	if err := e.checkHealth(ctx); err != nil {
		return err
	}
	emb, err := e.backend.ExtractVoice(ctx, norm, ref.Transcript)
	if err != nil {
		return err
	}

	e.current = emb
	e.state = ReferenceLoaded
	e.log.Debug("voice extracted", "model", emb.Model)
	return nil
}

// LoadNamedVoice loads a persisted voice as the current voice. The
// embedding's model tag must match the active backend; on mismatch the
// session is left unchanged.
func (e *Engine) LoadNamedVoice(name string) error {
	emb, err := e.store.Load(name)
	if err != nil {
		return err
	}
	if emb.Model != string(e.backend.Model()) {
		return fmt.Errorf("%w: voice %q was created with %s, active backend is %s",
			backend.ErrModelMismatch, name, emb.Model, e.backend.Model())
	}

	e.current = emb
	e.state = ReferenceLoaded
	e.log.Debug("voice loaded", "name", name, "model", emb.Model)
	return nil
}

// SaveVoice persists the current voice under name.
func (e *Engine) SaveVoice(name string) error {
	if e.current == nil {
		return fmt.Errorf("%w: load a reference or a named voice first", ErrNoVoiceLoaded)
	}
	return e.store.Save(name, e.current)
}

// Generate synthesizes speech for text with the current voice and returns
// the audio for the caller to write. The same voice may generate any
// number of times.
func (e *Engine) Generate(ctx context.Context, text string, speed float64) (*audio.Buffer, error) {
	if e.current == nil {
		return nil, fmt.Errorf("%w: load a reference or a named voice first", ErrNoVoiceLoaded)
	}

	e.state = Generating
	defer func() { e.state = ReferenceLoaded }()

	if err := e.checkHealth(ctx); err != nil {
		return nil, err
	}
	buf, err := e.backend.Synthesize(ctx, text, e.current, speed)
	if err != nil {
		return nil, err
	}
	e.log.Debug("speech generated", "chars", len(text), "duration", buf.Duration())
	return buf, nil
}

// checkHealth fails fast with an actionable message instead of letting an
// expensive call surface a raw transport error.
func (e *Engine) checkHealth(ctx context.Context) error {
	if h := e.backend.Health(ctx); !h.Available {
		return fmt.Errorf("%w: %s did not answer the health probe; is the container running?",
			ErrBackendUnavailable, e.backend.Model().DisplayName())
	}
	return nil
}
