package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/opentts/opentts/pkg/audio"
	"github.com/opentts/opentts/pkg/voice"
)

// Model identifies a TTS model service. The value doubles as the tag
// stored in every embedding the service produces.
type Model string

const (
	// OpenVoice is the OpenVoice V2 service (MIT license, fast).
	OpenVoice Model = "openvoice_v2"

	// OpenF5 is the OpenF5-TTS service (Apache 2.0, atmospheric cloning).
	OpenF5 Model = "openf5_tts"
)

// Audio format both services require for reference input.
const (
	InputSampleRate = 24000
	InputChannels   = 1
)

// ParseModel resolves a CLI model selector. Both the short aliases used
// on the command line ("ov", "of") and the full model ids are accepted.
func ParseModel(s string) (Model, error) {
	switch s {
	case "ov", string(OpenVoice):
		return OpenVoice, nil
	case "of", string(OpenF5):
		return OpenF5, nil
	}
	return "", fmt.Errorf("unknown model %q (use \"ov\" or \"of\")", s)
}

// Port returns the default server port for the model.
func (m Model) Port() int {
	switch m {
	case OpenVoice:
		return 9280
	case OpenF5:
		return 9288
	}
	panic("backend: invalid model")
}

// DisplayName returns the human-readable model name.
func (m Model) DisplayName() string {
	switch m {
	case OpenVoice:
		return "OpenVoice V2"
	case OpenF5:
		return "OpenF5-TTS"
	}
	panic("backend: invalid model")
}

// Errors reported by backend clients. The underlying transport or decode
// cause is wrapped, never discarded.
var (
	// ErrModelMismatch indicates an embedding tagged for a different
	// model. Detected locally; no request is made.
	ErrModelMismatch = errors.New("backend: model mismatch")

	// ErrExtractionFailed indicates a failed extract_voice call
	// (transport, timeout, non-2xx, or malformed body).
	ErrExtractionFailed = errors.New("backend: extraction failed")

	// ErrSynthesisFailed indicates a failed synthesize call
	// (transport, timeout, non-2xx, or malformed body).
	ErrSynthesisFailed = errors.New("backend: synthesis failed")

	// ErrVoiceNotFound indicates the remote registry has no voice with
	// the requested name.
	ErrVoiceNotFound = errors.New("backend: remote voice not found")

	// ErrRequestFailed indicates a failed registry call (list/delete).
	ErrRequestFailed = errors.New("backend: request failed")
)

// Health describes the result of a health probe. A probe never fails with
// an error; unreachable or unhealthy services report Available == false.
type Health struct {
	Available bool
	Status    string
	Model     string
	CUDA      bool
	GPU       string
	Device    string
}

// RemoteVoice is one entry of a service's own voice registry. The remote
// registry is independent of the local voice store.
type RemoteVoice struct {
	Name       string  `json:"name"`
	Transcript string  `json:"transcript"`
	Model      string  `json:"model"`
	Duration   float64 `json:"duration,omitempty"`
}

// Client is the capability set shared by both model services.
type Client interface {
	// Model returns the model this client talks to.
	Model() Model

	// Health probes the service. It never returns an error; transport
	// failures and non-2xx responses yield Available == false.
	Health(ctx context.Context) Health

	// ExtractVoice clones a voice from reference audio. The buffer must
	// already be mono at InputSampleRate; normalization is the caller's
	// responsibility.
	ExtractVoice(ctx context.Context, buf *audio.Buffer, transcript string) (*voice.Embedding, error)

	// Synthesize generates speech for text using a previously extracted
	// embedding. The embedding's model tag must match this client's
	// model; a mismatch fails with ErrModelMismatch without any network
	// call. Speed is a playback-rate multiplier, 1.0 for normal.
	Synthesize(ctx context.Context, text string, e *voice.Embedding, speed float64) (*audio.Buffer, error)

	// ListVoices returns the service's own voice registry.
	ListVoices(ctx context.Context) ([]RemoteVoice, error)

	// DeleteVoice removes a voice from the service's own registry.
	DeleteVoice(ctx context.Context, name string) error
}
