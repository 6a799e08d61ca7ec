package backend

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/opentts/opentts/pkg/audio"
	"github.com/opentts/opentts/pkg/voice"
)

// openF5Client speaks the OpenF5-TTS dialect. The service performs no
// embedding extraction; the normalized reference audio is the voice, and
// synthesis receives it again together with its transcript.
type openF5Client struct {
	*restClient
}

// openF5Payload is the opaque embedding payload for openf5_tts voices:
// the server-normalized reference WAV plus the transcript it needs at
// synthesis time.
type openF5Payload struct {
	Audio      []byte  `msgpack:"audio"`
	Transcript string  `msgpack:"transcript"`
	VoiceID    string  `msgpack:"voice_id"`
	Duration   float64 `msgpack:"duration"`
}

func (c *openF5Client) ExtractVoice(ctx context.Context, buf *audio.Buffer, transcript string) (*voice.Embedding, error) {
	var resp struct {
		Success    bool    `json:"success"`
		VoiceID    string  `json:"voice_id"`
		Duration   float64 `json:"duration"`
		Transcript string  `json:"transcript"`
		Audio      string  `json:"audio"`
		Error      string  `json:"error"`
	}
	if err := c.postReference(ctx, buf, transcript, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if !resp.Success || resp.Audio == "" {
		return nil, fmt.Errorf("%w: %s", ErrExtractionFailed, respError(resp.Error))
	}

	wav, err := base64.StdEncoding.DecodeString(resp.Audio)
	if err != nil {
		return nil, fmt.Errorf("%w: decode reference audio: %v", ErrExtractionFailed, err)
	}
	payload, err := msgpack.Marshal(openF5Payload{
		Audio:      wav,
		Transcript: transcript,
		VoiceID:    resp.VoiceID,
		Duration:   resp.Duration,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode payload: %v", ErrExtractionFailed, err)
	}

	return &voice.Embedding{
		Model:      string(OpenF5),
		Transcript: transcript,
		CreatedAt:  time.Now().UTC(),
		Payload:    payload,
	}, nil
}

func (c *openF5Client) Synthesize(ctx context.Context, text string, e *voice.Embedding, speed float64) (*audio.Buffer, error) {
	if e.Model != string(c.model) {
		return nil, fmt.Errorf("%w: embedding is %q, backend is %q", ErrModelMismatch, e.Model, c.model)
	}

	var payload openF5Payload
	if err := msgpack.Unmarshal(e.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode payload: %v", ErrSynthesisFailed, err)
	}

	req := struct {
		Text       string  `json:"text"`
		Audio      string  `json:"audio"`
		Transcript string  `json:"transcript"`
		Speed      float64 `json:"speed"`
	}{
		Text:       text,
		Audio:      base64.StdEncoding.EncodeToString(payload.Audio),
		Transcript: payload.Transcript,
		Speed:      speed,
	}
	buf, err := c.postSynthesize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}
	return buf, nil
}
