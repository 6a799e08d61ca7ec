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

// openVoiceClient speaks the OpenVoice V2 dialect: extraction returns a
// float32 speaker embedding, synthesis sends it back with its shape.
type openVoiceClient struct {
	*restClient
}

// openVoicePayload is the opaque embedding payload for openvoice_v2
// voices. The tensor shape must survive storage because the server needs
// it to rebuild the embedding.
type openVoicePayload struct {
	Embedding []byte `msgpack:"embedding"`
	Shape     []int  `msgpack:"shape"`
}

func (c *openVoiceClient) ExtractVoice(ctx context.Context, buf *audio.Buffer, transcript string) (*voice.Embedding, error) {
	var resp struct {
		Success    bool   `json:"success"`
		Embedding  string `json:"embedding"`
		Shape      []int  `json:"embedding_shape"`
		Transcript string `json:"transcript"`
		Error      string `json:"error"`
	}
	if err := c.postReference(ctx, buf, transcript, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if !resp.Success || resp.Embedding == "" {
		return nil, fmt.Errorf("%w: %s", ErrExtractionFailed, respError(resp.Error))
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: decode embedding: %v", ErrExtractionFailed, err)
	}
	payload, err := msgpack.Marshal(openVoicePayload{Embedding: raw, Shape: resp.Shape})
	if err != nil {
		return nil, fmt.Errorf("%w: encode payload: %v", ErrExtractionFailed, err)
	}

	return &voice.Embedding{
		Model:      string(OpenVoice),
		Transcript: transcript,
		CreatedAt:  time.Now().UTC(),
		Payload:    payload,
	}, nil
}

func (c *openVoiceClient) Synthesize(ctx context.Context, text string, e *voice.Embedding, speed float64) (*audio.Buffer, error) {
	if e.Model != string(c.model) {
		return nil, fmt.Errorf("%w: embedding is %q, backend is %q", ErrModelMismatch, e.Model, c.model)
	}

	var payload openVoicePayload
	if err := msgpack.Unmarshal(e.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode payload: %v", ErrSynthesisFailed, err)
	}

	req := struct {
		Text      string  `json:"text"`
		Embedding string  `json:"embedding"`
		Shape     []int   `json:"shape,omitempty"`
		Speed     float64 `json:"speed"`
	}{
		Text:      text,
		Embedding: base64.StdEncoding.EncodeToString(payload.Embedding),
		Shape:     payload.Shape,
		Speed:     speed,
	}
	buf, err := c.postSynthesize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}
	return buf, nil
}

func respError(msg string) string {
	if msg == "" {
		return "server reported failure"
	}
	return msg
}
