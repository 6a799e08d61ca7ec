package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/opentts/opentts/pkg/audio"
)

const defaultTimeout = 120 * time.Second

// Option configures a client.
type Option func(*config)

type config struct {
	host       string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// WithHost sets the server host (default "localhost"). The port is
// derived from the model.
func WithHost(host string) Option {
	return func(c *config) { c.host = host }
}

// WithBaseURL sets the full base URL, overriding host and model port.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithTimeout bounds every request. A timeout is indistinguishable from
// any other transport failure.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// New creates a client for the given model.
func New(model Model, opts ...Option) (Client, error) {
	cfg := &config{host: "localhost", timeout: defaultTimeout}
	for _, opt := range opts {
		opt(cfg)
	}

	base := cfg.baseURL
	if base == "" {
		base = fmt.Sprintf("http://%s:%d", cfg.host, model.Port())
	}
	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	rc := &restClient{model: model, baseURL: base, hc: hc}
	switch model {
	case OpenVoice:
		return &openVoiceClient{rc}, nil
	case OpenF5:
		return &openF5Client{rc}, nil
	}
	return nil, fmt.Errorf("unknown model %q", model)
}

// restClient holds the wire plumbing shared by both dialects.
type restClient struct {
	model   Model
	baseURL string
	hc      *http.Client
}

func (c *restClient) Model() Model { return c.model }

// Health implements the probe shared by both services. The response shape
// is identical across dialects.
func (c *restClient) Health(ctx context.Context) Health {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return Health{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Health{}
	}
	var body struct {
		Status string `json:"status"`
		Model  string `json:"model"`
		CUDA   bool   `json:"cuda_available"`
		GPU    string `json:"gpu"`
		Device string `json:"device"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Health{}
	}
	return Health{
		Available: body.Status == "healthy",
		Status:    body.Status,
		Model:     body.Model,
		CUDA:      body.CUDA,
		GPU:       body.GPU,
		Device:    body.Device,
	}
}

// ListVoices queries the service's voice registry.
func (c *restClient) ListVoices(ctx context.Context) ([]RemoteVoice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: list voices: status %d", ErrRequestFailed, resp.StatusCode)
	}
	var body struct {
		Voices []RemoteVoice `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode voice list: %v", ErrRequestFailed, err)
	}
	return body.Voices, nil
}

// DeleteVoice removes a voice from the service's registry.
func (c *restClient) DeleteVoice(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/voices/"+name, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %q", ErrVoiceNotFound, name)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: delete voice: status %d", ErrRequestFailed, resp.StatusCode)
	}
	return nil
}

// postReference uploads reference audio plus transcript as multipart form
// data to /extract_voice and decodes the JSON response into out.
func (c *restClient) postReference(ctx context.Context, buf *audio.Buffer, transcript string, out any) error {
	var wav bytes.Buffer
	if err := audio.EncodeWAV(&wav, buf); err != nil {
		return fmt.Errorf("encode reference: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("audio", "reference.wav")
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(wav.Bytes()); err != nil {
		return fmt.Errorf("write audio part: %w", err)
	}
	if err := writer.WriteField("transcript", transcript); err != nil {
		return fmt.Errorf("write transcript field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract_voice", body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// postSynthesize sends a JSON synthesis request and decodes the binary
// WAV response into a buffer.
func (c *restClient) postSynthesize(ctx context.Context, reqBody any) (*audio.Buffer, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/synthesize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}
	buf, err := audio.DecodeWAV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return buf, nil
}

// readErrorBody extracts the error message from a failed response,
// tolerating both JSON error envelopes and plain text.
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "no response body"
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
		return envelope.Error
	}
	return string(data)
}
