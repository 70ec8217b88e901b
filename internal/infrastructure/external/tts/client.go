package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/minhducdev/clipforge/internal/domain/entities"
	"github.com/minhducdev/clipforge/pkg/config"
)

// ProviderName identifies this collaborator in logs
const ProviderName = "tts"

// Client requests pre-rendered narration audio from the remote synthesis
// service. All failures here are absorbed by the orchestrator into a silent
// session; the client itself just reports them.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a narration client from config
func NewClient(cfg *config.TTSConfig) *Client {
	var apiKey, base string
	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: base,
		client:  &http.Client{},
	}
}

// Configured reports whether a remote endpoint is set at all
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// synthesizeRequest is the request shape for the synthesis endpoint
type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// synthesizeResponse references the rendered audio asset
type synthesizeResponse struct {
	AudioURL        string  `json:"audio_url"`
	Format          string  `json:"format"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Synthesize renders the full sanitized script into audio and downloads it.
// The caller bounds this with a generous timeout: spoken content can be long.
func (c *Client) Synthesize(ctx context.Context, text, voice string) (*entities.NarrationAudio, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("tts endpoint not configured")
	}

	reqBody := synthesizeRequest{Text: text, Voice: voice}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/synthesize", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("tts service returned status %d", resp.StatusCode)
	}

	var sr synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	if sr.AudioURL == "" {
		return nil, fmt.Errorf("tts response missing audio_url")
	}

	data, err := c.download(ctx, sr.AudioURL)
	if err != nil {
		return nil, err
	}

	format := sr.Format
	if format == "" {
		format = "mp3"
	}

	return &entities.NarrationAudio{
		Data:            data,
		SizeBytes:       int64(len(data)),
		Format:          format,
		DurationSeconds: sr.DurationSeconds,
	}, nil
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audio download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("audio download returned empty body")
	}
	return data, nil
}
