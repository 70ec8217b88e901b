package scriptgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/minhducdev/clipforge/internal/domain/entities"
	"github.com/minhducdev/clipforge/pkg/config"
)

// ProviderName identifies this collaborator in error details and logs
const ProviderName = "groq"

// Client is a minimal client for the LLM chat-completion API that writes
// video scripts
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewClient creates a script client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewClient(cfg *config.ScriptGenConfig) *Client {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("SCRIPTGEN_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("SCRIPTGEN_API_URL")
		if base == "" {
			base = "https://api.groq.com"
		}
	}

	model := "llama-3.1-70b-versatile"
	if cfg != nil && cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{},
	}
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string      `json:"model,omitempty"`
	Messages    interface{} `json:"messages,omitempty"`
	Temperature float64     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Probe checks that the backend is reachable and answering. Timeout comes
// from the caller's context so the orchestrator can extend it on the retry.
func (c *Client) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/openai/v1/models", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return nil
}

// GenerateScript asks the LLM for a full script document for the idea
func (c *Client) GenerateScript(ctx context.Context, idea, language, template string) (*entities.ScriptDocument, error) {
	prompt := buildPrompt(idea, language, template)

	reqBody := ChatRequest{
		Model:       c.model,
		Messages:    []map[string]string{{"role": "user", "content": prompt}},
		Temperature: 0.7,
		MaxTokens:   4000,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
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
		return nil, fmt.Errorf("script service returned status %d", resp.StatusCode)
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, err
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("empty response from script service")
	}

	doc, err := parseScriptDocument(cr.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Script) == "" {
		return nil, entities.ErrEmptyScript
	}
	return doc, nil
}

func buildPrompt(idea, language, template string) string {
	var sb strings.Builder
	sb.WriteString("Write a short vertical video script about the following idea.\n")
	fmt.Fprintf(&sb, "Idea: %s\n", idea)
	fmt.Fprintf(&sb, "Language: %s\n", language)
	if template != "" {
		fmt.Fprintf(&sb, "Style/niche: %s\n", template)
	}
	sb.WriteString("Return only JSON with keys: title, description, script, tags, hashtags. ")
	sb.WriteString("The script field is the narration text only, no stage directions.")
	return sb.String()
}

// parseScriptDocument parses the assistant content, tolerating markdown code
// fences around the JSON
func parseScriptDocument(content string) (*entities.ScriptDocument, error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	var doc entities.ScriptDocument
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse script document: %w", err)
	}
	return &doc, nil
}
