// Package llm implements the chat-completions wire contract of the language
// model endpoint: a plain JSON POST, optional bearer auth, and a tolerant
// decoder for the two response shapes providers return.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// ErrNoEndpoint is returned when no endpoint URL is configured.
var ErrNoEndpoint = errors.New("LLM endpoint URL not configured")

// ChatMessage is one role-tagged message of a chat request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the JSON body of a chat-completions call.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// Client posts chat requests to a configured endpoint. Absence of a token is
// valid: the request is attempted unauthenticated.
type Client struct {
	url        string
	token      string
	model      string
	httpClient *http.Client
}

// Config holds the client configuration.
type Config struct {
	URL   string
	Token string
	Model string
}

// NewClient creates a new Client instance.
func NewClient(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		url:        cfg.URL,
		token:      cfg.Token,
		model:      model,
		httpClient: &http.Client{},
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends one chat request and returns the extracted reply text.
// The deadline comes from ctx; callers own the timeout.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage, temperature float64, maxTokens int) (string, error) {
	if c.url == "" {
		return "", ErrNoEndpoint
	}

	body, err := json.Marshal(ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("llm endpoint returned HTTP %d", resp.StatusCode)
	}

	return ExtractText(raw), nil
}

// choice covers the known response shapes: chat-style choices[].message.content
// and completion-style choices[].text.
type choice struct {
	Message *struct {
		Content string `json:"content"`
	} `json:"message"`
	Text string `json:"text"`
}

type completionResponse struct {
	Choices []choice `json:"choices"`
}

// ExtractText pulls the reply text out of a raw response body, trying the
// known shapes in order. Unparseable or empty responses yield "" rather than
// an error: a missing reply drives the caller's fallback ladder, not a crash.
func ExtractText(raw []byte) string {
	var resp completionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return ""
	}
	if len(resp.Choices) == 0 {
		return ""
	}

	first := resp.Choices[0]
	if first.Message != nil && first.Message.Content != "" {
		return first.Message.Content
	}
	return first.Text
}
