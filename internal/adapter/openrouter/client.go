package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/quake-alert-etl/internal/domain"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

	// OpenRouter asks callers to identify themselves via these headers.
	refererHeader = "https://example.com"
	titleHeader   = "Disaster Summarizer"

	prompt = "Summarize this earthquake for the public in 2 short sentences. " +
		"Include magnitude, nearest place, UTC time, depth (km), and if tsunami alert exists. "
)

// Client is the primary summarization provider, backed by the OpenRouter
// chat-completions API. It implements summarize.Provider.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an OpenRouter client for the given model, bounded by the
// given per-request timeout.
func NewClient(apiKey, model string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// Name implements summarize.Provider.
func (c *Client) Name() string { return "openrouter" }

// Attempt asks the model for a two-sentence public summary of the alert.
// The serialized alert rides inside the user message so the model sees the
// exact published values.
func (c *Client) Attempt(ctx context.Context, alert domain.NormalizedAlert) (string, error) {
	plain, err := json.Marshal(alert)
	if err != nil {
		return "", fmt.Errorf("serialize alert: %w", err)
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt + string(plain)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("serialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", refererHeader)
	req.Header.Set("X-Title", titleHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("openrouter API error: status %d: %s", resp.StatusCode, body)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("response has empty content")
	}
	return text, nil
}

// OpenRouter chat-completions wire types.

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
