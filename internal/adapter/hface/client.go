// Package hface is the secondary summarization provider, backed by the
// Hugging Face Inference API.
package hface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/quake-alert-etl/internal/domain"
)

const defaultBaseURL = "https://api-inference.huggingface.co/models/facebook/bart-large-cnn"

// Summary length bounds passed to the summarization model.
const (
	maxSummaryLength = 120
	minSummaryLength = 30
)

// Client implements summarize.Provider over the Inference API's
// summarization task.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Hugging Face client bounded by the given timeout.
func NewClient(token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// Name implements summarize.Provider.
func (c *Client) Name() string { return "huggingface" }

// Attempt feeds the serialized alert to the summarization model. The API
// answers with either a single {summary_text} object or an array of them
// depending on the model; both shapes are accepted.
func (c *Client) Attempt(ctx context.Context, alert domain.NormalizedAlert) (string, error) {
	plain, err := json.Marshal(alert)
	if err != nil {
		return "", fmt.Errorf("serialize alert: %w", err)
	}

	payload, err := json.Marshal(summarizationRequest{
		Inputs: string(plain),
		Parameters: summarizationParameters{
			MaxLength: maxSummaryLength,
			MinLength: minSummaryLength,
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
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summarization request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("inference API error: status %d: %s", resp.StatusCode, body)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	return parseSummary(raw)
}

func parseSummary(raw []byte) (string, error) {
	var single summaryText
	if err := json.Unmarshal(raw, &single); err == nil && single.SummaryText != "" {
		return strings.TrimSpace(single.SummaryText), nil
	}

	var many []summaryText
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 && many[0].SummaryText != "" {
		return strings.TrimSpace(many[0].SummaryText), nil
	}

	if len(raw) > 300 {
		raw = raw[:300]
	}
	return "", fmt.Errorf("unexpected response shape: %s", raw)
}

// Hugging Face Inference API wire types.

type summarizationRequest struct {
	Inputs     string                  `json:"inputs"`
	Parameters summarizationParameters `json:"parameters"`
}

type summarizationParameters struct {
	MaxLength int `json:"max_length"`
	MinLength int `json:"min_length"`
}

type summaryText struct {
	SummaryText string `json:"summary_text"`
}
