// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package execute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/idea-engine/internal/httputil"
	"github.com/pdiddy/idea-engine/pkg/types"
)

const (
	anthropicAPIVersion = "2023-06-01"
	anthropicBaseURL    = "https://api.anthropic.com/v1/messages"

	defaultAnthropicMaxTokens = 1024
)

// AnthropicInvoker calls the Anthropic messages API.
type AnthropicInvoker struct {
	apiKey    string
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewAnthropicInvoker builds an invoker authenticated with the given key.
func NewAnthropicInvoker(apiKey string, cfg types.ExecutionConfig) *AnthropicInvoker {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &AnthropicInvoker{
		apiKey:    apiKey,
		baseURL:   anthropicBaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float32           `json:"temperature,omitempty"`
	TopP        *float32           `json:"top_p,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

// Invoke sends the prompt as a single user message using the model's
// configured parameters. Rate-limit and overload responses are retried
// inside the HTTP layer before the scheduler's own retry loop sees an
// error.
func (a *AnthropicInvoker) Invoke(ctx context.Context, model types.ModelDescriptor, prompt string) (string, error) {
	maxTokens := model.Parameters.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	body := anthropicRequest{
		Model:     model.Name,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	}
	if model.Parameters.Temperature > 0 {
		t := model.Parameters.Temperature
		body.Temperature = &t
	}
	if model.Parameters.TopP > 0 {
		p := model.Parameters.TopP
		body.TopP = &p
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling anthropic request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building anthropic request: %w", err)
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)
	req.Header.Set("content-type", "application/json")
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, a.client, req, 0)
	if err != nil {
		return "", fmt.Errorf("calling anthropic: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading anthropic response: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("parsing anthropic response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("anthropic %s: %s", parsed.Error.Type, parsed.Error.Message)
		}
		return "", fmt.Errorf("anthropic returned status %d", resp.StatusCode)
	}

	for _, c := range parsed.Content {
		if c.Type == "text" && c.Text != "" {
			return c.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic response contained no text content")
}
