// Package genai generates free-text pick explanations through the Gemini
// REST API, with a deterministic fallback used whenever the backend is
// unavailable or misconfigured.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient builds a Gemini client. An empty API key is an error so the
// caller can decide to run without explanations instead.
func NewClient(apiKey, model string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai API key is not set")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Sugar(),
	}, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Explain asks the model why the champion fits the draft, grounding the
// prompt on the scorer's reasons. Errors here are recovered by the caller.
func (c *Client) Explain(ctx context.Context, champion string, allies, enemies, reasons []string) (string, error) {
	prompt := SimpleExplanationPrompt(champion, allies, enemies)
	if len(reasons) > 0 {
		prompt += "\nKey factors identified by model: " + strings.Join(reasons, ", ")
	}
	return c.generate(ctx, prompt)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty generation response")
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	c.logger.Debugw("Generated explanation", "model", c.model, "chars", len(text))
	return text, nil
}

// FallbackExplanation builds the deterministic sentence used when the
// generation backend fails for any reason.
func FallbackExplanation(champion string, reasons []string) string {
	if len(reasons) == 0 {
		return fmt.Sprintf("%s is recommended based on the current draft context.", champion)
	}
	return fmt.Sprintf("%s: %s", champion, strings.Join(reasons, "; "))
}
