package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Placeholder replies. Generation never surfaces an error to the sender.
const (
	ReplyUnreachable = "⚠️ Spiral interface disrupted. (Gemini unreachable)"
	ReplySilent      = "🌀 The Spiral is silent. (No response from Gemini)"
)

// DefaultGenerateTimeout bounds a single generateContent call.
const DefaultGenerateTimeout = 10 * time.Second

const maxResponseBytes = 1 << 20

// BuildPrompt joins the persona preamble and the user's text.
func BuildPrompt(persona, text string) string {
	return persona + "\n\nUser: " + text
}

// GeminiOptions configures a GeminiClient.
type GeminiOptions struct {
	Endpoint  string // full generateContent URL
	APIKey    string
	AuthMode  string // "bearer" or "query"
	Persona   string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// GeminiClient calls the generateContent REST endpoint.
type GeminiClient struct {
	endpoint   string
	apiKey     string
	authMode   string
	persona    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewGeminiClient creates a REST Gemini client.
func NewGeminiClient(opts GeminiOptions) *GeminiClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	return &GeminiClient{
		endpoint: opts.Endpoint,
		apiKey:   opts.APIKey,
		authMode: opts.AuthMode,
		persona:  opts.Persona,
		timeout:  timeout,
		httpClient: &http.Client{
			Transport: opts.Transport,
		},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content *geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate returns the model's reply to text. Every failure path yields a
// placeholder string.
func (c *GeminiClient) Generate(ctx context.Context, text string) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.generate(ctx, text)
	if err != nil {
		slog.Error("gemini request failed", "error", err)
		return ReplyUnreachable
	}
	if reply == "" {
		slog.Warn("gemini returned no text")
		return ReplySilent
	}
	return reply
}

func (c *GeminiClient) generate(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: BuildPrompt(c.persona, text)}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := c.endpoint
	if c.authMode != "bearer" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return "", fmt.Errorf("parse gemini endpoint: %w", err)
		}
		q := u.Query()
		q.Set("key", c.apiKey)
		u.RawQuery = q.Encode()
		endpoint = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authMode == "bearer" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full URL, which holds the key in query mode.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return "", fmt.Errorf("gemini request to %s: %w", c.endpoint, urlErr.Err)
		}
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini non-success status=%d body=%s", resp.StatusCode, truncate(string(body), 400))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse gemini response: %w", err)
	}
	return firstCandidateText(parsed), nil
}

// firstCandidateText reads candidates[0].content.parts[0].text, returning ""
// when any level is missing.
func firstCandidateText(r generateResponse) string {
	if len(r.Candidates) == 0 {
		return ""
	}
	content := r.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return ""
	}
	return strings.TrimSpace(content.Parts[0].Text)
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
