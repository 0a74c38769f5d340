package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GenAIOptions configures a GenAIClient.
type GenAIOptions struct {
	APIKey    string
	Model     string
	BaseURL   string // optional override of the Gemini API host
	Persona   string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// GenAIClient generates replies through the google.golang.org/genai SDK.
// It follows the same contract as GeminiClient.
type GenAIClient struct {
	client  *genai.Client
	model   string
	persona string
	timeout time.Duration
}

// NewGenAIClient creates an SDK-backed generator.
// Without an API key it still returns a client, one that answers every call
// with ReplyUnreachable, matching the REST client.
func NewGenAIClient(ctx context.Context, opts GenAIOptions) (*GenAIClient, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	if opts.APIKey == "" {
		slog.Warn("genai client has no API key; replies will be placeholders", "model", opts.Model)
		return &GenAIClient{model: opts.Model, persona: opts.Persona, timeout: timeout}, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Transport: opts.Transport},
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIClient{
		client:  client,
		model:   opts.Model,
		persona: opts.Persona,
		timeout: timeout,
	}, nil
}

// Generate returns the model's reply to text, or a placeholder on failure.
func (c *GenAIClient) Generate(ctx context.Context, text string) string {
	if c.client == nil {
		slog.Error("genai request skipped", "model", c.model, "error", "missing API key")
		return ReplyUnreachable
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: BuildPrompt(c.persona, text)}},
	}}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		slog.Error("genai request failed", "model", c.model, "error", err)
		return ReplyUnreachable
	}

	reply := genaiCandidateText(resp)
	if reply == "" {
		slog.Warn("genai returned no text", "model", c.model)
		return ReplySilent
	}
	return reply
}

func genaiCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return ""
	}
	return strings.TrimSpace(content.Parts[0].Text)
}
