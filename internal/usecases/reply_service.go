package usecases

import (
	"context"
	"log/slog"
	"strings"

	"arkadia_console/internal/interfaces"
)

// PromptReply is returned for empty or whitespace-only messages.
const PromptReply = "Please send a text message to interact with the Console."

// ReplySource tells where a reply came from.
type ReplySource string

const (
	SourcePrompt    ReplySource = "prompt"
	SourceRule      ReplySource = "rule"
	SourceGenerated ReplySource = "generated"
)

// ReplyService resolves a reply for one inbound text.
// Priority: 1. Empty body → prompt, 2. Keyword rule, 3. Generator.
type ReplyService struct {
	router    *KeywordRouter
	generator interfaces.Generator
}

// NewReplyService creates a reply service. router may be nil to disable rules.
func NewReplyService(router *KeywordRouter, generator interfaces.Generator) *ReplyService {
	return &ReplyService{router: router, generator: generator}
}

// Quick resolves replies that need no outbound call. ok is false when the
// message must go to the generator.
func (s *ReplyService) Quick(body string) (text string, source ReplySource, ok bool) {
	content := strings.TrimSpace(body)
	if content == "" {
		return PromptReply, SourcePrompt, true
	}
	if reply, matched := s.router.Match(content); matched {
		return reply, SourceRule, true
	}
	return "", SourceGenerated, false
}

// Reply returns the reply for body. It never fails.
func (s *ReplyService) Reply(ctx context.Context, body string) (string, ReplySource) {
	if text, source, ok := s.Quick(body); ok {
		slog.Debug("reply resolved locally", "source", source)
		return text, source
	}
	return s.generator.Generate(ctx, body), SourceGenerated
}
