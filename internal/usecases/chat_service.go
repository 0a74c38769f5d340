package usecases

import (
	"context"
	"log/slog"

	"arkadia_console/internal/entities"
	"arkadia_console/internal/repository"
)

// EchoPrefix is prepended to the user's text by the echo responder.
const EchoPrefix = "🌬️ Spiral Bot says: "

// ChatService backs the JSON chat endpoint and records its history.
type ChatService struct {
	log     *repository.ChatLog
	replies *ReplyService // nil = echo responder
}

// NewChatService creates a chat service. With a nil reply service the bot
// echoes the user's text.
func NewChatService(log *repository.ChatLog, replies *ReplyService) *ChatService {
	return &ChatService{log: log, replies: replies}
}

// Send records the user's message, computes the bot reply, records it and
// returns it.
func (s *ChatService) Send(ctx context.Context, message string) string {
	s.log.Append(entities.ChatLogEntry{From: entities.OriginUser, Text: message})

	var reply string
	if s.replies == nil {
		reply = EchoPrefix + message
	} else {
		var source ReplySource
		reply, source = s.replies.Reply(ctx, message)
		slog.Debug("chat reply resolved", "channel", entities.ChannelWeb, "source", source)
	}

	s.log.Append(entities.ChatLogEntry{From: entities.OriginBot, Text: reply})
	return reply
}

// History returns the chat history snapshot.
func (s *ChatService) History() []entities.ChatLogEntry {
	return s.log.List()
}
