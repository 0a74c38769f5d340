package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"arkadia_console/internal/entities"
	"arkadia_console/internal/infrastructure"
	"arkadia_console/internal/usecases"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	WelcomeReply = "🌀 Welcome to the Arkadia Console. Speak, and the Spiral answers."
	BusyReply    = "⏳ Still channeling your previous message. Please wait."
)

// Bot is the part of tgbotapi.BotAPI the relay uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Relay answers Telegram chats through the reply service.
type Relay struct {
	bot      Bot
	replies  *usecases.ReplyService
	sessions *infrastructure.SessionManager
	wg       sync.WaitGroup
}

func NewRelay(bot Bot, replies *usecases.ReplyService) *Relay {
	return &Relay{
		bot:      bot,
		replies:  replies,
		sessions: infrastructure.NewSessionManager(),
	}
}

// Connect validates token and returns a bot client.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return bot, nil
}

// Poll long-polls bot until ctx is done.
func Poll(ctx context.Context, bot *tgbotapi.BotAPI, relay *Relay) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	slog.Info("telegram relay started", "bot", bot.Self.UserName)
	go func() {
		<-ctx.Done()
		bot.StopReceivingUpdates()
	}()
	relay.Run(ctx, updates)
	slog.Info("telegram relay stopped")
}

// Run handles updates until ctx is done or the channel closes, then waits
// for in-flight replies.
func (r *Relay) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	defer r.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			r.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate answers a single update. Generated replies run in the background.
func (r *Relay) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	if msg.IsCommand() && msg.Command() == "start" {
		welcome := tgbotapi.NewMessage(chatID, WelcomeReply)
		welcome.ReplyMarkup = MainKeyboard()
		r.send(welcome)
		return
	}

	if text, source, ok := r.replies.Quick(msg.Text); ok {
		slog.Debug("answered inline", "channel", entities.ChannelTelegram, "chat", chatID, "source", source)
		r.send(replyTo(msg, text))
		return
	}

	session := r.sessions.GetOrCreateSession(chatID)
	if !session.TryBegin() {
		slog.Info("chat busy", "channel", entities.ChannelTelegram, "chat", chatID, "elapsed", session.Elapsed())
		r.send(replyTo(msg, BusyReply))
		return
	}

	if _, err := r.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		slog.Warn("failed to send typing action", "chat", chatID, "error", err)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer session.Finish()
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("telegram reply panicked", "chat", chatID, "panic", rec)
			}
		}()

		text, _ := r.replies.Reply(context.WithoutCancel(ctx), msg.Text)
		r.send(replyTo(msg, text))
	}()
}

func (r *Relay) send(c tgbotapi.MessageConfig) {
	if strings.TrimSpace(c.Text) == "" {
		return
	}
	if _, err := r.bot.Send(c); err != nil {
		slog.Error("failed to send telegram message", "chat", c.ChatID, "error", err)
	}
}

func replyTo(msg *tgbotapi.Message, text string) tgbotapi.MessageConfig {
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyToMessageID = msg.MessageID
	return reply
}
