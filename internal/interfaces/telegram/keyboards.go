package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Button labels double as keyword commands, so they must match the default rules.
const (
	ButtonPing = "ping"
	ButtonHelp = "help"
)

// MainKeyboard is the reply keyboard shown after /start.
func MainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonPing),
			tgbotapi.NewKeyboardButton(ButtonHelp),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}
