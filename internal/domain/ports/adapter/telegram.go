package adapter

import "context"

// InlineButton is a link button attached under a bot message.
type InlineButton struct {
	Text string
	URL  string
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, telegramID int64, text string) error
}
