package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"imgbb-telegram-bot/internal/infra/logging"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.handleStartCommand,
		"help":  r.handleHelpCommand,
	}
}

// handleStartCommand greets the user and lists accepted formats.
func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	firstName := ""
	if message.From != nil {
		firstName = message.From.FirstName
	}
	logging.With(ctx, r.log).Debug().Msg("start command")
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleStart(firstName))
}

// handleHelpCommand provides a list of commands.
func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleHelp())
}

// SetMenuCommands publishes the command list shown in the Telegram client menu.
func (r *RealTelegramBotAdapter) SetMenuCommands(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	menu := r.facade.MenuCommands()
	cmds := make([]tgbotapi.BotCommand, 0, len(menu))
	for _, m := range menu {
		cmds = append(cmds, tgbotapi.BotCommand{Command: m.Command, Description: m.Description})
	}
	return r.request(ctx, tgbotapi.NewSetMyCommands(cmds...))
}
