package application

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"imgbb-telegram-bot/internal/domain"
	"imgbb-telegram-bot/internal/domain/model"
	"imgbb-telegram-bot/internal/domain/ports/adapter"
)

// Reply is a ready-to-send bot answer: HTML text plus optional inline keyboard rows.
type Reply struct {
	Text    string
	Buttons [][]adapter.InlineButton
}

// BotFacade composes usecases into high-level bot commands.
// Keep the facade methods returning text so the Telegram adapter just forwards them to the chat.
type BotFacade struct {
	UploadUC UploadUseCaseIface
	tr       TranslatorIface
	formats  string
}

// NewBotFacade constructs a facade. formats is the human-readable list of
// accepted image formats shown in /start and in rejection messages.
func NewBotFacade(uploadUC UploadUseCaseIface, tr TranslatorIface, formats string) *BotFacade {
	return &BotFacade{UploadUC: uploadUC, tr: tr, formats: formats}
}

// HandleStart returns the welcome text addressed to the user's first name.
func (b *BotFacade) HandleStart(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}
	return b.tr.T("start", html.EscapeString(name), b.formats)
}

func (b *BotFacade) HandleHelp() string { return b.tr.T("help") }

// HandleImage uploads the image and builds the reply.
// On failure the returned Reply still carries the plain error text to show the user.
func (b *BotFacade) HandleImage(ctx context.Context, img *model.Image) (Reply, error) {
	if b.UploadUC == nil {
		return Reply{Text: b.GenericError()}, fmt.Errorf("upload usecase not available")
	}
	res, err := b.UploadUC.Upload(ctx, img)
	if err != nil {
		return Reply{Text: b.FailureText(err)}, err
	}
	return b.successReply(res), nil
}

func (b *BotFacade) successReply(res *model.UploadResult) Reply {
	text := b.tr.T("upload_success",
		html.EscapeString(res.DirectURL),
		html.EscapeString(res.ThumbnailURL),
		html.EscapeString(res.ViewURL),
	)
	rows := [][]adapter.InlineButton{
		{
			{Text: b.tr.T("button_open"), URL: res.DirectURL},
			{Text: b.tr.T("button_share"), URL: res.ViewURL},
		},
	}
	return Reply{Text: text, Buttons: rows}
}

// FailureText maps an upload pipeline error to the text shown to the user.
func (b *BotFacade) FailureText(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return b.tr.T("error_unsupported_format", b.formats)
	case errors.Is(err, domain.ErrNotAnImage):
		return b.tr.T("error_not_image")
	default:
		var ue *domain.UploadError
		if errors.As(err, &ue) {
			return b.tr.T("error_upload_failed")
		}
		return b.GenericError()
	}
}

// Status and error texts used by the adapter while an upload is in flight.
func (b *BotFacade) Downloading() string  { return b.tr.T("status_downloading") }
func (b *BotFacade) Uploading() string    { return b.tr.T("status_uploading") }
func (b *BotFacade) GenericError() string { return b.tr.T("error_generic") }

// MenuCommand is one entry of the bot's command menu.
type MenuCommand struct {
	Command     string
	Description string
}

// MenuCommands lists the commands advertised in the Telegram client menu.
func (b *BotFacade) MenuCommands() []MenuCommand {
	return []MenuCommand{
		{Command: "start", Description: b.tr.T("menu_start")},
		{Command: "help", Description: b.tr.T("menu_help")},
	}
}
