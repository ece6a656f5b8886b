package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"imgbb-telegram-bot/internal/application"
	"imgbb-telegram-bot/internal/domain"
	"imgbb-telegram-bot/internal/domain/model"
	"imgbb-telegram-bot/internal/infra/logging"
	"imgbb-telegram-bot/internal/infra/metrics"
)

// attachment identifies the Telegram file behind a photo or document message.
type attachment struct {
	kind     model.AttachmentKind
	fileID   string
	fileName string
	mimeType string
}

// handlePhoto uploads the largest size Telegram generated for the photo.
func (r *RealTelegramBotAdapter) handlePhoto(ctx context.Context, message *tgbotapi.Message) error {
	largest := message.Photo[len(message.Photo)-1]
	return r.processImage(ctx, message, attachment{kind: model.KindPhoto, fileID: largest.FileID})
}

// handleDocument uploads image files sent uncompressed; other documents are refused.
func (r *RealTelegramBotAdapter) handleDocument(ctx context.Context, message *tgbotapi.Message) error {
	doc := message.Document
	if !model.IsImageMime(doc.MimeType) {
		metrics.IncRejected(string(model.KindDocument), "not_image")
		logging.With(ctx, r.log).Info().Str("mime", doc.MimeType).Msg("document is not an image")
		return r.reply(ctx, message, r.facade.FailureText(fmt.Errorf("%w: %s", domain.ErrNotAnImage, doc.MimeType)))
	}
	return r.processImage(ctx, message, attachment{
		kind:     model.KindDocument,
		fileID:   doc.FileID,
		fileName: doc.FileName,
		mimeType: doc.MimeType,
	})
}

// processImage posts a status message, then edits it in place as the upload
// progresses; the last edit carries the links or the failure text.
func (r *RealTelegramBotAdapter) processImage(ctx context.Context, message *tgbotapi.Message, att attachment) error {
	log := logging.With(ctx, r.log)
	defer logging.TraceDuration(log, "process_image")()

	status, err := r.send(ctx, r.replyConfig(message, r.facade.Downloading()))
	if err != nil {
		return err
	}

	final := r.uploadAttachment(ctx, message, att, status.MessageID)
	return r.finish(ctx, message, status.MessageID, final)
}

func (r *RealTelegramBotAdapter) uploadAttachment(ctx context.Context, message *tgbotapi.Message, att attachment, statusID int) application.Reply {
	log := logging.With(ctx, r.log)

	data, err := r.fetcher.Fetch(ctx, att.fileID)
	if err != nil {
		metrics.IncDownloadFailure()
		log.Error().Err(err).Str("kind", string(att.kind)).Msg("telegram file download failed")
		return application.Reply{Text: r.facade.GenericError()}
	}

	if err := r.edit(ctx, message.Chat.ID, statusID, application.Reply{Text: r.facade.Uploading()}); err != nil {
		log.Warn().Err(err).Msg("failed to update status message")
	}

	img, err := model.NewImage(data, att.kind, senderID(message), message.Time())
	if err != nil {
		log.Error().Err(err).Msg("invalid image payload")
		return application.Reply{Text: r.facade.GenericError()}
	}
	img.FileName = att.fileName
	img.MimeType = att.mimeType

	reply, err := r.facade.HandleImage(ctx, img)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(att.kind)).Msg("image upload failed")
	}
	return reply
}

// finish replaces the status message with the final reply. When the status
// message can no longer be edited the reply is sent as a new message.
func (r *RealTelegramBotAdapter) finish(ctx context.Context, message *tgbotapi.Message, statusID int, final application.Reply) error {
	err := r.edit(ctx, message.Chat.ID, statusID, final)
	if err == nil || ctx.Err() != nil {
		return err
	}
	logging.With(ctx, r.log).Warn().Err(err).Msg("failed to edit status message; sending a new reply")

	cfg := r.replyConfig(message, final.Text)
	if kb, ok := buildKeyboard(final.Buttons); ok {
		cfg.ReplyMarkup = kb
	}
	_, err = r.send(ctx, cfg)
	return err
}

func (r *RealTelegramBotAdapter) reply(ctx context.Context, message *tgbotapi.Message, text string) error {
	_, err := r.send(ctx, r.replyConfig(message, text))
	return err
}

func (r *RealTelegramBotAdapter) replyConfig(message *tgbotapi.Message, text string) tgbotapi.MessageConfig {
	cfg := tgbotapi.NewMessage(message.Chat.ID, text)
	cfg.ReplyToMessageID = message.MessageID
	cfg.ParseMode = tgbotapi.ModeHTML
	cfg.DisableWebPagePreview = true
	return cfg
}

func (r *RealTelegramBotAdapter) edit(ctx context.Context, chatID int64, messageID int, reply application.Reply) error {
	cfg := tgbotapi.NewEditMessageText(chatID, messageID, reply.Text)
	cfg.ParseMode = tgbotapi.ModeHTML
	cfg.DisableWebPagePreview = true
	if kb, ok := buildKeyboard(reply.Buttons); ok {
		cfg.ReplyMarkup = &kb
	}
	_, err := r.send(ctx, cfg)
	return err
}
