package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"imgbb-telegram-bot/internal/application"
	"imgbb-telegram-bot/internal/config"
	"imgbb-telegram-bot/internal/domain/ports/adapter"
	"imgbb-telegram-bot/internal/infra/logging"
	"imgbb-telegram-bot/internal/infra/metrics"
	"imgbb-telegram-bot/internal/infra/worker"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// upper bound for one update: download + upload + reply
const updateTimeout = 2 * time.Minute

// botClient is the subset of *tgbotapi.BotAPI the adapter relies on.
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	bot     botClient
	facade  *application.BotFacade
	fetcher *fileFetcher
	log     *zerolog.Logger

	updateWorkers int
	sleep         func(ctx context.Context, d time.Duration) error

	mu            sync.Mutex
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if logger != nil {
		// tgbotapi logs getUpdates failures itself; keep those lines token-free
		_ = tgbotapi.SetLogger(newBotLogger(logger))
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, scrubToken(err)
	}
	r, err := newAdapter(bot, facade, logger, cfg.Workers)
	if err != nil {
		return nil, err
	}
	r.log.Info().Str("username", bot.Self.UserName).Msg("telegram bot authorized")
	return r, nil
}

func newAdapter(bot botClient, facade *application.BotFacade, logger *zerolog.Logger, updateWorkers int) (*RealTelegramBotAdapter, error) {
	if bot == nil {
		return nil, errors.New("bot client is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	if updateWorkers <= 0 {
		updateWorkers = 5
	}
	tgLog := logger.With().Str("component", "TelegramBot").Logger()
	return &RealTelegramBotAdapter{
		bot:           bot,
		facade:        facade,
		fetcher:       newFileFetcher(bot, &http.Client{Timeout: time.Minute}),
		log:           &tgLog,
		updateWorkers: updateWorkers,
		sleep:         sleepCtx,
	}, nil
}

// StartPolling long-polls Telegram and hands every update to the worker pool.
// It blocks until ctx is cancelled or StopPolling is called; updates already
// accepted are finished before it returns.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancelPolling = cancel
	r.mu.Unlock()
	defer cancel()

	// in-flight updates outlive the polling context so users still get their reply on shutdown
	pool := worker.NewPool(r.updateWorkers, r.log)
	pool.Start(context.WithoutCancel(ctx))
	defer func() {
		r.bot.StopReceivingUpdates()
		pool.Stop()
		r.log.Info().Msg("telegram polling stopped")
	}()

	r.log.Info().Int("workers", r.updateWorkers).Msg("telegram polling started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			task := func(wctx context.Context) error {
				hctx, cancel := context.WithTimeout(wctx, updateTimeout)
				defer cancel()
				return r.handleUpdate(hctx, up)
			}
			if err := pool.Submit(ctx, task); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.log.Error().Err(err).Int("update_id", up.UpdateID).Msg("failed to enqueue update")
			}
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		metrics.IncTelegramUpdate("other")
		return nil
	}

	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithUpdateID(ctx, update.UpdateID)
	ctx = logging.WithTgID(ctx, senderID(msg))

	switch {
	case msg.IsCommand():
		metrics.IncTelegramUpdate("command")
		if h, ok := r.commandRoutes()[msg.Command()]; ok {
			return h(ctx, msg)
		}
		return nil
	case len(msg.Photo) > 0:
		metrics.IncTelegramUpdate("photo")
		return r.handlePhoto(ctx, msg)
	case msg.Document != nil:
		metrics.IncTelegramUpdate("document")
		return r.handleDocument(ctx, msg)
	default:
		metrics.IncTelegramUpdate("other")
		return nil
	}
}

// SendMessage sends a plain HTML message.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	msg := tgbotapi.NewMessage(tgID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := r.send(ctx, msg)
	return err
}

// buildKeyboard converts port buttons into a tgbotapi inline keyboard.
// Every button opens a link; buttons without a URL are skipped.
func buildKeyboard(rows [][]adapter.InlineButton) (tgbotapi.InlineKeyboardMarkup, bool) {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			if strings.TrimSpace(btn.URL) == "" {
				continue
			}
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			r = append(r, tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL))
		}
		if len(r) > 0 {
			kbRows = append(kbRows, r)
		}
	}
	if len(kbRows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...), true
}

// send delivers c through the flood-control wrapper.
func (r *RealTelegramBotAdapter) send(ctx context.Context, c tgbotapi.Chattable) (tgbotapi.Message, error) {
	var msg tgbotapi.Message
	err := r.withFloodWait(ctx, func() error {
		var err error
		msg, err = r.bot.Send(c)
		return err
	})
	return msg, err
}

// request is send for calls that return a bare APIResponse (setMyCommands and the like).
func (r *RealTelegramBotAdapter) request(ctx context.Context, c tgbotapi.Chattable) error {
	return r.withFloodWait(ctx, func() error {
		_, err := r.bot.Request(c)
		return err
	})
}

// withFloodWait runs call, honouring Telegram flood control: on a retry_after
// error it waits the requested time once and repeats the call. Returned errors
// never carry the tokenised API URL.
func (r *RealTelegramBotAdapter) withFloodWait(ctx context.Context, call func() error) error {
	err := call()
	wait, ok := retryAfter(err)
	if !ok {
		return scrubToken(err)
	}

	metrics.IncFloodWait()
	logging.With(ctx, r.log).Warn().Dur("retry_after", wait).Msg("telegram flood control; waiting before retry")
	if err := r.sleep(ctx, wait); err != nil {
		return err
	}
	return scrubToken(call())
}

// scrubToken drops the *url.Error layer that net/http puts around transport
// failures. Its text includes the request URL, which for the Bot API embeds the
// bot token. The underlying cause is kept for errors.Is/As.
func scrubToken(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	if ue.Err == nil {
		return fmt.Errorf("telegram %s request failed", strings.ToLower(ue.Op))
	}
	return fmt.Errorf("telegram %s request: %w", strings.ToLower(ue.Op), ue.Err)
}

func retryAfter(err error) (time.Duration, bool) {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
		return time.Duration(tgErr.RetryAfter) * time.Second, true
	}
	return 0, false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func senderID(msg *tgbotapi.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}
