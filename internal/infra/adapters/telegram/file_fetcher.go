package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"imgbb-telegram-bot/internal/domain"
)

// Telegram bots may download files up to 20 MB.
const maxFileSize = 20 << 20

// fileFetcher downloads attachment bytes from Telegram's file storage.
// The resolved URL embeds the bot token and must never be logged.
type fileFetcher struct {
	bot    botClient
	client *http.Client
}

func newFileFetcher(bot botClient, client *http.Client) *fileFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &fileFetcher{bot: bot, client: client}
}

// Fetch returns the file content. Every failure wraps domain.ErrDownloadFailed.
func (f *fileFetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	link, err := f.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve file: %w", domain.ErrDownloadFailed, scrubToken(err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrDownloadFailed, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDownloadFailed, scrubToken(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrDownloadFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrDownloadFailed, err)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrDownloadFailed, maxFileSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrDownloadFailed, domain.ErrEmptyImage)
	}
	return data, nil
}
