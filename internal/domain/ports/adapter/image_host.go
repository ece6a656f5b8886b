package adapter

import (
	"context"

	"imgbb-telegram-bot/internal/domain/model"
)

// ImageHost uploads raw image bytes to a third-party hosting service.
// Implementations make exactly one network call per Upload and report every
// failure as *domain.UploadError.
type ImageHost interface {
	Name() string
	Upload(ctx context.Context, data []byte, filename string) (*model.UploadResult, error)
}
