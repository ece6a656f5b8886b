package application

import (
	"context"

	"imgbb-telegram-bot/internal/domain/model"
)

// ---- small interfaces to decouple the facade from concrete usecase structs ----
// These describe the minimal surface that the facade needs. Using interfaces
// enables tests to pass in light-weight mocks.
type UploadUseCaseIface interface {
	Upload(ctx context.Context, img *model.Image) (*model.UploadResult, error)
}

// TranslatorIface is satisfied by *i18n.Translator.
type TranslatorIface interface {
	T(key string, args ...interface{}) string
}
