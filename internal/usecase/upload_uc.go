// File: internal/usecase/upload_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"imgbb-telegram-bot/internal/domain"
	"imgbb-telegram-bot/internal/domain/model"
	"imgbb-telegram-bot/internal/domain/ports/adapter"
	"imgbb-telegram-bot/internal/infra/logging"
	"imgbb-telegram-bot/internal/infra/metrics"
)

// Compile-time check
var _ UploadUseCase = (*uploadUC)(nil)

// ImageFormat is one of the image encodings accepted for upload.
type ImageFormat struct {
	Name string
	Mime string
	Ext  string
}

var supportedFormats = []ImageFormat{
	{Name: "jpeg", Mime: "image/jpeg", Ext: ".jpg"},
	{Name: "png", Mime: "image/png", Ext: ".png"},
	{Name: "webp", Mime: "image/webp", Ext: ".webp"},
	{Name: "gif", Mime: "image/gif", Ext: ".gif"},
}

// SupportedFormats returns the accepted formats in display order.
func SupportedFormats() []ImageFormat {
	out := make([]ImageFormat, len(supportedFormats))
	copy(out, supportedFormats)
	return out
}

// SupportedFormatsText renders the accepted formats for user-facing messages, e.g. "JPG, PNG, WEBP, GIF".
func SupportedFormatsText() string {
	names := make([]string, 0, len(supportedFormats))
	for _, f := range supportedFormats {
		names = append(names, strings.ToUpper(strings.TrimPrefix(f.Ext, ".")))
	}
	return strings.Join(names, ", ")
}

// DetectFormat sniffs the payload. It never modifies data.
func DetectFormat(data []byte) (ImageFormat, error) {
	m := mimetype.Detect(data)
	for _, f := range supportedFormats {
		if m.Is(f.Mime) {
			return f, nil
		}
	}
	return ImageFormat{Mime: m.String()}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, m.String())
}

// UploadUseCase validates an incoming image and pushes it to the image host.
type UploadUseCase interface {
	Upload(ctx context.Context, img *model.Image) (*model.UploadResult, error)
}

type uploadUC struct {
	host adapter.ImageHost
	log  *zerolog.Logger
	now  func() time.Time
}

func NewUploadUseCase(host adapter.ImageHost, logger *zerolog.Logger) *uploadUC {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	ucLog := logger.With().Str("component", "UploadUC").Logger()
	return &uploadUC{host: host, log: &ucLog, now: time.Now}
}

func (u *uploadUC) Upload(ctx context.Context, img *model.Image) (*model.UploadResult, error) {
	defer logging.TraceDuration(u.log, "UploadUC.Upload")()

	if img == nil || len(img.Data) == 0 {
		return nil, domain.ErrEmptyImage
	}
	l := logging.With(ctx, u.log)

	format, err := DetectFormat(img.Data)
	if err != nil {
		metrics.IncRejected(string(img.Kind), "unsupported")
		l.Info().Str("kind", string(img.Kind)).Str("mime", format.Mime).Msg("rejected unsupported image format")
		return nil, err
	}

	filename := uploadFilename(img, format)
	start := u.now()
	res, err := u.host.Upload(ctx, img.Data, filename)
	elapsed := u.now().Sub(start)
	metrics.ObserveUpload(u.host.Name(), string(img.Kind), format.Name, len(img.Data), elapsed, err == nil)

	if err != nil {
		ev := l.Warn().Err(err).Str("host", u.host.Name()).Str("kind", string(img.Kind)).Dur("elapsed", elapsed)
		var ue *domain.UploadError
		if errors.As(err, &ue) {
			ev = ev.Int("upstream_status", ue.StatusCode).Int("upstream_code", ue.Code)
		}
		ev.Msg("image upload failed")
		return nil, err
	}

	l.Info().
		Str("host", u.host.Name()).
		Str("kind", string(img.Kind)).
		Str("format", format.Name).
		Int("bytes", len(img.Data)).
		Dur("elapsed", elapsed).
		Msg("image uploaded")
	return res, nil
}

// uploadFilename builds img_<user>_<unix><ext>; the host only needs a distinct name.
func uploadFilename(img *model.Image, f ImageFormat) string {
	ts := img.SentAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return fmt.Sprintf("img_%d_%d%s", img.UserID, ts.Unix(), f.Ext)
}
