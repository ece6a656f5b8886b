package model

import (
	"strings"
	"time"

	"imgbb-telegram-bot/internal/domain"
)

// AttachmentKind tells how Telegram delivered the image.
type AttachmentKind string

const (
	// KindPhoto is a compressed photo, re-encoded by Telegram.
	KindPhoto AttachmentKind = "photo"
	// KindDocument is a file sent without compression; bytes are exactly what the user sent.
	KindDocument AttachmentKind = "document"
)

// Image is the request-scoped input of a single upload.
type Image struct {
	Data     []byte
	Kind     AttachmentKind
	UserID   int64
	SentAt   time.Time
	FileName string // original document name, empty for photos
	MimeType string // mime type reported by Telegram, empty for photos
}

func NewImage(data []byte, kind AttachmentKind, userID int64, sentAt time.Time) (*Image, error) {
	if len(data) == 0 {
		return nil, domain.ErrEmptyImage
	}
	if kind != KindPhoto && kind != KindDocument {
		return nil, domain.ErrInvalidArgument
	}
	if sentAt.IsZero() {
		sentAt = time.Now()
	}
	return &Image{Data: data, Kind: kind, UserID: userID, SentAt: sentAt}, nil
}

// IsImageMime reports whether a Telegram-declared document mime type looks like an image.
func IsImageMime(mime string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/")
}

// UploadResult holds the links returned by the image host for one upload.
type UploadResult struct {
	DirectURL    string
	ThumbnailURL string
	ViewURL      string
}

// Complete reports whether all three links are present.
func (r *UploadResult) Complete() bool {
	return r != nil && r.DirectURL != "" && r.ThumbnailURL != "" && r.ViewURL != ""
}
