//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"imgbb-telegram-bot/internal/domain"
)

func TestNewImage(t *testing.T) {
	t.Run("should create an image successfully", func(t *testing.T) {
		sent := time.Unix(1700000000, 0)
		img, err := NewImage([]byte{0x89, 'P', 'N', 'G'}, KindDocument, 42, sent)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if img.Kind != KindDocument {
			t.Errorf("expected kind document, got %s", img.Kind)
		}
		if img.UserID != 42 {
			t.Errorf("expected user 42, got %d", img.UserID)
		}
		if !img.SentAt.Equal(sent) {
			t.Errorf("expected SentAt %v, got %v", sent, img.SentAt)
		}
	})

	t.Run("should default SentAt to now", func(t *testing.T) {
		img, err := NewImage([]byte{1}, KindPhoto, 1, time.Time{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if time.Since(img.SentAt) > time.Second {
			t.Errorf("SentAt too far from now: %v", img.SentAt)
		}
	})

	t.Run("should fail on empty payload", func(t *testing.T) {
		_, err := NewImage(nil, KindPhoto, 1, time.Now())
		if !errors.Is(err, domain.ErrEmptyImage) {
			t.Errorf("expected ErrEmptyImage, got %v", err)
		}
	})

	t.Run("should fail on unknown kind", func(t *testing.T) {
		_, err := NewImage([]byte{1}, AttachmentKind("sticker"), 1, time.Now())
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestIsImageMime(t *testing.T) {
	cases := map[string]bool{
		"image/png":       true,
		"IMAGE/JPEG":      true,
		" image/webp ":    true,
		"application/pdf": false,
		"":                false,
		"video/mp4":       false,
	}
	for in, want := range cases {
		if got := IsImageMime(in); got != want {
			t.Errorf("IsImageMime(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestUploadResultComplete(t *testing.T) {
	full := &UploadResult{
		DirectURL:    "https://i.ibb.co/abc/cat.png",
		ThumbnailURL: "https://i.ibb.co/abc/cat_thumb.png",
		ViewURL:      "https://ibb.co/abc",
	}
	if !full.Complete() {
		t.Error("expected full result to be complete")
	}
	partial := *full
	partial.ThumbnailURL = ""
	if partial.Complete() {
		t.Error("expected result without thumbnail to be incomplete")
	}
	var nilRes *UploadResult
	if nilRes.Complete() {
		t.Error("expected nil result to be incomplete")
	}
}

func TestUploadErrorMessage(t *testing.T) {
	cause := errors.New("connection reset")
	cases := []struct {
		name string
		err  *domain.UploadError
		want string
	}{
		{"transport", &domain.UploadError{Err: cause}, "image upload failed: connection reset"},
		{"status only", &domain.UploadError{StatusCode: 502, Message: "bad gateway"}, "image upload failed (status 502): bad gateway"},
		{"status and code", &domain.UploadError{StatusCode: 400, Code: 130, Message: "Empty upload source."}, "image upload failed (status 400, code 130): Empty upload source."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
	if !errors.Is(&domain.UploadError{Err: cause}, cause) {
		t.Error("expected UploadError to unwrap to its cause")
	}
}
