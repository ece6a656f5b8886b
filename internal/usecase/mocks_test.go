//go:build !integration

package usecase_test

import (
	"bytes"
	"context"
	"sync"

	"github.com/rs/zerolog"

	"imgbb-telegram-bot/internal/domain/model"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// MockImageHost records every upload and returns a canned result or error.
type MockImageHost struct {
	mu        sync.Mutex
	calls     int
	lastData  []byte
	lastName  string
	Result    *model.UploadResult
	UploadErr error
}

func NewMockImageHost() *MockImageHost {
	return &MockImageHost{
		Result: &model.UploadResult{
			DirectURL:    "https://i.ibb.co/abc/cat.png",
			ThumbnailURL: "https://i.ibb.co/abc/cat_thumb.png",
			ViewURL:      "https://ibb.co/abc",
		},
	}
}

func (m *MockImageHost) Name() string { return "mock" }

func (m *MockImageHost) Upload(ctx context.Context, data []byte, filename string) (*model.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastData = bytes.Clone(data)
	m.lastName = filename
	if m.UploadErr != nil {
		return nil, m.UploadErr
	}
	cp := *m.Result
	return &cp, nil
}

func (m *MockImageHost) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Image fixtures: just enough of each header for content sniffing.
var (
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x11}, 128)...)
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"), bytes.Repeat([]byte{0x22}, 128)...)
	webpBytes = append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), bytes.Repeat([]byte{0x33}, 128)...)
	gifBytes  = append([]byte("GIF89a\x01\x00\x01\x00"), bytes.Repeat([]byte{0x44}, 128)...)
	pdfBytes  = []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")
)
