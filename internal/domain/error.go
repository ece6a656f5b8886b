package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrEmptyImage        = errors.New("image payload is empty")
	ErrNotAnImage        = errors.New("attachment is not an image")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDownloadFailed    = errors.New("telegram file download failed")
)

// UploadError is returned by image hosts for every failed upload: transport
// errors, non-2xx responses, malformed bodies and incomplete results.
// StatusCode is 0 when no HTTP response was received.
type UploadError struct {
	StatusCode int
	Code       int
	Message    string
	Err        error
}

func (e *UploadError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("image upload failed: %s", msg)
	}
	if e.Code != 0 {
		return fmt.Sprintf("image upload failed (status %d, code %d): %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("image upload failed (status %d): %s", e.StatusCode, msg)
}

func (e *UploadError) Unwrap() error { return e.Err }
