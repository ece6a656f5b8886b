// File: internal/infra/adapters/imgbb/imgbb_client.go
package imgbb

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"imgbb-telegram-bot/internal/config"
	"imgbb-telegram-bot/internal/domain"
	"imgbb-telegram-bot/internal/domain/model"
	"imgbb-telegram-bot/internal/domain/ports/adapter"
)

var _ adapter.ImageHost = (*Client)(nil)

// upstream error bodies are small; cap what we keep for messages
const maxErrorBody = 4 << 10

// Client implements adapter.ImageHost against the ImgBB v1 upload API.
type Client struct {
	apiKey     string
	endpoint   string
	expiration time.Duration
	client     *http.Client
}

// NewClient builds a client from config. The API key is mandatory.
func NewClient(cfg config.ImgBBConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("imgbb api key empty")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = config.DefaultImgBBEndpoint
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid imgbb endpoint: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		expiration: cfg.Expiration,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Name() string { return "imgbb" }

type uploadResponse struct {
	Data struct {
		ID        string `json:"id"`
		URL       string `json:"url"`
		URLViewer string `json:"url_viewer"`
		DeleteURL string `json:"delete_url"`
		Thumb     struct {
			URL string `json:"url"`
		} `json:"thumb"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

type errorResponse struct {
	StatusCode int `json:"status_code"`
	Error      struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
	StatusTxt string `json:"status_txt"`
}

// Upload posts the image as a base64 multipart field and returns the three links.
// It performs exactly one HTTP request and never retries.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (*model.UploadResult, error) {
	if len(data) == 0 {
		return nil, &domain.UploadError{Message: "empty payload", Err: domain.ErrEmptyImage}
	}

	body, contentType, err := c.encodeForm(data, filename)
	if err != nil {
		return nil, &domain.UploadError{Message: "encode form", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, &domain.UploadError{Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.UploadError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &domain.UploadError{StatusCode: resp.StatusCode, Message: "malformed response body", Err: err}
	}
	if !out.Success {
		return nil, &domain.UploadError{StatusCode: resp.StatusCode, Message: "upload not successful"}
	}

	res := &model.UploadResult{
		DirectURL:    out.Data.URL,
		ThumbnailURL: out.Data.Thumb.URL,
		ViewURL:      out.Data.URLViewer,
	}
	if !res.Complete() {
		return nil, &domain.UploadError{StatusCode: resp.StatusCode, Message: "incomplete response: missing image links"}
	}
	return res, nil
}

func (c *Client) encodeForm(data []byte, filename string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"key", c.apiKey},
		{"image", base64.StdEncoding.EncodeToString(data)},
	}
	if filename != "" {
		fields = append(fields, [2]string{"name", filename})
	}
	if c.expiration > 0 {
		fields = append(fields, [2]string{"expiration", strconv.Itoa(int(c.expiration / time.Second))})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// decodeError maps a non-2xx response into an UploadError, using the upstream
// error body when it is parseable and the raw text otherwise.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	ue := &domain.UploadError{StatusCode: resp.StatusCode}

	var er errorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Error.Message != "" {
		ue.Message = er.Error.Message
		ue.Code = er.Error.Code
		return ue
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		ue.Message = msg
	} else {
		ue.Message = http.StatusText(resp.StatusCode)
	}
	return ue
}
