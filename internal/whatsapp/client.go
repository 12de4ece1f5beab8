// Package whatsapp is a thin client for the WhatsApp Cloud API: media upload
// plus image-message send. Callers treat failures as non-fatal to the overall
// batch; response bodies are logged to aid debugging.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const defaultAPIVersion = "v21.0"

type Config struct {
	Token         string
	PhoneNumberID string
	APIVersion    string // default "v21.0"
	BaseURL       string // override for tests; default graph.facebook.com
	Timeout       time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Token == "" || cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("whatsapp: token and phone number id are required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://graph.facebook.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

func (c *Client) url(endpoint string) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.cfg.BaseURL, c.cfg.APIVersion, c.cfg.PhoneNumberID, endpoint)
}

// UploadMedia uploads an image and returns the opaque media id.
func (c *Client) UploadMedia(ctx context.Context, imagePath string) (string, error) {
	reqID := uuid.New().String()
	start := time.Now()

	img, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("open media: %w", err)
	}
	defer func() { _ = img.Close() }()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if _, err := io.Copy(part, img); err != nil {
		return "", fmt.Errorf("copy media: %w", err)
	}
	if err := mw.WriteField("messaging_product", "whatsapp"); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("media"), &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	raw, status, err := c.do(req, reqID, start)
	if err != nil {
		return "", err
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode media response (status %d): %w", status, err)
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("media upload returned no id (status %d)", status)
	}
	return parsed.ID, nil
}

// SendImage sends an image message with caption to a destination number using
// a previously uploaded media id.
func (c *Client) SendImage(ctx context.Context, to, mediaID, caption string) error {
	reqID := uuid.New().String()
	start := time.Now()

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "image",
		"image": map[string]any{
			"id":      mediaID,
			"caption": caption,
		},
	}
	bs, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("messages"), bytes.NewReader(bs))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	if _, _, err := c.do(req, reqID, start); err != nil {
		return err
	}
	return nil
}

// do executes the request, logs the outcome with the response body on
// failure, and returns the raw body.
func (c *Client) do(req *http.Request, reqID string, start time.Time) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("whatsapp.http.send_error",
			"req_id", reqID, "url", req.URL.Path, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, 0, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("whatsapp.http.body_close_error", "req_id", reqID, "error", cerr)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		c.logger.Error("whatsapp.http.non_2xx",
			"req_id", reqID,
			"url", req.URL.Path,
			"status", resp.StatusCode,
			"body", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return raw, resp.StatusCode, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}

	c.logger.Info("whatsapp.http.ok",
		"req_id", reqID,
		"url", req.URL.Path,
		"status", resp.StatusCode,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return raw, resp.StatusCode, nil
}
