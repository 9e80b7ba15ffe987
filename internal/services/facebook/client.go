package facebook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// Config captures the runtime settings required to post via the Graph API.
type Config struct {
	PageToken      string
	APIURL         string
	TimeoutSeconds int
}

// Client wraps the Graph API photo publishing endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (primarily for tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a Graph API client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			PageToken:      strings.TrimSpace(cfg.PageToken),
			APIURL:         strings.TrimSpace(cfg.APIURL),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.APIURL == "" {
		client.cfg.APIURL = "https://graph.facebook.com/me/photos"
	}
	return client
}

// Configured reports whether a page token is available for real calls.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.PageToken != ""
}

// PostResponse captures the identifiers the Graph API returns for a photo post.
type PostResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

// PostPhoto uploads an image with a caption. The image is sent as a multipart
// source part alongside the caption and access token fields.
func (c *Client) PostPhoto(ctx context.Context, caption, imagePath string) (PostResponse, error) {
	var empty PostResponse
	if c.cfg.PageToken == "" {
		return empty, errors.New("facebook post: page token required")
	}

	file, err := os.Open(imagePath)
	if err != nil {
		return empty, fmt.Errorf("facebook post: open image: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("caption", caption); err != nil {
		return empty, fmt.Errorf("facebook post: write caption field: %w", err)
	}
	if err := writer.WriteField("access_token", c.cfg.PageToken); err != nil {
		return empty, fmt.Errorf("facebook post: write token field: %w", err)
	}
	part, err := writer.CreateFormFile("source", filepath.Base(imagePath))
	if err != nil {
		return empty, fmt.Errorf("facebook post: create source part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return empty, fmt.Errorf("facebook post: copy image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return empty, fmt.Errorf("facebook post: finalize body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, &body)
	if err != nil {
		return empty, fmt.Errorf("facebook post: new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, fmt.Errorf("facebook post: http error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return empty, fmt.Errorf("facebook post: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return empty, fmt.Errorf("facebook post: http %d: %s", resp.StatusCode, graphErrorDetail(payload))
	}

	var parsed PostResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return empty, fmt.Errorf("facebook post: decode response: %w", err)
	}
	if strings.TrimSpace(parsed.ID) == "" {
		return empty, errors.New("facebook post: response missing photo id")
	}
	return parsed, nil
}

func graphErrorDetail(payload []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    int    `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &parsed); err == nil && parsed.Error.Message != "" {
		return fmt.Sprintf("%s (type=%s, code=%d)", parsed.Error.Message, parsed.Error.Type, parsed.Error.Code)
	}
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return "<empty>"
	}
	const limit = 160
	runes := []rune(trimmed)
	if len(runes) > limit {
		trimmed = string(runes[:limit]) + "..."
	}
	return trimmed
}
