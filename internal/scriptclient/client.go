// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

/*
client.go - Image Script Endpoint Client

Recipe images are not stored by this service. They are handed to an external
script endpoint (a web app that writes them to a drive folder) which answers
with the stored file's URL and ID. The same endpoint deletes files by ID.

Every call is a JSON POST of the form:

	{"action": "upload", "imageBase64": "...", "fileName": "...", "apiKey": "..."}
	{"action": "delete", "fileId": "...", "apiKey": "..."}

Resilience:
  - Outbound calls are throttled by a token bucket (golang.org/x/time/rate)
  - CircuitBreakerClient wraps the client in a sony/gobreaker breaker
  - All methods accept a context for cancellation and timeouts
*/

//nolint:staticcheck // File documentation, not package doc
package scriptclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cocktailmaestro/internal/config"
)

const (
	actionUpload = "upload"
	actionDelete = "delete"

	// maxErrorBodySize limits how much of an error response is kept for diagnostics.
	maxErrorBodySize = 64 * 1024

	// maxResponseSize bounds a successful response body.
	maxResponseSize = 1 << 20
)

var (
	// ErrNotConfigured is returned when no script endpoint is configured.
	ErrNotConfigured = errors.New("image script endpoint not configured")

	// ErrUnexpectedStatus is returned when the endpoint answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status from image script endpoint")

	// ErrInvalidResponse is returned when an upload answer carries no file ID.
	ErrInvalidResponse = errors.New("invalid response from image script endpoint")
)

// ImageStore uploads and deletes recipe images.
// Implemented by Client and CircuitBreakerClient.
type ImageStore interface {
	Upload(ctx context.Context, imageBase64, fileName string) (*UploadResult, error)
	Delete(ctx context.Context, fileID string) (json.RawMessage, error)
}

// UploadResult is the endpoint's answer to an upload.
type UploadResult struct {
	URL    string `json:"url"`
	FileID string `json:"fileId"`
}

// scriptRequest is the JSON body sent to the endpoint.
type scriptRequest struct {
	Action      string `json:"action"`
	ImageBase64 string `json:"imageBase64,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	FileID      string `json:"fileId,omitempty"`
	APIKey      string `json:"apiKey"`
}

// Client talks to the image script endpoint.
// It is safe for concurrent use.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a script client. apiKey is sent in every request body.
// A non-positive RequestsPerSecond disables throttling.
func NewClient(cfg *config.ScriptConfig, apiKey string) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(1, int(cfg.RequestsPerSecond))
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// Configured reports whether an endpoint URL is set.
func (c *Client) Configured() bool {
	return c.endpoint != ""
}

// Upload sends a base64-encoded image and returns where it was stored.
func (c *Client) Upload(ctx context.Context, imageBase64, fileName string) (*UploadResult, error) {
	body, err := c.post(ctx, scriptRequest{
		Action:      actionUpload,
		ImageBase64: imageBase64,
		FileName:    fileName,
		APIKey:      c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", fileName, err)
	}

	var result UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("upload %s: decode response: %w", fileName, err)
	}
	if result.FileID == "" {
		return nil, fmt.Errorf("upload %s: %w: missing fileId", fileName, ErrInvalidResponse)
	}
	return &result, nil
}

// Delete asks the endpoint to remove a stored image. The endpoint's answer
// is returned undecoded.
func (c *Client) Delete(ctx context.Context, fileID string) (json.RawMessage, error) {
	body, err := c.post(ctx, scriptRequest{
		Action: actionDelete,
		FileID: fileID,
		APIKey: c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", fileID, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("delete %s: %w: body is not JSON", fileID, ErrInvalidResponse)
	}
	return json.RawMessage(body), nil
}

func (c *Client) post(ctx context.Context, payload scriptRequest) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, readBodyForError(resp.Body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// readBodyForError reads at most maxErrorBodySize bytes of an error response.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	if len(body) == maxErrorBodySize {
		return string(body) + "\n... (truncated)"
	}
	return string(body)
}
