// Package contentstore implements the persistence ports against the
// external headless content backend. All records live behind its REST API
// as opaque numeric ids; this service never touches a database directly.
package contentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pantrychef/v2/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Client is the shared HTTP client for the content backend
type Client struct {
	baseURL  string
	apiToken string
	client   *http.Client
	logger   *zap.Logger
}

// NewClient creates a new content store client
func NewClient(cfg config.ContentStoreConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		apiToken: cfg.APIToken,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.Named("content-store"),
	}
}

// do performs an authenticated request against the content API and decodes
// the response body into out when out is non-nil. Non-2xx statuses are
// returned as errors carrying the upstream status code.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("content store request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Error("Content store error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail),
		)
		return fmt.Errorf("content store %s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
