// Package unsplash provides best-effort recipe image enrichment. Image
// lookup failures never fail the caller: every error path yields "".
package unsplash

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pantrychef/v2/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Client implements the ImageSearch interface
type Client struct {
	accessKey string
	baseURL   string
	client    *http.Client
	logger    *zap.Logger
}

// NewClient creates a new image search client
func NewClient(cfg config.UnsplashConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if cfg.AccessKey == "" {
		logger.Warn("Unsplash access key not set, image enrichment disabled")
	}
	return &Client{
		accessKey: cfg.AccessKey,
		baseURL:   cfg.BaseURL,
		client:    &http.Client{Timeout: timeout},
		logger:    logger.Named("unsplash"),
	}
}

type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// FindPhoto returns the first landscape photo URL for the query, or ""
// when the key is missing, the API fails, or nothing matches.
func (c *Client) FindPhoto(ctx context.Context, query string) string {
	if c.accessKey == "" {
		return ""
	}

	endpoint := c.baseURL + "/search/photos?query=" + url.QueryEscape(query) +
		"&per_page=1&orientation=landscape"

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("Image search failed", zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Image search error", zap.Int("status", resp.StatusCode))
		return ""
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.Warn("Image search decode failed", zap.Error(err))
		return ""
	}
	if len(out.Results) == 0 {
		c.logger.Debug("No image found", zap.String("query", query))
		return ""
	}
	return out.Results[0].URLs.Regular
}
