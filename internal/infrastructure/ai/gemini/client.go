// Package gemini provides the hosted generative model integration for
// recipe generation and pantry image understanding.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pantrychef/v2/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Client implements the TextModel and VisionModel interfaces against the
// generateContent REST API.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new model client
func NewClient(cfg config.GeminiConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("gemini"),
	}
}

// generateContent request/response structures
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate runs a text-only prompt and returns the raw model text
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.call(ctx, []part{{Text: prompt}})
}

// Describe runs a prompt against an image. The image is sent inline as
// base64 with its mime type.
func (c *Client) Describe(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	return c.call(ctx, []part{
		{Text: prompt},
		{InlineData: &inlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(image),
		}},
	})
}

func (c *Client) call(ctx context.Context, parts []part) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: parts}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Error("Model API error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail),
		)
		return "", fmt.Errorf("model API: status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model returned no candidates")
	}

	c.logger.Debug("Model call complete",
		zap.String("model", c.model),
		zap.Duration("elapsed", time.Since(started)),
	)
	return out.Candidates[0].Content.Parts[0].Text, nil
}
