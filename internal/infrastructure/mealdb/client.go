// Package mealdb implements the MealCatalog port against the public meal
// database API. All endpoints are unauthenticated reads.
package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pantrychef/v2/internal/infrastructure/config"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// Client implements the MealCatalog interface
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new meal catalog client
func NewClient(cfg config.MealDBConfig, logger *zap.Logger) outbound.MealCatalog {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("mealdb"),
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("meal catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("meal catalog %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// RandomMeal returns one random meal with full details
func (c *Client) RandomMeal(ctx context.Context) (*outbound.MealDetail, error) {
	var out struct {
		Meals []outbound.MealDetail `json:"meals"`
	}
	if err := c.get(ctx, "/random.php", &out); err != nil {
		return nil, err
	}
	if len(out.Meals) == 0 {
		return nil, fmt.Errorf("meal catalog returned no meals")
	}
	return &out.Meals[0], nil
}

// Categories lists all meal categories
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Meals []struct {
			Category string `json:"strCategory"`
		} `json:"meals"`
	}
	if err := c.get(ctx, "/list.php?c=list", &out); err != nil {
		return nil, err
	}
	names := make([]string, len(out.Meals))
	for i, m := range out.Meals {
		names[i] = m.Category
	}
	return names, nil
}

// Areas lists all meal areas (cuisine regions)
func (c *Client) Areas(ctx context.Context) ([]string, error) {
	var out struct {
		Meals []struct {
			Area string `json:"strArea"`
		} `json:"meals"`
	}
	if err := c.get(ctx, "/list.php?a=list", &out); err != nil {
		return nil, err
	}
	names := make([]string, len(out.Meals))
	for i, m := range out.Meals {
		names[i] = m.Area
	}
	return names, nil
}

// MealsByCategory lists meal summaries for one category
func (c *Client) MealsByCategory(ctx context.Context, category string) ([]outbound.Meal, error) {
	var out struct {
		Meals []outbound.Meal `json:"meals"`
	}
	if err := c.get(ctx, "/filter.php?c="+url.QueryEscape(category), &out); err != nil {
		return nil, err
	}
	return out.Meals, nil
}

// MealsByArea lists meal summaries for one area
func (c *Client) MealsByArea(ctx context.Context, area string) ([]outbound.Meal, error) {
	var out struct {
		Meals []outbound.Meal `json:"meals"`
	}
	if err := c.get(ctx, "/filter.php?a="+url.QueryEscape(area), &out); err != nil {
		return nil, err
	}
	return out.Meals, nil
}
