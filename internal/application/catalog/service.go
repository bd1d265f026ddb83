// Package catalog provides the application layer for the public meal
// catalog: a read-through cache over the external meal database.
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pantrychef/v2/internal/ports/inbound"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"github.com/pantrychef/v2/pkg/errors"
	"go.uber.org/zap"
)

// Cache TTLs mirror how often the upstream data actually changes: the
// category and area lists are near-static, meal listings churn daily.
const (
	randomTTL = 24 * time.Hour
	listTTL   = 7 * 24 * time.Hour
	mealsTTL  = 24 * time.Hour
	keyRandom = "catalog:recipe-of-day"
	keyCats   = "catalog:categories"
	keyAreas  = "catalog:areas"
	keyByCat  = "catalog:category:"
	keyByArea = "catalog:area:"
)

// CatalogService implements the catalog use cases
type CatalogService struct {
	meals  outbound.MealCatalog
	cache  outbound.CacheRepository
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(meals outbound.MealCatalog, cache outbound.CacheRepository, logger *zap.Logger) inbound.CatalogService {
	return &CatalogService{
		meals:  meals,
		cache:  cache,
		logger: logger.Named("catalog-service"),
	}
}

// RecipeOfTheDay returns the cached daily random meal
func (s *CatalogService) RecipeOfTheDay(ctx context.Context) (*outbound.MealDetail, error) {
	var meal *outbound.MealDetail
	hit, err := cached(ctx, s, keyRandom, randomTTL, &meal, func() (*outbound.MealDetail, error) {
		return s.meals.RandomMeal(ctx)
	})
	if err != nil {
		return nil, err
	}
	return hit, nil
}

// Categories returns the cached category list
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	var out []string
	hit, err := cached(ctx, s, keyCats, listTTL, &out, func() ([]string, error) {
		return s.meals.Categories(ctx)
	})
	if err != nil {
		return nil, err
	}
	return hit, nil
}

// Areas returns the cached area list
func (s *CatalogService) Areas(ctx context.Context) ([]string, error) {
	var out []string
	hit, err := cached(ctx, s, keyAreas, listTTL, &out, func() ([]string, error) {
		return s.meals.Areas(ctx)
	})
	if err != nil {
		return nil, err
	}
	return hit, nil
}

// MealsByCategory returns the cached meal listing for a category
func (s *CatalogService) MealsByCategory(ctx context.Context, category string) ([]outbound.Meal, error) {
	var out []outbound.Meal
	hit, err := cached(ctx, s, keyByCat+category, mealsTTL, &out, func() ([]outbound.Meal, error) {
		return s.meals.MealsByCategory(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return hit, nil
}

// MealsByArea returns the cached meal listing for an area
func (s *CatalogService) MealsByArea(ctx context.Context, area string) ([]outbound.Meal, error) {
	var out []outbound.Meal
	hit, err := cached(ctx, s, keyByArea+area, mealsTTL, &out, func() ([]outbound.Meal, error) {
		return s.meals.MealsByArea(ctx, area)
	})
	if err != nil {
		return nil, err
	}
	return hit, nil
}

// cached is a read-through helper. Cache failures are logged and bypassed;
// only the upstream fetch can fail the caller.
func cached[T any](ctx context.Context, s *CatalogService, key string, ttl time.Duration, into *T, fetch func() (T, error)) (T, error) {
	if data, err := s.cache.Get(ctx, key); err == nil && data != nil {
		if err := json.Unmarshal(data, into); err == nil {
			return *into, nil
		}
		s.logger.Warn("Discarding corrupt cache entry", zap.String("key", key))
	}

	fresh, err := fetch()
	if err != nil {
		var zero T
		return zero, errors.NewExternalServiceError("Failed to load meals", err)
	}

	if data, err := json.Marshal(fresh); err == nil {
		if err := s.cache.Set(ctx, key, data, ttl); err != nil {
			s.logger.Warn("Failed to cache catalog response", zap.String("key", key), zap.Error(err))
		}
	}
	return fresh, nil
}
