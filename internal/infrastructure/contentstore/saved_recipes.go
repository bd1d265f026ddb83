package contentstore

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pantrychef/v2/internal/domain/recipe"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// SavedRecipeStore implements outbound.SavedRecipeStore against the
// content backend's saved-recipes collection (user-to-recipe links).
type SavedRecipeStore struct {
	client *Client
	logger *zap.Logger
}

// NewSavedRecipeStore creates a new saved recipe store
func NewSavedRecipeStore(client *Client, logger *zap.Logger) outbound.SavedRecipeStore {
	return &SavedRecipeStore{
		client: client,
		logger: logger.Named("saved-recipe-store"),
	}
}

// Find returns the link id for (userID, recipeID), or "" when unlinked
func (s *SavedRecipeStore) Find(ctx context.Context, userID, recipeID string) (string, error) {
	path := "/api/saved-recipes?filters[user][id][$eq]=" + url.QueryEscape(userID) +
		"&filters[recipe][id][$eq]=" + url.QueryEscape(recipeID)

	var out struct {
		Data []struct {
			ID int `json:"id"`
		} `json:"data"`
	}
	if err := s.client.do(ctx, "GET", path, nil, &out); err != nil {
		return "", err
	}
	if len(out.Data) == 0 {
		return "", nil
	}
	return strconv.Itoa(out.Data[0].ID), nil
}

// Create links a recipe into the user's collection
func (s *SavedRecipeStore) Create(ctx context.Context, userID, recipeID string, savedAt time.Time) error {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"user":    userID,
			"recipe":  recipeID,
			"savedAt": savedAt.Format(time.RFC3339),
		},
	}
	return s.client.do(ctx, "POST", "/api/saved-recipes", payload, nil)
}

// Delete removes a saved-recipe link by its own id
func (s *SavedRecipeStore) Delete(ctx context.Context, linkID string) error {
	return s.client.do(ctx, "DELETE", "/api/saved-recipes/"+url.PathEscape(linkID), nil, nil)
}

// ListByUser returns the recipes in the user's collection, newest save
// first. Links whose recipe was deleted come back with a null recipe and
// are dropped.
func (s *SavedRecipeStore) ListByUser(ctx context.Context, userID string) ([]*recipe.Recipe, error) {
	path := "/api/saved-recipes?filters[user][id][$eq]=" + url.QueryEscape(userID) +
		"&populate[recipe][populate]=*&sort=savedAt:desc"

	var out struct {
		Data []struct {
			ID     int         `json:"id"`
			Recipe *wireRecipe `json:"recipe"`
		} `json:"data"`
	}
	if err := s.client.do(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}

	recipes := make([]*recipe.Recipe, 0, len(out.Data))
	for _, link := range out.Data {
		if link.Recipe == nil {
			continue
		}
		recipes = append(recipes, link.Recipe.toDomain())
	}
	return recipes, nil
}
