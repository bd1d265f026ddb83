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

// RecipeStore implements outbound.RecipeStore against the content backend
type RecipeStore struct {
	client *Client
	logger *zap.Logger
}

// NewRecipeStore creates a new recipe store
func NewRecipeStore(client *Client, logger *zap.Logger) outbound.RecipeStore {
	return &RecipeStore{
		client: client,
		logger: logger.Named("recipe-store"),
	}
}

type wireRecipe struct {
	ID            int                      `json:"id"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	Category      string                   `json:"category"`
	Cuisine       string                   `json:"cuisine"`
	PrepTime      int                      `json:"prepTime"`
	CookTime      int                      `json:"cookTime"`
	Servings      int                      `json:"servings"`
	Ingredients   []recipe.Ingredient      `json:"ingredients"`
	Instructions  []recipe.InstructionStep `json:"instructions"`
	Nutrition     recipe.Nutrition         `json:"nutrition"`
	Tips          []string                 `json:"tips"`
	Substitutions []recipe.Substitution    `json:"substitutions"`
	ImageURL      string                   `json:"imageUrl"`
	IsPublic      bool                     `json:"isPublic"`
	CreatedAt     time.Time                `json:"createdAt"`
}

func (w *wireRecipe) toDomain() *recipe.Recipe {
	return &recipe.Recipe{
		ID:            strconv.Itoa(w.ID),
		Title:         w.Title,
		Description:   w.Description,
		Category:      recipe.Category(w.Category),
		Cuisine:       recipe.Cuisine(w.Cuisine),
		PrepTime:      w.PrepTime,
		CookTime:      w.CookTime,
		Servings:      w.Servings,
		Ingredients:   w.Ingredients,
		Instructions:  w.Instructions,
		Nutrition:     w.Nutrition,
		Tips:          w.Tips,
		Substitutions: w.Substitutions,
		ImageURL:      w.ImageURL,
		IsPublic:      w.IsPublic,
		CreatedAt:     w.CreatedAt,
	}
}

// FindByTitle performs a case-insensitive exact-title lookup. The first
// match wins; duplicate titles from generation races are left untouched.
func (s *RecipeStore) FindByTitle(ctx context.Context, title string) (*recipe.Recipe, error) {
	path := "/api/recipes?filters[title][$eqi]=" + url.QueryEscape(title) + "&populate=*"

	var out struct {
		Data []wireRecipe `json:"data"`
	}
	if err := s.client.do(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	return out.Data[0].toDomain(), nil
}

// Create persists a new public recipe and returns it with its assigned id
func (s *RecipeStore) Create(ctx context.Context, r *recipe.Recipe) (*recipe.Recipe, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"title":         r.Title,
			"description":   r.Description,
			"category":      string(r.Category),
			"cuisine":       string(r.Cuisine),
			"prepTime":      r.PrepTime,
			"cookTime":      r.CookTime,
			"servings":      r.Servings,
			"ingredients":   r.Ingredients,
			"instructions":  r.Instructions,
			"nutrition":     r.Nutrition,
			"tips":          r.Tips,
			"substitutions": r.Substitutions,
			"imageUrl":      r.ImageURL,
			"isPublic":      r.IsPublic,
			"author":        r.AuthorID,
		},
	}

	var out struct {
		Data wireRecipe `json:"data"`
	}
	if err := s.client.do(ctx, "POST", "/api/recipes", payload, &out); err != nil {
		return nil, err
	}

	s.logger.Info("Recipe persisted",
		zap.Int("id", out.Data.ID),
		zap.String("title", r.Title),
	)

	created := out.Data.toDomain()
	created.AuthorID = r.AuthorID
	return created, nil
}
