// Package recipe provides the application layer for recipe discovery:
// the find-or-generate resolution protocol, the saved-recipe collection,
// and pantry-driven suggestions.
package recipe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pantrychef/v2/internal/domain/recipe"
	"github.com/pantrychef/v2/internal/domain/user"
	"github.com/pantrychef/v2/internal/ports/inbound"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"github.com/pantrychef/v2/pkg/errors"
	"go.uber.org/zap"
)

// FreeRecommendationLimit is the monthly suggestion cap surfaced to free users
const FreeRecommendationLimit = 5

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipes     outbound.RecipeStore
	saved       outbound.SavedRecipeStore
	pantryItems outbound.PantryStore
	textModel   outbound.TextModel
	images      outbound.ImageSearch
	quota       outbound.QuotaGate
	logger      *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipes outbound.RecipeStore,
	saved outbound.SavedRecipeStore,
	pantryItems outbound.PantryStore,
	textModel outbound.TextModel,
	images outbound.ImageSearch,
	quota outbound.QuotaGate,
	logger *zap.Logger,
) inbound.RecipeService {
	return &RecipeService{
		recipes:     recipes,
		saved:       saved,
		pantryItems: pantryItems,
		textModel:   textModel,
		images:      images,
		quota:       quota,
		logger:      logger.Named("recipe-service"),
	}
}

// Resolve runs the find-or-generate protocol: normalize the title, look for
// an existing recipe under the normalized form, and only on a miss generate,
// sanitize, enrich, and persist a new public recipe.
func (s *RecipeService) Resolve(ctx context.Context, usr *user.User, rawTitle string) (*inbound.Resolution, error) {
	if usr == nil {
		return nil, errors.NewUnauthorizedError("")
	}
	if strings.TrimSpace(rawTitle) == "" {
		return nil, errors.NewValidationError("Recipe name is required")
	}

	title := recipe.NormalizeTitle(rawTitle)
	s.logger.Info("Resolving recipe", zap.String("title", title))

	existing, err := s.recipes.FindByTitle(ctx, title)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to search recipes", err)
	}

	if existing != nil {
		isSaved, err := s.isSaved(ctx, usr.ID, existing.ID)
		if err != nil {
			// Saved-state is decoration on a hit; degrade to unsaved.
			s.logger.Warn("Failed to check saved state", zap.Error(err))
			isSaved = false
		}
		return &inbound.Resolution{
			Success:      true,
			Recipe:       existing,
			RecipeID:     existing.ID,
			IsSaved:      isSaved,
			FromDatabase: true,
			IsPro:        usr.IsPro(),
			Message:      "Recipe loaded from database",
		}, nil
	}

	s.logger.Info("Recipe not found, generating", zap.String("title", title))

	text, err := s.textModel.Generate(ctx, generationPrompt(title))
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to generate recipe. Please try again.", err)
	}

	generated, err := recipe.ParseGenerated(text)
	if err != nil {
		s.logger.Error("Unparseable model response", zap.Error(err))
		return nil, errors.NewModelOutputError("Failed to generate recipe. Please try again.", err)
	}

	candidate := generated.Sanitize(title)
	candidate.ImageURL = s.images.FindPhoto(ctx, title)
	candidate.AuthorID = usr.ID

	created, err := s.recipes.Create(ctx, candidate)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to save recipe to database", err)
	}

	return &inbound.Resolution{
		Success:              true,
		Recipe:               created,
		RecipeID:             created.ID,
		IsSaved:              false,
		FromDatabase:         false,
		IsPro:                usr.IsPro(),
		RecommendationsLimit: limitLabel(usr),
		Message:              "Recipe generated and saved successfully!",
	}, nil
}

// Save bookmarks a recipe into the user's collection. Saving an already
// saved recipe is a no-op reported as alreadySaved.
func (s *RecipeService) Save(ctx context.Context, usr *user.User, recipeID string) (*inbound.SaveResult, error) {
	if usr == nil {
		return nil, errors.NewUnauthorizedError("")
	}
	if recipeID == "" {
		return nil, errors.NewValidationError("Recipe ID is required")
	}

	linkID, err := s.saved.Find(ctx, usr.ID, recipeID)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to save recipe to collection", err)
	}
	if linkID != "" {
		return &inbound.SaveResult{
			Success:      true,
			AlreadySaved: true,
			Message:      "Recipe is already in your collection",
		}, nil
	}

	if err := s.saved.Create(ctx, usr.ID, recipeID, time.Now().UTC()); err != nil {
		return nil, errors.NewExternalServiceError("Failed to save recipe to collection", err)
	}

	return &inbound.SaveResult{
		Success: true,
		Message: "Recipe saved to your collection!",
	}, nil
}

// Unsave removes a recipe from the user's collection. Removing a recipe
// that was never saved still succeeds.
func (s *RecipeService) Unsave(ctx context.Context, usr *user.User, recipeID string) (*inbound.UnsaveResult, error) {
	if usr == nil {
		return nil, errors.NewUnauthorizedError("")
	}
	if recipeID == "" {
		return nil, errors.NewValidationError("Recipe ID is required")
	}

	linkID, err := s.saved.Find(ctx, usr.ID, recipeID)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to find saved recipe", err)
	}
	if linkID == "" {
		return &inbound.UnsaveResult{
			Success: true,
			Message: "Recipe was not in your collection",
		}, nil
	}

	if err := s.saved.Delete(ctx, linkID); err != nil {
		return nil, errors.NewExternalServiceError("Failed to remove recipe from collection", err)
	}

	return &inbound.UnsaveResult{
		Success: true,
		Message: "Recipe removed from your collection",
	}, nil
}

// SavedRecipes lists the user's collection, newest save first. Links whose
// recipe was deleted are dropped silently.
func (s *RecipeService) SavedRecipes(ctx context.Context, usr *user.User) (*inbound.SavedList, error) {
	if usr == nil {
		return nil, errors.NewUnauthorizedError("")
	}

	recipes, err := s.saved.ListByUser(ctx, usr.ID)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to fetch saved recipes", err)
	}

	return &inbound.SavedList{
		Success: true,
		Recipes: recipes,
		Count:   len(recipes),
	}, nil
}

// SuggestFromPantry asks the text model for recipes makeable from the user's
// pantry. An empty pantry fails fast before the quota gate, so browsing an
// empty pantry never consumes quota. Suggestions are never persisted.
func (s *RecipeService) SuggestFromPantry(ctx context.Context, usr *user.User) (*inbound.SuggestionList, error) {
	if usr == nil {
		return nil, errors.NewUnauthorizedError("")
	}

	items, err := s.pantryItems.ListByOwner(ctx, usr.ID)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to fetch pantry items", err)
	}
	if len(items) == 0 {
		return &inbound.SuggestionList{
			Success: false,
			Message: "Your pantry is empty. Add ingredients first!",
		}, nil
	}

	decision, err := s.quota.Check(ctx, usr.SubjectID, usr.Tier, outbound.ClassRecipeRecommendation)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to check usage limits", err)
	}
	if !decision.Allowed {
		return nil, denyError(decision, usr.IsPro(),
			"Monthly AI recipe limit reached. Upgrade to Pro!",
			"Monthly AI recipe limit reached. Please contact support.")
	}

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	ingredients := strings.Join(names, ", ")

	s.logger.Info("Requesting suggestions", zap.Int("pantry_items", len(items)))

	text, err := s.textModel.Generate(ctx, suggestionPrompt(ingredients))
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to generate recipe suggestions. Please try again.", err)
	}

	suggestions, err := recipe.ParseSuggestions(text)
	if err != nil {
		s.logger.Error("Unparseable model response", zap.Error(err))
		return nil, errors.NewModelOutputError("Failed to generate recipe suggestions. Please try again.", err)
	}

	return &inbound.SuggestionList{
		Success:              true,
		Recipes:              suggestions,
		IngredientsUsed:      ingredients,
		RecommendationsLimit: limitLabel(usr),
		Message:              fmt.Sprintf("Found %d recipes you can make!", len(suggestions)),
	}, nil
}

func (s *RecipeService) isSaved(ctx context.Context, userID, recipeID string) (bool, error) {
	linkID, err := s.saved.Find(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}
	return linkID != "", nil
}

func limitLabel(usr *user.User) string {
	if usr.IsPro() {
		return "unlimited"
	}
	return fmt.Sprintf("%d", FreeRecommendationLimit)
}

// denyError maps a limiter denial onto the error taxonomy: rate-limit
// exhaustion gets the tier-aware quota message, any other denial reason is
// a policy rejection.
func denyError(d outbound.Decision, isPro bool, freeMsg, proMsg string) error {
	if d.Reason == outbound.DenyRateLimit {
		msg := freeMsg
		if isPro {
			msg = proMsg
		}
		return errors.NewQuotaExceededError(msg)
	}
	return errors.NewForbiddenError("Request denied")
}
