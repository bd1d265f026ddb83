// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/pantrychef/v2/internal/domain/pantry"
	"github.com/pantrychef/v2/internal/domain/recipe"
	"github.com/pantrychef/v2/internal/domain/user"
	"github.com/pantrychef/v2/internal/ports/outbound"
)

// IdentityService resolves verified sessions into provisioned users
type IdentityService interface {
	// Resolve returns the application user for the session, provisioning one
	// on first contact. A nil session is an unauthorized error.
	Resolve(ctx context.Context, session *user.Session) (*user.User, error)
}

// RecipeService defines the recipe discovery use cases
type RecipeService interface {
	Resolve(ctx context.Context, usr *user.User, rawTitle string) (*Resolution, error)
	Save(ctx context.Context, usr *user.User, recipeID string) (*SaveResult, error)
	Unsave(ctx context.Context, usr *user.User, recipeID string) (*UnsaveResult, error)
	SavedRecipes(ctx context.Context, usr *user.User) (*SavedList, error)
	SuggestFromPantry(ctx context.Context, usr *user.User) (*SuggestionList, error)
}

// PantryService defines the pantry management use cases
type PantryService interface {
	Scan(ctx context.Context, usr *user.User, image []byte, mimeType string) (*ScanOutcome, error)
	Commit(ctx context.Context, usr *user.User, guesses []pantry.Guess) (*CommitResult, error)
	Add(ctx context.Context, usr *user.User, name, quantity string) (*pantry.Item, error)
	List(ctx context.Context, usr *user.User) (*PantryList, error)
	Update(ctx context.Context, usr *user.User, itemID, name, quantity string) (*pantry.Item, error)
	Delete(ctx context.Context, usr *user.User, itemID string) error
}

// CatalogService defines the public meal catalog use cases
type CatalogService interface {
	RecipeOfTheDay(ctx context.Context) (*outbound.MealDetail, error)
	Categories(ctx context.Context) ([]string, error)
	Areas(ctx context.Context) ([]string, error)
	MealsByCategory(ctx context.Context, category string) ([]outbound.Meal, error)
	MealsByArea(ctx context.Context, area string) ([]outbound.Meal, error)
}

// Resolution is the outcome of the find-or-generate protocol.
// RecommendationsLimit is "unlimited" for pro, the numeric free cap otherwise.
type Resolution struct {
	Success              bool           `json:"success"`
	Recipe               *recipe.Recipe `json:"recipe"`
	RecipeID             string         `json:"recipeId"`
	IsSaved              bool           `json:"isSaved"`
	FromDatabase         bool           `json:"fromDatabase"`
	IsPro                bool           `json:"isPro"`
	RecommendationsLimit string         `json:"recommendationsLimit,omitempty"`
	Message              string         `json:"message"`
}

// SaveResult is the outcome of a save-to-collection request
type SaveResult struct {
	Success      bool   `json:"success"`
	AlreadySaved bool   `json:"alreadySaved"`
	Message      string `json:"message"`
}

// UnsaveResult is the outcome of a remove-from-collection request
type UnsaveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SavedList is the user's saved-recipe collection, newest first
type SavedList struct {
	Success bool             `json:"success"`
	Recipes []*recipe.Recipe `json:"recipes"`
	Count   int              `json:"count"`
}

// SuggestionList is the pantry-driven suggestion response. Nothing in it is
// persisted. Success is false with a message when the pantry is empty.
type SuggestionList struct {
	Success              bool                `json:"success"`
	Recipes              []recipe.Suggestion `json:"recipes,omitempty"`
	IngredientsUsed      string              `json:"ingredientsUsed,omitempty"`
	RecommendationsLimit string              `json:"recommendationsLimit,omitempty"`
	Message              string              `json:"message"`
}

// ScanOutcome carries the ephemeral guesses from one vision scan
type ScanOutcome struct {
	Success     bool           `json:"success"`
	Ingredients []pantry.Guess `json:"ingredients"`
	ScansLimit  string         `json:"scansLimit"`
	Message     string         `json:"message"`
}

// CommitFailure records one item that could not be persisted during a batch
// commit. The batch itself still succeeds.
type CommitFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// CommitResult is the outcome of a batch pantry commit
type CommitResult struct {
	Success    bool            `json:"success"`
	SavedItems []*pantry.Item  `json:"savedItems"`
	Failed     []CommitFailure `json:"failed,omitempty"`
	Message    string          `json:"message"`
}

// PantryList is the user's pantry, newest first
type PantryList struct {
	Success    bool           `json:"success"`
	Items      []*pantry.Item `json:"items"`
	ScansLimit string         `json:"scansLimit"`
}
