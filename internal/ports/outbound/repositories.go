// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/pantrychef/v2/internal/domain/pantry"
	"github.com/pantrychef/v2/internal/domain/recipe"
	"github.com/pantrychef/v2/internal/domain/user"
)

// UserStore defines the interface for user persistence in the external
// content backend. FindBySubject returns (nil, nil) when no user exists for
// the subject, so callers can distinguish a miss from a store failure.
type UserStore interface {
	FindBySubject(ctx context.Context, subjectID string) (*user.User, error)
	Create(ctx context.Context, u *user.User) (*user.User, error)
	UpdateTier(ctx context.Context, id string, tier user.Tier) error

	// DefaultRoleID resolves the content backend's authenticated role,
	// required when provisioning a new user.
	DefaultRoleID(ctx context.Context) (int, error)
}

// RecipeStore defines the interface for recipe persistence
type RecipeStore interface {
	// FindByTitle performs a case-insensitive exact-title lookup and returns
	// the first match, or (nil, nil) when no recipe carries the title.
	FindByTitle(ctx context.Context, title string) (*recipe.Recipe, error)
	Create(ctx context.Context, r *recipe.Recipe) (*recipe.Recipe, error)
}

// SavedRecipeStore manages the user-to-recipe saved links
type SavedRecipeStore interface {
	// Find returns the link id for (userID, recipeID), or "" when the pair
	// is not linked.
	Find(ctx context.Context, userID, recipeID string) (string, error)
	Create(ctx context.Context, userID, recipeID string, savedAt time.Time) error
	Delete(ctx context.Context, linkID string) error
	ListByUser(ctx context.Context, userID string) ([]*recipe.Recipe, error)
}

// PantryStore manages persisted pantry items
type PantryStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*pantry.Item, error)
	Create(ctx context.Context, item *pantry.Item) (*pantry.Item, error)
	Update(ctx context.Context, id string, name, quantity string) (*pantry.Item, error)
	Delete(ctx context.Context, id string) error
}

// TextModel defines the interface for hosted text generation
type TextModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VisionModel defines the interface for hosted image understanding
type VisionModel interface {
	Describe(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// ImageSearch finds a representative photo for a query. Implementations
// never fail the caller: any lookup problem yields "".
type ImageSearch interface {
	FindPhoto(ctx context.Context, query string) string
}

// OperationClass identifies a rate-limited operation family
type OperationClass string

const (
	ClassPantryScan           OperationClass = "pantry-scan"
	ClassRecipeRecommendation OperationClass = "recipe-recommendation"
)

// Decision is the outcome of a quota check. Reason distinguishes bucket
// exhaustion from policy denial for tier-aware messaging.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Limit   int
}

// DenyReason classifies why a request was denied
type DenyReason string

const (
	DenyNone      DenyReason = ""
	DenyRateLimit DenyReason = "rate_limit"
	DenyPolicy    DenyReason = "policy"
)

// QuotaGate consumes one unit from the shared per-user bucket for the given
// operation class. Bucket state lives only in the shared limiter backend.
type QuotaGate interface {
	Check(ctx context.Context, userKey string, tier user.Tier, class OperationClass) (Decision, error)
}

// Meal is a public catalog entry from the external meal database
type Meal struct {
	ID       string `json:"idMeal"`
	Name     string `json:"strMeal"`
	Thumb    string `json:"strMealThumb"`
	Category string `json:"strCategory,omitempty"`
	Area     string `json:"strArea,omitempty"`
}

// MealDetail is a full catalog entry including instructions
type MealDetail struct {
	Meal
	Instructions string `json:"strInstructions"`
	YoutubeURL   string `json:"strYoutube,omitempty"`
	SourceURL    string `json:"strSource,omitempty"`
}

// MealCatalog defines the interface for the public meal database
type MealCatalog interface {
	RandomMeal(ctx context.Context) (*MealDetail, error)
	Categories(ctx context.Context) ([]string, error)
	Areas(ctx context.Context) ([]string, error)
	MealsByCategory(ctx context.Context, category string) ([]Meal, error)
	MealsByArea(ctx context.Context, area string) ([]Meal, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
