// Package pantry provides the application layer for pantry management:
// vision-model scanning, batch commit of scan results, and manual CRUD.
package pantry

import (
	"context"
	"fmt"
	"strings"

	"github.com/pantrychef/v2/internal/domain/pantry"
	"github.com/pantrychef/v2/internal/domain/user"
	"github.com/pantrychef/v2/internal/ports/inbound"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"github.com/pantrychef/v2/pkg/errors"
	"go.uber.org/zap"
)

// FreeScanLimit is the monthly scan cap surfaced to free users
const FreeScanLimit = 10

// PantryService implements the pantry use cases
type PantryService struct {
	items  outbound.PantryStore
	vision outbound.VisionModel
	quota  outbound.QuotaGate
	logger *zap.Logger
}

// NewPantryService creates a new pantry service
func NewPantryService(
	items outbound.PantryStore,
	vision outbound.VisionModel,
	quota outbound.QuotaGate,
	logger *zap.Logger,
) inbound.PantryService {
	return &PantryService{
		items:  items,
		vision: vision,
		quota:  quota,
		logger: logger.Named("pantry-service"),
	}
}

const scanPrompt = `
You are a professional chef and ingredient recognition expert. Analyze this image of a pantry/fridge and identify all visible food ingredients.

Return ONLY a valid JSON array with this exact structure (no markdown, no explanations):
[
  {
    "name": "ingredient name",
    "quantity": "estimated quantity with unit",
    "confidence": 0.95
  }
]

Rules:
- Only identify food ingredients (not containers, utensils, or packaging)
- Be specific (e.g., "Cheddar Cheese" not just "Cheese")
- Estimate realistic quantities (e.g., "3 eggs", "1 cup milk", "2 tomatoes")
- Confidence should be 0.7-1.0 (omit items below 0.7)
- Maximum 20 items
- Common pantry staples are acceptable (salt, pepper, oil)
`

// Scan runs the ingestion pipeline: quota gate, vision model, parse,
// truncate. The guesses are ephemeral; nothing is persisted until Commit.
// The gate runs before the vision call so a denied scan costs nothing.
func (s *PantryService) Scan(ctx context.Context, usr *user.User, image []byte, mimeType string) (*inbound.ScanOutcome, error) {
	if usr == nil {
		return nil, errors.NewUnauthorizedError("")
	}
	if len(image) == 0 {
		return nil, errors.NewValidationError("No image provided")
	}

	decision, err := s.quota.Check(ctx, usr.SubjectID, usr.Tier, outbound.ClassPantryScan)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to check usage limits", err)
	}
	if !decision.Allowed {
		return nil, s.denyError(decision, usr.IsPro())
	}

	text, err := s.vision.Describe(ctx, scanPrompt, image, mimeType)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to scan image", err)
	}

	guesses, err := pantry.ParseGuesses(text)
	if err != nil {
		s.logger.Error("Unparseable vision response", zap.Error(err))
		if err == pantry.ErrNoIngredients {
			return nil, errors.NewModelOutputError("No ingredients detected in the image. Please try a clearer photo.", err)
		}
		return nil, errors.NewModelOutputError("Failed to parse ingredients. Please try again.", err)
	}

	// The message reports everything the model found, even when the
	// returned list is capped.
	found := len(guesses)
	if found > pantry.MaxScanItems {
		guesses = guesses[:pantry.MaxScanItems]
	}

	s.logger.Info("Scan complete", zap.Int("ingredients", found))

	return &inbound.ScanOutcome{
		Success:     true,
		Ingredients: guesses,
		ScansLimit:  scansLabel(usr),
		Message:     fmt.Sprintf("Found %d ingredients!", found),
	}, nil
}

// Commit persists a reviewed guess list. Each item is created independently:
// one failure never aborts the batch, and the result records which items
// could not be stored.
func (s *PantryService) Commit(ctx context.Context, usr *user.User, guesses []pantry.Guess) (*inbound.CommitResult, error) {
	if usr == nil {
		return nil, errors.NewUnauthorizedError("")
	}
	if len(guesses) == 0 {
		return nil, errors.NewValidationError("No ingredients to save")
	}

	saved := make([]*pantry.Item, 0, len(guesses))
	var failed []inbound.CommitFailure
	for _, g := range guesses {
		item, err := s.items.Create(ctx, &pantry.Item{
			OwnerID:  usr.ID,
			Name:     g.Name,
			Quantity: g.Quantity,
			ImageURL: "",
		})
		if err != nil {
			s.logger.Warn("Failed to save pantry item",
				zap.String("name", g.Name),
				zap.Error(err),
			)
			failed = append(failed, inbound.CommitFailure{Name: g.Name, Reason: err.Error()})
			continue
		}
		saved = append(saved, item)
	}

	return &inbound.CommitResult{
		Success:    true,
		SavedItems: saved,
		Failed:     failed,
		Message:    fmt.Sprintf("Saved %d items to your pantry!", len(saved)),
	}, nil
}

// Add creates a single pantry item from manual input
func (s *PantryService) Add(ctx context.Context, usr *user.User, name, quantity string) (*pantry.Item, error) {
	if usr == nil {
		return nil, errors.NewUnauthorizedError("")
	}
	name = strings.TrimSpace(name)
	quantity = strings.TrimSpace(quantity)
	if name == "" || quantity == "" {
		return nil, errors.NewValidationError("Name and quantity are required")
	}

	item, err := s.items.Create(ctx, &pantry.Item{
		OwnerID:  usr.ID,
		Name:     name,
		Quantity: quantity,
		ImageURL: "",
	})
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to add item to pantry", err)
	}
	return item, nil
}

// List returns the user's pantry, newest first
func (s *PantryService) List(ctx context.Context, usr *user.User) (*inbound.PantryList, error) {
	if usr == nil {
		return nil, errors.NewUnauthorizedError("")
	}

	items, err := s.items.ListByOwner(ctx, usr.ID)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to fetch pantry items", err)
	}
	if items == nil {
		items = []*pantry.Item{}
	}

	return &inbound.PantryList{
		Success:    true,
		Items:      items,
		ScansLimit: scansLabel(usr),
	}, nil
}

// Update changes an item's name and quantity
func (s *PantryService) Update(ctx context.Context, usr *user.User, itemID, name, quantity string) (*pantry.Item, error) {
	if usr == nil {
		return nil, errors.NewUnauthorizedError("")
	}
	if itemID == "" {
		return nil, errors.NewValidationError("Item ID is required")
	}

	item, err := s.items.Update(ctx, itemID, name, quantity)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to update item", err)
	}
	return item, nil
}

// Delete removes an item from the pantry
func (s *PantryService) Delete(ctx context.Context, usr *user.User, itemID string) error {
	if usr == nil {
		return errors.NewUnauthorizedError("")
	}
	if itemID == "" {
		return errors.NewValidationError("Item ID is required")
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		return errors.NewExternalServiceError("Failed to delete item", err)
	}
	return nil
}

func (s *PantryService) denyError(d outbound.Decision, isPro bool) error {
	if d.Reason == outbound.DenyRateLimit {
		if isPro {
			return errors.NewQuotaExceededError("Monthly scan limit reached. Please contact support if you need more scans.")
		}
		return errors.NewQuotaExceededError("Monthly scan limit reached. Upgrade to Pro for unlimited scans!")
	}
	return errors.NewForbiddenError("Request denied by security system")
}

func scansLabel(usr *user.User) string {
	if usr.IsPro() {
		return "unlimited"
	}
	return fmt.Sprintf("%d", FreeScanLimit)
}
