// Package pantry contains the domain types for pantry items and the
// ephemeral ingredient guesses produced by a vision-model scan.
package pantry

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/pantrychef/v2/internal/domain/modelout"
)

// MaxScanItems caps how many guesses a single scan may yield
const MaxScanItems = 20

// MinConfidence is the confidence floor the vision model is instructed to
// apply. Entries below it are expected to be omitted by the model itself;
// no local re-filtering happens beyond the count cap.
const MinConfidence = 0.7

// Item is a persisted pantry record owned by exactly one user
type Item struct {
	ID        string    `json:"id,omitempty"`
	OwnerID   string    `json:"owner,omitempty"`
	Name      string    `json:"name"`
	Quantity  string    `json:"quantity"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Guess is one vision-model ingredient guess. Guesses are ephemeral:
// they are never persisted until the user commits them.
type Guess struct {
	Name       string  `json:"name"`
	Quantity   string  `json:"quantity"`
	Confidence float64 `json:"confidence"`
}

// ErrNoIngredients indicates the scan produced an empty or non-list payload
var ErrNoIngredients = errors.New("no ingredients in model response")

// ParseGuesses strips code-fence markup and decodes the vision model's guess
// array. Empty or non-list responses are an error the caller surfaces as
// retryable. Truncation to MaxScanItems is left to the caller, which reports
// the full detected count alongside the capped list.
func ParseGuesses(text string) ([]Guess, error) {
	clean := modelout.StripCodeFences(text)
	var guesses []Guess
	if err := json.Unmarshal([]byte(clean), &guesses); err != nil {
		return nil, err
	}
	if len(guesses) == 0 {
		return nil, ErrNoIngredients
	}
	return guesses, nil
}
