package recipe

import (
	"encoding/json"
	"errors"

	"github.com/pantrychef/v2/internal/domain/modelout"
)

// Generated is the raw recipe shape the text model is instructed to emit.
// Numeric fields tolerate string or number encoding; everything else is
// trusted as-is per the boundary contract.
type Generated struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Category      string            `json:"category"`
	Cuisine       string            `json:"cuisine"`
	PrepTime      modelout.FlexInt  `json:"prepTime"`
	CookTime      modelout.FlexInt  `json:"cookTime"`
	Servings      modelout.FlexInt  `json:"servings"`
	Ingredients   []Ingredient      `json:"ingredients"`
	Instructions  []InstructionStep `json:"instructions"`
	Nutrition     Nutrition         `json:"nutrition"`
	Tips          []string          `json:"tips"`
	Substitutions []Substitution    `json:"substitutions"`
}

// ParseGenerated strips code-fence markup and decodes the model's recipe
// JSON. It does not retry and does not attempt repair.
func ParseGenerated(text string) (*Generated, error) {
	clean := modelout.StripCodeFences(text)
	var g Generated
	if err := json.Unmarshal([]byte(clean), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Sanitize applies the only server-side content validation performed on
// generated recipes: the title is forced back to the normalized form the
// caller asked for, and category/cuisine are clamped onto their closed
// enums. Ingredient and instruction shapes pass through untouched.
func (g *Generated) Sanitize(normalizedTitle string) *Recipe {
	return &Recipe{
		Title:         normalizedTitle,
		Description:   g.Description,
		Category:      ParseCategory(g.Category),
		Cuisine:       ParseCuisine(g.Cuisine),
		PrepTime:      g.PrepTime.Int(),
		CookTime:      g.CookTime.Int(),
		Servings:      g.Servings.Int(),
		Ingredients:   g.Ingredients,
		Instructions:  g.Instructions,
		Nutrition:     g.Nutrition,
		Tips:          g.Tips,
		Substitutions: g.Substitutions,
		IsPublic:      true,
	}
}

// Suggestion is one pantry-based recipe suggestion from the text model.
// Ordering and match range are trusted as returned; nothing is re-sorted
// or re-validated locally.
type Suggestion struct {
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	MatchPercentage    int              `json:"matchPercentage"`
	MissingIngredients []string         `json:"missingIngredients"`
	Category           string           `json:"category"`
	Cuisine            string           `json:"cuisine"`
	PrepTime           modelout.FlexInt `json:"prepTime"`
	CookTime           modelout.FlexInt `json:"cookTime"`
	Servings           modelout.FlexInt `json:"servings"`
}

// ErrNoSuggestions indicates the model returned an empty or non-list payload
var ErrNoSuggestions = errors.New("no suggestions in model response")

// ParseSuggestions strips code-fence markup and decodes the model's
// suggestion array.
func ParseSuggestions(text string) ([]Suggestion, error) {
	clean := modelout.StripCodeFences(text)
	var out []Suggestion
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoSuggestions
	}
	return out, nil
}
