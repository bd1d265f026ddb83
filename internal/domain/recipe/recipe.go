// Package recipe contains the core domain types for recipe resolution:
// the canonical title form, the closed category/cuisine enums, and the
// shapes of both stored recipes and raw model output.
package recipe

import (
	"strings"
	"time"
	"unicode"
)

// Category is the closed meal-category enum. Values outside the set
// fall back to CategoryDinner.
type Category string

const (
	CategoryBreakfast Category = "breakfast"
	CategoryLunch     Category = "lunch"
	CategoryDinner    Category = "dinner"
	CategorySnack     Category = "snack"
	CategoryDessert   Category = "dessert"
)

var validCategories = map[Category]bool{
	CategoryBreakfast: true,
	CategoryLunch:     true,
	CategoryDinner:    true,
	CategorySnack:     true,
	CategoryDessert:   true,
}

// ParseCategory maps a model-supplied category onto the closed enum,
// case-insensitively, defaulting to dinner.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if validCategories[c] {
		return c
	}
	return CategoryDinner
}

// Cuisine is the closed cuisine enum. Values outside the set fall back
// to CuisineOther.
type Cuisine string

const (
	CuisineItalian       Cuisine = "italian"
	CuisineChinese       Cuisine = "chinese"
	CuisineMexican       Cuisine = "mexican"
	CuisineIndian        Cuisine = "indian"
	CuisineAmerican      Cuisine = "american"
	CuisineThai          Cuisine = "thai"
	CuisineJapanese      Cuisine = "japanese"
	CuisineMediterranean Cuisine = "mediterranean"
	CuisineFrench        Cuisine = "french"
	CuisineKorean        Cuisine = "korean"
	CuisineVietnamese    Cuisine = "vietnamese"
	CuisineSpanish       Cuisine = "spanish"
	CuisineGreek         Cuisine = "greek"
	CuisineTurkish       Cuisine = "turkish"
	CuisineMoroccan      Cuisine = "moroccan"
	CuisineBrazilian     Cuisine = "brazilian"
	CuisineCaribbean     Cuisine = "caribbean"
	CuisineMiddleEastern Cuisine = "middle-eastern"
	CuisineBritish       Cuisine = "british"
	CuisineGerman        Cuisine = "german"
	CuisinePortuguese    Cuisine = "portuguese"
	CuisineOther         Cuisine = "other"
)

var validCuisines = map[Cuisine]bool{
	CuisineItalian: true, CuisineChinese: true, CuisineMexican: true,
	CuisineIndian: true, CuisineAmerican: true, CuisineThai: true,
	CuisineJapanese: true, CuisineMediterranean: true, CuisineFrench: true,
	CuisineKorean: true, CuisineVietnamese: true, CuisineSpanish: true,
	CuisineGreek: true, CuisineTurkish: true, CuisineMoroccan: true,
	CuisineBrazilian: true, CuisineCaribbean: true, CuisineMiddleEastern: true,
	CuisineBritish: true, CuisineGerman: true, CuisinePortuguese: true,
	CuisineOther: true,
}

// ParseCuisine maps a model-supplied cuisine onto the closed enum,
// case-insensitively, defaulting to other.
func ParseCuisine(s string) Cuisine {
	c := Cuisine(strings.ToLower(strings.TrimSpace(s)))
	if validCuisines[c] {
		return c
	}
	return CuisineOther
}

// NormalizeTitle produces the canonical title form used as the sole lookup
// key: trim, split on single spaces, capitalize the first rune of each token
// and lowercase the remainder, rejoin with single spaces. Empty tokens from
// interior whitespace runs survive the split-join untouched, so interior
// runs are preserved.
func NormalizeTitle(raw string) string {
	words := strings.Split(strings.TrimSpace(raw), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(w)
		words[i] = string(unicode.ToUpper(runes[0])) + strings.ToLower(string(runes[1:]))
	}
	return strings.Join(words, " ")
}

// Ingredient is one structured ingredient entry
type Ingredient struct {
	Item     string `json:"item"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
}

// InstructionStep is one structured instruction entry
type InstructionStep struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Instruction string `json:"instruction"`
	Tip         string `json:"tip,omitempty"`
}

// Nutrition holds per-serving nutrition display strings
type Nutrition struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// Substitution maps an ingredient to its alternatives
type Substitution struct {
	Original     string   `json:"original"`
	Alternatives []string `json:"alternatives"`
}

// Recipe is a persisted recipe record. Identifiers are opaque strings
// assigned by the content store. Recipes are immutable once created except
// for re-association through saved-recipe links.
type Recipe struct {
	ID            string            `json:"id,omitempty"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Category      Category          `json:"category"`
	Cuisine       Cuisine           `json:"cuisine"`
	PrepTime      int               `json:"prepTime"`
	CookTime      int               `json:"cookTime"`
	Servings      int               `json:"servings"`
	Ingredients   []Ingredient      `json:"ingredients"`
	Instructions  []InstructionStep `json:"instructions"`
	Nutrition     Nutrition         `json:"nutrition"`
	Tips          []string          `json:"tips"`
	Substitutions []Substitution    `json:"substitutions"`
	ImageURL      string            `json:"imageUrl"`
	IsPublic      bool              `json:"isPublic"`
	AuthorID      string            `json:"author,omitempty"`
	CreatedAt     time.Time         `json:"createdAt,omitempty"`
}
