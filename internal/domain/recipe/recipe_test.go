package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "apple cake", "Apple Cake"},
		{"uppercase", "APPLE CAKE", "Apple Cake"},
		{"mixed case", "aPpLe cAkE", "Apple Cake"},
		{"single word", "carbonara", "Carbonara"},
		{"leading and trailing space trimmed", "  apple pie  ", "Apple Pie"},
		{"interior runs preserved as empty tokens", "  apple   pie ", "Apple   Pie"},
		{"empty string", "", ""},
		{"unicode first rune", "éclair au chocolat", "Éclair Au Chocolat"},
		{"hyphenated word keeps later caps low", "Stir-Fry NOODLES", "Stir-fry Noodles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.input))
		})
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	inputs := []string{"apple cake", "  apple   pie ", "ÉCLAIR", "beef wellington"}
	for _, in := range inputs {
		once := NormalizeTitle(in)
		assert.Equal(t, once, NormalizeTitle(once), "normalizing %q twice changed the result", in)
	}
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryBreakfast, ParseCategory("breakfast"))
	assert.Equal(t, CategoryDessert, ParseCategory("DESSERT"))
	assert.Equal(t, CategorySnack, ParseCategory(" snack "))

	// Anything outside the closed enum falls back to dinner
	assert.Equal(t, CategoryDinner, ParseCategory("brunch"))
	assert.Equal(t, CategoryDinner, ParseCategory(""))
	assert.Equal(t, CategoryDinner, ParseCategory("supper"))
}

func TestParseCuisine(t *testing.T) {
	assert.Equal(t, CuisineItalian, ParseCuisine("italian"))
	assert.Equal(t, CuisineMiddleEastern, ParseCuisine("Middle-Eastern"))
	assert.Equal(t, CuisineKorean, ParseCuisine(" KOREAN "))

	// Anything outside the closed enum falls back to other
	assert.Equal(t, CuisineOther, ParseCuisine("fusion"))
	assert.Equal(t, CuisineOther, ParseCuisine(""))
	assert.Equal(t, CuisineOther, ParseCuisine("scandinavian"))
}

func TestParseGenerated(t *testing.T) {
	t.Run("fenced payload with string numerics", func(t *testing.T) {
		raw := "```json\n" + `{
			"title": "Something Else Entirely",
			"description": "A dish.",
			"category": "Brunch",
			"cuisine": "Fusion",
			"prepTime": "25",
			"cookTime": 40,
			"servings": "4",
			"ingredients": [{"item": "eggs", "amount": "3", "category": "Protein"}],
			"instructions": [{"step": 1, "title": "Mix", "instruction": "Mix it."}],
			"nutrition": {"calories": "350", "protein": "12g", "carbs": "40g", "fat": "10g"},
			"tips": ["Rest the batter"],
			"substitutions": [{"original": "eggs", "alternatives": ["flax"]}]
		}` + "\n```"

		g, err := ParseGenerated(raw)
		require.NoError(t, err)

		r := g.Sanitize("Apple Cake")
		assert.Equal(t, "Apple Cake", r.Title, "model title must be overridden")
		assert.Equal(t, CategoryDinner, r.Category)
		assert.Equal(t, CuisineOther, r.Cuisine)
		assert.Equal(t, 25, r.PrepTime)
		assert.Equal(t, 40, r.CookTime)
		assert.Equal(t, 4, r.Servings)
		assert.True(t, r.IsPublic)
		assert.Len(t, r.Ingredients, 1)
	})

	t.Run("valid enums pass through", func(t *testing.T) {
		g, err := ParseGenerated(`{"title": "x", "category": "dessert", "cuisine": "french"}`)
		require.NoError(t, err)

		r := g.Sanitize("Tarte Tatin")
		assert.Equal(t, CategoryDessert, r.Category)
		assert.Equal(t, CuisineFrench, r.Cuisine)
	})

	t.Run("non-JSON payload fails", func(t *testing.T) {
		_, err := ParseGenerated("Sorry, I can't help with that.")
		assert.Error(t, err)
	})
}

func TestParseSuggestions(t *testing.T) {
	t.Run("fenced array", func(t *testing.T) {
		raw := "```json\n[{\"title\": \"Omelette\", \"matchPercentage\": 92, \"prepTime\": \"10\"}]\n```"
		got, err := ParseSuggestions(raw)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Omelette", got[0].Title)
		assert.Equal(t, 92, got[0].MatchPercentage)
		assert.Equal(t, 10, got[0].PrepTime.Int())
	})

	t.Run("empty array is an error", func(t *testing.T) {
		_, err := ParseSuggestions("[]")
		assert.ErrorIs(t, err, ErrNoSuggestions)
	})

	t.Run("object instead of array is an error", func(t *testing.T) {
		_, err := ParseSuggestions(`{"title": "Omelette"}`)
		assert.Error(t, err)
	})
}
