// Package handlers contains the gin HTTP handlers for the API surface.
// Handlers bind and validate input, delegate to the application services,
// and push failures onto the context for the error middleware.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pantrychef/v2/internal/infrastructure/http/middleware"
	"github.com/pantrychef/v2/internal/ports/inbound"
	"github.com/pantrychef/v2/pkg/errors"
	"go.uber.org/zap"
)

// RecipeHandler serves the recipe discovery routes
type RecipeHandler struct {
	recipes inbound.RecipeService
	logger  *zap.Logger
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipes inbound.RecipeService, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		logger:  logger.Named("recipe-handler"),
	}
}

type resolveRequest struct {
	RecipeName string `form:"recipeName" json:"recipeName" binding:"required"`
}

type recipeIDRequest struct {
	RecipeID string `form:"recipeId" json:"recipeId" binding:"required"`
}

// Resolve handles POST /api/v1/recipes/resolve
func (h *RecipeHandler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(errors.NewValidationError("Recipe name is required"))
		return
	}

	result, err := h.recipes.Resolve(c.Request.Context(), middleware.CurrentUser(c), req.RecipeName)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Save handles POST /api/v1/recipes/save
func (h *RecipeHandler) Save(c *gin.Context) {
	var req recipeIDRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(errors.NewValidationError("Recipe ID is required"))
		return
	}

	result, err := h.recipes.Save(c.Request.Context(), middleware.CurrentUser(c), req.RecipeID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Unsave handles POST /api/v1/recipes/unsave
func (h *RecipeHandler) Unsave(c *gin.Context) {
	var req recipeIDRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(errors.NewValidationError("Recipe ID is required"))
		return
	}

	result, err := h.recipes.Unsave(c.Request.Context(), middleware.CurrentUser(c), req.RecipeID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Saved handles GET /api/v1/recipes/saved
func (h *RecipeHandler) Saved(c *gin.Context) {
	result, err := h.recipes.SavedRecipes(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Suggestions handles GET /api/v1/recipes/suggestions
func (h *RecipeHandler) Suggestions(c *gin.Context) {
	result, err := h.recipes.SuggestFromPantry(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
