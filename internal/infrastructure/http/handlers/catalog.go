package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pantrychef/v2/internal/ports/inbound"
	"go.uber.org/zap"
)

// CatalogHandler serves the public meal catalog routes
type CatalogHandler struct {
	catalog inbound.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog inbound.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger.Named("catalog-handler"),
	}
}

// RecipeOfTheDay handles GET /api/v1/catalog/recipe-of-day
func (h *CatalogHandler) RecipeOfTheDay(c *gin.Context) {
	meal, err := h.catalog.RecipeOfTheDay(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"recipe":  meal,
	})
}

// Categories handles GET /api/v1/catalog/categories
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

// Areas handles GET /api/v1/catalog/areas
func (h *CatalogHandler) Areas(c *gin.Context) {
	areas, err := h.catalog.Areas(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"areas":   areas,
	})
}

// MealsByCategory handles GET /api/v1/catalog/categories/:category/meals
func (h *CatalogHandler) MealsByCategory(c *gin.Context) {
	category := c.Param("category")
	meals, err := h.catalog.MealsByCategory(c.Request.Context(), category)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"meals":    meals,
		"category": category,
	})
}

// MealsByArea handles GET /api/v1/catalog/areas/:area/meals
func (h *CatalogHandler) MealsByArea(c *gin.Context) {
	area := c.Param("area")
	meals, err := h.catalog.MealsByArea(c.Request.Context(), area)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"meals":   meals,
		"area":    area,
	})
}
