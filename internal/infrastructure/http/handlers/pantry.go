package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pantrychef/v2/internal/domain/pantry"
	"github.com/pantrychef/v2/internal/infrastructure/http/middleware"
	"github.com/pantrychef/v2/internal/ports/inbound"
	"github.com/pantrychef/v2/pkg/errors"
	"go.uber.org/zap"
)

// PantryHandler serves the pantry management routes
type PantryHandler struct {
	pantry         inbound.PantryService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewPantryHandler creates a new pantry handler
func NewPantryHandler(pantrySvc inbound.PantryService, maxUploadBytes int64, logger *zap.Logger) *PantryHandler {
	return &PantryHandler{
		pantry:         pantrySvc,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.Named("pantry-handler"),
	}
}

// Scan handles POST /api/v1/pantry/scan (multipart image upload)
func (h *PantryHandler) Scan(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.Error(errors.NewValidationError("No image provided"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		c.Error(errors.NewBadRequestError("Failed to read image"))
		return
	}
	if int64(len(image)) > h.maxUploadBytes {
		c.Error(errors.NewValidationError("Image is too large"))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}

	result, err := h.pantry.Scan(c.Request.Context(), middleware.CurrentUser(c), image, mimeType)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type commitRequest struct {
	Ingredients []pantry.Guess `json:"ingredients" binding:"required"`
}

// Commit handles POST /api/v1/pantry/commit. Accepts either a JSON body or
// a form field carrying the ingredients array as JSON.
func (h *PantryHandler) Commit(c *gin.Context) {
	var req commitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		raw := c.PostForm("ingredients")
		if raw == "" || json.Unmarshal([]byte(raw), &req.Ingredients) != nil {
			c.Error(errors.NewValidationError("No ingredients to save"))
			return
		}
	}

	result, err := h.pantry.Commit(c.Request.Context(), middleware.CurrentUser(c), req.Ingredients)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type addItemRequest struct {
	Name     string `form:"name" json:"name" binding:"required"`
	Quantity string `form:"quantity" json:"quantity" binding:"required"`
}

// Add handles POST /api/v1/pantry
func (h *PantryHandler) Add(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(errors.NewValidationError("Name and quantity are required"))
		return
	}

	item, err := h.pantry.Add(c.Request.Context(), middleware.CurrentUser(c), req.Name, req.Quantity)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"item":    item,
		"message": "Item added successfully!",
	})
}

// List handles GET /api/v1/pantry
func (h *PantryHandler) List(c *gin.Context) {
	result, err := h.pantry.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type updateItemRequest struct {
	Name     string `form:"name" json:"name" binding:"required"`
	Quantity string `form:"quantity" json:"quantity" binding:"required"`
}

// Update handles PUT /api/v1/pantry/:id
func (h *PantryHandler) Update(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(errors.NewValidationError("Name and quantity are required"))
		return
	}

	item, err := h.pantry.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Name, req.Quantity)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"item":    item,
		"message": "Item updated successfully",
	})
}

// Delete handles DELETE /api/v1/pantry/:id
func (h *PantryHandler) Delete(c *gin.Context) {
	if err := h.pantry.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item removed from pantry",
	})
}
