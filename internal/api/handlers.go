// Package api contains the HTTP API handlers for Kassets
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kassets/kassets/internal/auth"
	"github.com/kassets/kassets/internal/errors"
	"github.com/kassets/kassets/internal/models"
	"github.com/kassets/kassets/internal/store"
)

// Handler contains the company-scoped API handlers
type Handler struct {
	store      *store.Store
	jwtService *auth.JWTService
	log        *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(st *store.Store, jwtService *auth.JWTService, log *zap.Logger) *Handler {
	return &Handler{
		store:      st,
		jwtService: jwtService,
		log:        log,
	}
}

// respondError maps domain errors to their HTTP status. Anything that is not
// a KassetsError becomes a 500.
func respondError(c *gin.Context, err error) {
	if kerr, ok := err.(errors.KassetsError); ok {
		c.JSON(kerr.HTTPStatus(), gin.H{"error": kerr.Error(), "code": kerr.Code()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// Health returns server status
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// =============================================================================
// SETTINGS ENDPOINTS
// =============================================================================

// GetSettings returns the company settings record
// GET /api/settings
func (h *Handler) GetSettings(c *gin.Context) {
	companyID := c.MustGet("company_id").(int)
	c.JSON(http.StatusOK, h.store.GetSettings(companyID))
}

// UpdateSettings saves the company settings record
// PUT /api/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	companyID := c.MustGet("company_id").(int)

	var req struct {
		CompanyName string `json:"companyName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.store.UpdateSettings(companyID, models.SettingsUpdate{CompanyName: &req.CompanyName}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Saved"})
}

// =============================================================================
// LOCATION ENDPOINTS
// =============================================================================

// ListLocations returns the company's locations with usage stats
// GET /api/locations
func (h *Handler) ListLocations(c *gin.Context) {
	companyID := c.MustGet("company_id").(int)
	c.JSON(http.StatusOK, h.store.GetLocations(companyID))
}

// CreateLocation creates a location
// POST /api/locations
func (h *Handler) CreateLocation(c *gin.Context) {
	companyID := c.MustGet("company_id").(int)

	var req struct {
		Name    string `json:"name" binding:"required"`
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	loc, err := h.store.CreateLocation(store.NewLocation{
		CompanyID: companyID,
		Name:      req.Name,
		Address:   req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": loc.ID})
}

// UpdateLocation updates a location
// PUT /api/locations/:id
func (h *Handler) UpdateLocation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Name    *string `json:"name"`
		Address *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.store.UpdateLocation(id, models.LocationUpdate{Name: req.Name, Address: req.Address}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}

// DeleteLocation deletes a location; refused while assets still reference it
// DELETE /api/locations/:id
func (h *Handler) DeleteLocation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.store.DeleteLocation(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// =============================================================================
// CATEGORY ENDPOINTS
// =============================================================================

// ListCategories returns the company's categories with asset counts
// GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	companyID := c.MustGet("company_id").(int)
	c.JSON(http.StatusOK, h.store.GetCategories(companyID))
}

// CreateCategory creates a category
// POST /api/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	companyID := c.MustGet("company_id").(int)

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	cat, err := h.store.CreateCategory(companyID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": cat.ID})
}

// RenameCategory renames a category and rewrites every asset that uses it
// POST /api/categories/rename
func (h *Handler) RenameCategory(c *gin.Context) {
	companyID := c.MustGet("company_id").(int)

	var req struct {
		OldName string `json:"oldName" binding:"required"`
		NewName string `json:"newName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.store.RenameCategory(companyID, req.OldName, req.NewName); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category renamed"})
}

// DeleteCategory deletes a category; refused while assets still use it
// DELETE /api/categories/:id
func (h *Handler) DeleteCategory(c *gin.Context) {
	companyID := c.MustGet("company_id").(int)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.store.DeleteCategory(id, companyID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
