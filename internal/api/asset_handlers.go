// Package api - Asset handlers
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kassets/kassets/internal/auth"
	"github.com/kassets/kassets/internal/models"
	"github.com/kassets/kassets/internal/store"
)

// assetRequest mirrors the client payload for creating and updating assets
type assetRequest struct {
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	SerialNumber     string   `json:"serialNumber"`
	PartNumber       string   `json:"partNumber"`
	Description      string   `json:"description"`
	PurchaseDate     string   `json:"purchaseDate"`
	PurchaseCost     float64  `json:"purchaseCost"`
	CurrentValue     float64  `json:"currentValue"`
	Quantity         int      `json:"quantity"`
	DepreciationRate *float64 `json:"depreciationRate"`
	LocationID       *int     `json:"locationId"`
}

func noteAuthor(claims *auth.Claims) string {
	if claims.DisplayName != "" {
		return claims.DisplayName
	}
	return claims.Username
}

// ownedAsset loads an asset and checks it belongs to the request's company.
func (h *Handler) ownedAsset(c *gin.Context, id int) (models.Asset, bool) {
	companyID := c.MustGet("company_id").(int)

	asset, err := h.store.GetAsset(id)
	if err != nil {
		respondError(c, err)
		return models.Asset{}, false
	}
	if asset.CompanyID != companyID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied - wrong company"})
		return models.Asset{}, false
	}
	return asset, true
}

// ListAssets returns the company's assets with locations, photos and notes
// GET /api/assets
func (h *Handler) ListAssets(c *gin.Context) {
	companyID := c.MustGet("company_id").(int)
	c.JSON(http.StatusOK, h.store.GetAssets(companyID))
}

// ListAllAssets returns every asset on the platform, tagged with its
// company name. Super admin only.
// GET /api/assets/all
func (h *Handler) ListAllAssets(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.GetAllAssets())
}

// CreateAsset creates an asset
// POST /api/assets
func (h *Handler) CreateAsset(c *gin.Context) {
	companyID := c.MustGet("company_id").(int)

	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if req.Category == "" {
		req.Category = "Other"
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if req.CurrentValue == 0 {
		req.CurrentValue = req.PurchaseCost
	}
	rate := 10.0
	if req.DepreciationRate != nil {
		rate = *req.DepreciationRate
	}

	asset, err := h.store.CreateAsset(store.NewAsset{
		CompanyID:        companyID,
		Name:             req.Name,
		Category:         req.Category,
		SerialNumber:     req.SerialNumber,
		PartNumber:       req.PartNumber,
		Description:      req.Description,
		PurchaseDate:     req.PurchaseDate,
		PurchaseCost:     req.PurchaseCost,
		CurrentValue:     req.CurrentValue,
		Quantity:         req.Quantity,
		DepreciationRate: rate,
		LocationID:       req.LocationID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": asset.ID})
}

// UpdateAsset overwrites an asset's fields
// PUT /api/assets/:id
func (h *Handler) UpdateAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if _, ok := h.ownedAsset(c, id); !ok {
		return
	}

	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	rate := 10.0
	if req.DepreciationRate != nil {
		rate = *req.DepreciationRate
	}

	locationID := req.LocationID
	upd := models.AssetUpdate{
		Name:             &req.Name,
		Category:         &req.Category,
		SerialNumber:     &req.SerialNumber,
		PartNumber:       &req.PartNumber,
		Description:      &req.Description,
		PurchaseDate:     &req.PurchaseDate,
		PurchaseCost:     &req.PurchaseCost,
		CurrentValue:     &req.CurrentValue,
		Quantity:         &quantity,
		DepreciationRate: &rate,
		LocationID:       &locationID,
	}
	if err := h.store.UpdateAsset(id, upd); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}

// DeleteAsset deletes an asset and its photos and notes
// DELETE /api/assets/:id
func (h *Handler) DeleteAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if _, ok := h.ownedAsset(c, id); !ok {
		return
	}

	if err := h.store.DeleteAsset(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// =============================================================================
// BULK OPERATIONS
// =============================================================================

// BulkTransfer moves assets to a location, leaving an audit note on each
// POST /api/assets/bulk-transfer
func (h *Handler) BulkTransfer(c *gin.Context) {
	claims := c.MustGet("claims").(*auth.Claims)
	companyID := c.MustGet("company_id").(int)

	var req struct {
		AssetIDs   []int `json:"assetIds" binding:"required"`
		LocationID int   `json:"locationId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	dest, err := h.store.GetLocation(req.LocationID)
	if err != nil {
		respondError(c, err)
		return
	}
	if dest.CompanyID != companyID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied - wrong company"})
		return
	}

	transferred := 0
	for _, id := range req.AssetIDs {
		asset, err := h.store.GetAsset(id)
		if err != nil || asset.CompanyID != companyID {
			continue
		}

		oldName := "Unknown"
		if asset.LocationID != nil {
			if old, err := h.store.GetLocation(*asset.LocationID); err == nil {
				oldName = old.Name
			}
		}

		locationID := &req.LocationID
		if err := h.store.UpdateAsset(id, models.AssetUpdate{LocationID: &locationID}); err != nil {
			continue
		}
		h.store.AddNote(id, fmt.Sprintf("Transferred from %s to %s", oldName, dest.Name), noteAuthor(claims))
		transferred++
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d assets transferred", transferred)})
}

// BulkCategory re-categorizes assets, leaving an audit note on each
// POST /api/assets/bulk-category
func (h *Handler) BulkCategory(c *gin.Context) {
	claims := c.MustGet("claims").(*auth.Claims)
	companyID := c.MustGet("company_id").(int)

	var req struct {
		AssetIDs []int  `json:"assetIds" binding:"required"`
		Category string `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	updated := 0
	for _, id := range req.AssetIDs {
		asset, err := h.store.GetAsset(id)
		if err != nil || asset.CompanyID != companyID {
			continue
		}

		oldCategory := asset.Category
		if oldCategory == "" {
			oldCategory = "Unknown"
		}

		if err := h.store.UpdateAsset(id, models.AssetUpdate{Category: &req.Category}); err != nil {
			continue
		}
		h.store.AddNote(id, fmt.Sprintf("Category changed from %q to %q", oldCategory, req.Category), noteAuthor(claims))
		updated++
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d assets updated", updated)})
}

// BulkDelete deletes assets
// POST /api/assets/bulk-delete
func (h *Handler) BulkDelete(c *gin.Context) {
	companyID := c.MustGet("company_id").(int)

	var req struct {
		AssetIDs []int `json:"assetIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	deleted := 0
	for _, id := range req.AssetIDs {
		asset, err := h.store.GetAsset(id)
		if err != nil || asset.CompanyID != companyID {
			continue
		}
		if err := h.store.DeleteAsset(id); err == nil {
			deleted++
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d assets deleted", deleted)})
}

// =============================================================================
// PHOTOS AND NOTES
// =============================================================================

// AddPhoto attaches a photo to an asset
// POST /api/assets/:id/photos
func (h *Handler) AddPhoto(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if _, ok := h.ownedAsset(c, id); !ok {
		return
	}

	var req struct {
		URL  string `json:"url" binding:"required"`
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	photo, err := h.store.AddPhoto(id, req.URL, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}

// DeletePhoto removes a photo from an asset
// DELETE /api/assets/:id/photos/:photoId
func (h *Handler) DeletePhoto(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if _, ok := h.ownedAsset(c, id); !ok {
		return
	}

	photoID, err := strconv.Atoi(c.Param("photoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.store.DeletePhoto(photoID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// AddNote attaches a note to an asset, authored by the caller
// POST /api/assets/:id/notes
func (h *Handler) AddNote(c *gin.Context) {
	claims := c.MustGet("claims").(*auth.Claims)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if _, ok := h.ownedAsset(c, id); !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	note, err := h.store.AddNote(id, req.Text, noteAuthor(claims))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// DeleteNote removes a note from an asset
// DELETE /api/assets/:id/notes/:noteId
func (h *Handler) DeleteNote(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if _, ok := h.ownedAsset(c, id); !ok {
		return
	}

	noteID, err := strconv.Atoi(c.Param("noteId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.store.DeleteNote(noteID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
