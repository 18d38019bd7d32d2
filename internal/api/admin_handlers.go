// Package api - Admin handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kassets/kassets/internal/auth"
	"github.com/kassets/kassets/internal/models"
	"github.com/kassets/kassets/internal/store"
)

// AdminHandler handles company and user management endpoints
type AdminHandler struct {
	store *store.Store
	log   *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(st *store.Store, log *zap.Logger) *AdminHandler {
	return &AdminHandler{store: st, log: log}
}

// =============================================================================
// COMPANY MANAGEMENT (super admin)
// =============================================================================

// ListCompanies returns all companies
// GET /api/companies
func (h *AdminHandler) ListCompanies(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.GetCompanies())
}

// ListCompaniesPublic returns active companies for the login page
// GET /api/companies/public
func (h *AdminHandler) ListCompaniesPublic(c *gin.Context) {
	type publicCompany struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	out := []publicCompany{}
	for _, company := range h.store.GetCompanies() {
		if company.IsActive {
			out = append(out, publicCompany{ID: company.ID, Name: company.Name})
		}
	}
	c.JSON(http.StatusOK, out)
}

// GetCompany returns one company
// GET /api/companies/:id
func (h *AdminHandler) GetCompany(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	company, err := h.store.GetCompany(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// CreateCompany creates a company with its default locations, categories
// and settings
// POST /api/companies
func (h *AdminHandler) CreateCompany(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	company, err := h.store.CreateCompany(store.NewCompany{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.log.Info("company created", zap.Int("id", company.ID), zap.String("slug", company.Slug))
	c.JSON(http.StatusCreated, company)
}

// UpdateCompany updates a company; a rename moves its data file
// PUT /api/companies/:id
func (h *AdminHandler) UpdateCompany(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Address  *string `json:"address"`
		Phone    *string `json:"phone"`
		Email    *string `json:"email"`
		IsActive *bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	upd := models.CompanyUpdate{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		IsActive: req.IsActive,
	}
	if err := h.store.UpdateCompany(id, upd); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}

// DeleteCompany deletes a company; refused while it still holds assets
// DELETE /api/companies/:id
func (h *AdminHandler) DeleteCompany(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.store.DeleteCompany(id); err != nil {
		respondError(c, err)
		return
	}

	h.log.Info("company deleted", zap.Int("id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// GetCompanyStats returns dashboard stats for one company
// GET /api/companies/:id/stats
func (h *AdminHandler) GetCompanyStats(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	stats, err := h.store.GetCompanyStats(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// =============================================================================
// USER MANAGEMENT (admin or higher)
// =============================================================================

// ListUsers returns users. Super admins see every user, everyone else sees
// their own company only.
// GET /api/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	claims := c.MustGet("claims").(*auth.Claims)

	if claims.Role == models.RoleSuperAdmin {
		c.JSON(http.StatusOK, h.store.GetAllUsers())
		return
	}
	if claims.CompanyID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied - wrong company"})
		return
	}
	c.JSON(http.StatusOK, h.store.GetUsers(*claims.CompanyID))
}

// CreateUser creates a user. Non-super admins can only create users in
// their own company, at roles below their own.
// POST /api/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	claims := c.MustGet("claims").(*auth.Claims)

	var req struct {
		Username    string `json:"username" binding:"required"`
		Password    string `json:"password" binding:"required"`
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
		Role        string `json:"role"`
		CompanyID   *int   `json:"companyId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		return
	}

	if req.Role == "" {
		req.Role = models.RoleViewer
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	companyID := req.CompanyID
	if claims.Role != models.RoleSuperAdmin {
		companyID = claims.CompanyID
	}

	if !auth.CanActOn(claims.Role, req.Role, auth.ActionManage) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.store.CreateUser(store.NewUser{
		Username:    req.Username,
		Password:    hash,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Role:        req.Role,
		CompanyID:   companyID,
		IsActive:    true,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID})
}

// targetUser loads the user addressed by :id and checks the caller may
// manage it.
func (h *AdminHandler) targetUser(c *gin.Context) (models.User, bool) {
	claims := c.MustGet("claims").(*auth.Claims)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return models.User{}, false
	}

	user, err := h.store.GetUserByID(id)
	if err != nil {
		respondError(c, err)
		return models.User{}, false
	}

	if claims.Role != models.RoleSuperAdmin {
		if claims.CompanyID == nil || user.CompanyID == nil || *user.CompanyID != *claims.CompanyID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied - wrong company"})
			return models.User{}, false
		}
	}
	if !auth.CanActOn(claims.Role, user.Role, auth.ActionManage) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission"})
		return models.User{}, false
	}

	return user, true
}

// UpdateUser updates a user's profile, role or active flag
// PUT /api/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	claims := c.MustGet("claims").(*auth.Claims)

	user, ok := h.targetUser(c)
	if !ok {
		return
	}

	var req struct {
		DisplayName *string `json:"displayName"`
		Email       *string `json:"email"`
		Role        *string `json:"role"`
		IsActive    *bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	// A role change must also stay within the caller's reach.
	if req.Role != nil && !auth.CanActOn(claims.Role, *req.Role, auth.ActionManage) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission"})
		return
	}

	upd := models.UserUpdate{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Role:        req.Role,
		IsActive:    req.IsActive,
	}
	if err := h.store.UpdateUser(user.ID, upd); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}

// ResetPassword sets a new password for a user
// POST /api/users/:id/reset-password
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	user, ok := h.targetUser(c)
	if !ok {
		return
	}

	var req struct {
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.store.UpdateUser(user.ID, models.UserUpdate{Password: &hash}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset"})
}

// DeleteUser deletes a user; self-deletion is refused
// DELETE /api/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	claims := c.MustGet("claims").(*auth.Claims)

	user, ok := h.targetUser(c)
	if !ok {
		return
	}

	if user.ID == claims.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete yourself"})
		return
	}

	if err := h.store.DeleteUser(user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// =============================================================================
// LEGACY IMPORT (master admin or higher)
// =============================================================================

// ImportRequest carries a legacy single-company export
type ImportRequest struct {
	CompanyName string                   `json:"companyName" binding:"required"`
	Data        store.LegacyPayload      `json:"data"`
	MasterAdmin *store.LegacyCredentials `json:"masterAdmin"`
}

// ImportLegacy imports a legacy export as a new company
// POST /api/import
func (h *AdminHandler) ImportLegacy(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	summary, err := h.store.ImportLegacyData(req.Data, req.CompanyName, req.MasterAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	h.log.Info("legacy import complete",
		zap.Int("company_id", summary.CompanyID),
		zap.String("slug", summary.Slug))
	c.JSON(http.StatusOK, summary)
}
