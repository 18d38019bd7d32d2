// Package api - Middleware
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kassets/kassets/internal/auth"
	"github.com/kassets/kassets/internal/models"
)

// AuthMiddleware validates the bearer token and stores the claims
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := h.jwtService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

// RequireAction rejects roles that cannot perform the given action
func (h *Handler) RequireAction(action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := c.MustGet("claims").(*auth.Claims)
		if !auth.Can(claims.Role, action) {
			c.JSON(http.StatusForbidden, gin.H{"error": "No permission"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAtLeast rejects roles below the threshold
func (h *Handler) RequireAtLeast(threshold string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := c.MustGet("claims").(*auth.Claims)
		if !auth.AtLeast(claims.Role, threshold) {
			c.JSON(http.StatusForbidden, gin.H{"error": "No permission"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CompanyMiddleware pins the request to a company. Everyone is scoped to
// their own company; a super admin may target any company via the
// X-Company-ID header or the company_id query param.
func (h *Handler) CompanyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := c.MustGet("claims").(*auth.Claims)

		if claims.Role == models.RoleSuperAdmin {
			target := c.GetHeader("X-Company-ID")
			if target == "" {
				target = c.Query("company_id")
			}
			if target == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "company_id is required"})
				c.Abort()
				return
			}
			companyID, err := strconv.Atoi(target)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company_id"})
				c.Abort()
				return
			}
			c.Set("company_id", companyID)
			c.Next()
			return
		}

		if claims.CompanyID == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied - wrong company"})
			c.Abort()
			return
		}

		// Non-super admins cannot reach into another company.
		if target := c.GetHeader("X-Company-ID"); target != "" {
			if id, err := strconv.Atoi(target); err == nil && id != *claims.CompanyID {
				c.JSON(http.StatusForbidden, gin.H{"error": "Access denied - wrong company"})
				c.Abort()
				return
			}
		}

		c.Set("company_id", *claims.CompanyID)
		c.Next()
	}
}
