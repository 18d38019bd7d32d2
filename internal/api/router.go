// Package api - Router setup
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kassets/kassets/internal/auth"
	"github.com/kassets/kassets/internal/models"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(handler *Handler, adminHandler *AdminHandler, authHandler *AuthHandler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// When credentials are used, specific origins must be provided (not *)
	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Company-ID", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsConfig))

	// Health check and login (no auth required)
	r.GET("/api/health", handler.Health)
	r.POST("/api/auth/login", authHandler.Login)
	r.GET("/api/companies/public", adminHandler.ListCompaniesPublic)

	api := r.Group("/api")
	api.Use(handler.AuthMiddleware())
	{
		api.GET("/auth/me", authHandler.Me)
		api.POST("/auth/change-password", authHandler.ChangePassword)

		// ======================================================================
		// PLATFORM API - Company management, super admin only
		// ======================================================================
		companies := api.Group("/companies")
		companies.Use(handler.RequireAtLeast(models.RoleSuperAdmin))
		{
			companies.GET("", adminHandler.ListCompanies)
			companies.POST("", adminHandler.CreateCompany)
			companies.GET("/:id", adminHandler.GetCompany)
			companies.PUT("/:id", adminHandler.UpdateCompany)
			companies.DELETE("/:id", adminHandler.DeleteCompany)
			companies.GET("/:id/stats", adminHandler.GetCompanyStats)
		}

		// ======================================================================
		// USER API - Admin or higher, scoped to the caller's company
		// ======================================================================
		users := api.Group("/users")
		users.Use(handler.RequireAction(auth.ActionManage))
		{
			users.GET("", adminHandler.ListUsers)
			users.POST("", adminHandler.CreateUser)
			users.PUT("/:id", adminHandler.UpdateUser)
			users.POST("/:id/reset-password", adminHandler.ResetPassword)
			users.DELETE("/:id", adminHandler.DeleteUser)
		}

		// Legacy import creates a whole company, master admin or higher
		api.POST("/import", handler.RequireAction(auth.ActionImport), adminHandler.ImportLegacy)

		// Cross-company asset listing for the super admin dashboard
		api.GET("/assets/all", handler.RequireAtLeast(models.RoleSuperAdmin), handler.ListAllAssets)

		// ======================================================================
		// COMPANY API - Scoped to one company's data file
		// ======================================================================
		scoped := api.Group("")
		scoped.Use(handler.CompanyMiddleware())
		{
			scoped.GET("/settings", handler.GetSettings)
			scoped.PUT("/settings", handler.RequireAction(auth.ActionEdit), handler.UpdateSettings)

			scoped.GET("/locations", handler.ListLocations)
			scoped.GET("/categories", handler.ListCategories)
			scoped.GET("/assets", handler.ListAssets)

			edit := scoped.Group("")
			edit.Use(handler.RequireAction(auth.ActionEdit))
			{
				edit.POST("/locations", handler.CreateLocation)
				edit.PUT("/locations/:id", handler.UpdateLocation)
				edit.DELETE("/locations/:id", handler.DeleteLocation)

				edit.POST("/categories", handler.CreateCategory)
				edit.POST("/categories/rename", handler.RenameCategory)
				edit.DELETE("/categories/:id", handler.DeleteCategory)

				edit.POST("/assets", handler.CreateAsset)
				edit.PUT("/assets/:id", handler.UpdateAsset)
				edit.DELETE("/assets/:id", handler.DeleteAsset)
				edit.POST("/assets/bulk-transfer", handler.BulkTransfer)
				edit.POST("/assets/bulk-category", handler.BulkCategory)
				edit.POST("/assets/bulk-delete", handler.BulkDelete)

				edit.POST("/assets/:id/photos", handler.AddPhoto)
				edit.DELETE("/assets/:id/photos/:photoId", handler.DeletePhoto)
				edit.POST("/assets/:id/notes", handler.AddNote)
				edit.DELETE("/assets/:id/notes/:noteId", handler.DeleteNote)
			}
		}
	}

	return r
}
