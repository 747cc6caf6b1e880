package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

// SetupAPI wires services and handlers onto the router. imageStore is the
// blob-store collaborator for recipe images; rateLimiter may be nil when no
// Redis is configured.
func SetupAPI(router *gin.Engine, db *gorm.DB, jwtSecret string, imageStore service.ImageStore, rateLimiter *middleware.RateLimiter) {
	v1 := router.Group("/api/v1")
	{
		authService := service.NewAuthService(db, jwtSecret)
		recipeService := service.NewRecipeService(db, imageStore)
		socialService := service.NewSocialService(db)
		shoppingService := service.NewShoppingListService(db)
		catalogService := service.NewCatalogService(db)

		authHandler := NewAuthHandler(authService)
		userHandler := NewUserHandler(socialService, authService)
		recipeHandler := NewRecipeHandler(recipeService, socialService, shoppingService, authService, rateLimiter)
		catalogHandler := NewCatalogHandler(catalogService)

		authHandler.RegisterRoutes(v1)
		userHandler.RegisterRoutes(v1)
		recipeHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
	}
}
