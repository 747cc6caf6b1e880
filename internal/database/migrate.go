package database

import (
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// AutoMigrate creates or updates the schema for all application models.
// Production deployments run the SQL migrations in cmd/migrate instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
	)
}
