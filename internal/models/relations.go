package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a recipe as favorited by a user. The pair is unique, same
// as ShoppingCart, so both toggles share one insert-or-fail path.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_favorite_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_favorite_pair" json:"recipe_id"`
}

// ShoppingCart marks a recipe as queued for the user's shopping list.
type ShoppingCart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_cart_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_cart_pair" json:"recipe_id"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}
