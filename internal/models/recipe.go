package models

import (
	"time"

	"github.com/google/uuid"
)

// Recipe owns its composition: the tag set and the amount-bearing ingredient
// links. CreatedAt doubles as the publication date and is set once.
type Recipe struct {
	ID          uuid.UUID          `gorm:"type:varchar(36);primary_key" json:"id"`
	CreatedAt   time.Time          `json:"pub_date"`
	UpdatedAt   time.Time          `json:"-"`
	Name        string             `gorm:"size:200;not null" json:"name"`
	Text        string             `gorm:"type:text" json:"text"`
	CookingTime int                `gorm:"not null" json:"cooking_time"`
	ImageURL    string             `gorm:"size:255" json:"image"`
	AuthorID    *uuid.UUID         `gorm:"type:varchar(36);index" json:"author_id"`
	Author      *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
	Tags        []Tag              `gorm:"many2many:recipe_tags" json:"-"`
	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

const (
	MinCookingTime = 1
	MaxCookingTime = 1000
	MinAmount      = 1
	MaxAmount      = 50
)

// RecipeIngredient pairs a recipe with an ingredient and the amount used by
// that recipe. A recipe cannot list the same ingredient twice; the serial
// primary key preserves link insertion order for reads.
type RecipeIngredient struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	RecipeID     uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int       `gorm:"not null" json:"amount"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
