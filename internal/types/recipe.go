package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
)

// UserSummary is the denormalized user shape embedded in recipe and
// subscription payloads. IsSubscribed is viewer-relative and computed at
// read time, never stored.
type UserSummary struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// IngredientAmount is one ingredient line of a recipe read: catalog fields
// plus the per-recipe amount from the link row.
type IngredientAmount struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeDetail is the full read shape of a recipe, including the
// viewer-relative flags.
type RecipeDetail struct {
	ID               uuid.UUID          `json:"id"`
	Tags             []models.Tag       `json:"tags"`
	Author           *UserSummary       `json:"author"`
	Ingredients      []IngredientAmount `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
	PubDate          time.Time          `json:"pub_date"`
}

// RecipeSummary is the short recipe shape returned by favorite/cart adds and
// embedded in subscription payloads.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// Subscription is the followed-author payload: the author summary plus their
// recipe count and most recent recipes, capped by the caller.
type Subscription struct {
	UserSummary
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}
