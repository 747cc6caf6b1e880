package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// ShoppingListHeader is the fixed first line of every shopping-list
// document, including the empty one.
const ShoppingListHeader = "Список покупок: \n"

// ShoppingListService aggregates the ingredient links of every recipe in a
// user's cart into one summed report.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Build joins the user's cart rows to their recipes' ingredient links,
// groups by (name, measurement unit), and sums amounts per group. Two catalog
// rows with identical name and unit merge on purpose. The result is a
// text document: the header line, then one "{name}({unit}) — {total}" line
// per group. An empty cart yields just the header, never an error.
func (s *ShoppingListService) Build(ctx context.Context, userID uuid.UUID) (string, error) {
	rows, err := s.db.WithContext(ctx).Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Rows()
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	for rows.Next() {
		var name, unit string
		var total int
		if err := rows.Scan(&name, &unit, &total); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s(%s) — %d\n", name, unit, total)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}
