package service

import (
	"github.com/foodgram/backend/internal/models"
)

// Any authenticated actor may read; recipe mutations require ownership or
// admin.
func canMutateRecipe(actor *models.User, recipe *models.Recipe) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin {
		return true
	}
	return recipe.AuthorID != nil && *recipe.AuthorID == actor.ID
}
