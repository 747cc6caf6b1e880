package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

func addLink(t *testing.T, db *gorm.DB, recipeID, ingredientID uuid.UUID, amount int) {
	t.Helper()
	link := models.RecipeIngredient{RecipeID: recipeID, IngredientID: ingredientID, Amount: amount}
	require.NoError(t, db.Create(&link).Error)
}

func addToCart(t *testing.T, db *gorm.DB, userID, recipeID uuid.UUID) {
	t.Helper()
	entry := models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	require.NoError(t, db.Create(&entry).Error)
}

func TestShoppingListEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShoppingListService(db)
	user := createTestUser(t, db, false)

	doc, err := svc.Build(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, ShoppingListHeader, doc)
}

func TestShoppingListSumsAcrossRecipes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShoppingListService(db)
	author := createTestUser(t, db, false)
	user := createTestUser(t, db, false)
	salt := createTestIngredient(t, db, "Salt", "g")
	flour := createTestIngredient(t, db, "Flour", "g")

	soup := createTestRecipe(t, db, author.ID, "soup")
	bread := createTestRecipe(t, db, author.ID, "bread")
	addLink(t, db, soup.ID, salt.ID, 10)
	addLink(t, db, bread.ID, salt.ID, 15)
	addLink(t, db, bread.ID, flour.ID, 30)

	addToCart(t, db, user.ID, soup.ID)
	addToCart(t, db, user.ID, bread.ID)

	doc, err := svc.Build(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, ShoppingListHeader+"Flour(g) — 30\nSalt(g) — 25\n", doc)
}

func TestShoppingListMergesSameNameAndUnit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShoppingListService(db)
	author := createTestUser(t, db, false)
	user := createTestUser(t, db, false)

	// two distinct catalog rows share a name; only same unit merges
	sugarG := createTestIngredient(t, db, "Sugar", "g")
	sugarG2 := models.Ingredient{ID: uuid.New(), Name: "Sugar", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&sugarG2).Error)
	sugarTbsp := createTestIngredient(t, db, "Sugar", "tbsp")

	cake := createTestRecipe(t, db, author.ID, "cake")
	tea := createTestRecipe(t, db, author.ID, "tea")
	addLink(t, db, cake.ID, sugarG.ID, 20)
	addLink(t, db, tea.ID, sugarG2.ID, 5)
	addLink(t, db, tea.ID, sugarTbsp.ID, 2)

	addToCart(t, db, user.ID, cake.ID)
	addToCart(t, db, user.ID, tea.ID)

	doc, err := svc.Build(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, ShoppingListHeader+"Sugar(g) — 25\nSugar(tbsp) — 2\n", doc)
}

func TestShoppingListScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShoppingListService(db)
	author := createTestUser(t, db, false)
	alice := createTestUser(t, db, false)
	bob := createTestUser(t, db, false)
	salt := createTestIngredient(t, db, "Salt", "g")

	soup := createTestRecipe(t, db, author.ID, "soup")
	addLink(t, db, soup.ID, salt.ID, 10)
	addToCart(t, db, alice.ID, soup.ID)

	doc, err := svc.Build(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, ShoppingListHeader, doc)
}
