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

func createTestRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID, name string) models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		ID:          uuid.New(),
		Name:        name,
		Text:        "instructions",
		CookingTime: 15,
		ImageURL:    "https://cdn.test/recipes/" + name + ".png",
		AuthorID:    &authorID,
	}
	require.NoError(t, db.Create(&recipe).Error)
	return recipe
}

func TestFavoriteLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSocialService(db)
	author := createTestUser(t, db, false)
	fan := createTestUser(t, db, false)
	recipe := createTestRecipe(t, db, author.ID, "pelmeni")

	summary, err := svc.AddFavorite(context.Background(), fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, summary.ID)
	assert.Equal(t, "pelmeni", summary.Name)
	assert.Equal(t, 15, summary.CookingTime)

	_, err = svc.AddFavorite(context.Background(), fan.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.AddFavorite(context.Background(), fan.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.RemoveFavorite(context.Background(), fan.ID, recipe.ID))
	assert.ErrorIs(t, svc.RemoveFavorite(context.Background(), fan.ID, recipe.ID), ErrNotFound)
}

func TestShoppingCartLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSocialService(db)
	author := createTestUser(t, db, false)
	fan := createTestUser(t, db, false)
	recipe := createTestRecipe(t, db, author.ID, "okroshka")

	summary, err := svc.AddCartEntry(context.Background(), fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, summary.ID)

	_, err = svc.AddCartEntry(context.Background(), fan.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrConflict)

	// cart and favorite relations do not interfere
	_, err = svc.AddFavorite(context.Background(), fan.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveCartEntry(context.Background(), fan.ID, recipe.ID))
	assert.ErrorIs(t, svc.RemoveCartEntry(context.Background(), fan.ID, recipe.ID), ErrNotFound)
}

func TestSubscribe(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSocialService(db)
	author := createTestUser(t, db, false)
	follower := createTestUser(t, db, false)

	_, err := svc.Subscribe(context.Background(), follower.ID, follower.ID, 0)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Subscribe(context.Background(), follower.ID, uuid.New(), 0)
	assert.ErrorIs(t, err, ErrNotFound)

	sub, err := svc.Subscribe(context.Background(), follower.ID, author.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, author.ID, sub.ID)
	assert.True(t, sub.IsSubscribed)
	assert.NotNil(t, sub.Recipes)
	assert.Zero(t, sub.RecipesCount)

	_, err = svc.Subscribe(context.Background(), follower.ID, author.ID, 0)
	assert.ErrorIs(t, err, ErrConflict)

	// the same pair in the other direction is a distinct relation
	_, err = svc.Subscribe(context.Background(), author.ID, follower.ID, 0)
	assert.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(context.Background(), follower.ID, author.ID))
	assert.ErrorIs(t, svc.Unsubscribe(context.Background(), follower.ID, author.ID), ErrNotFound)
}

func TestSubscriptionRecipesLimit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSocialService(db)
	author := createTestUser(t, db, false)
	follower := createTestUser(t, db, false)

	for _, name := range []string{"first", "second", "third"} {
		createTestRecipe(t, db, author.ID, name)
	}

	sub, err := svc.Subscribe(context.Background(), follower.ID, author.ID, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, sub.RecipesCount)
	assert.Len(t, sub.Recipes, 2)
}

func TestListSubscriptions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSocialService(db)
	follower := createTestUser(t, db, false)
	first := createTestUser(t, db, false)
	second := createTestUser(t, db, false)
	createTestRecipe(t, db, first.ID, "shchi")

	_, err := svc.Subscribe(context.Background(), follower.ID, first.ID, 0)
	require.NoError(t, err)
	_, err = svc.Subscribe(context.Background(), follower.ID, second.ID, 0)
	require.NoError(t, err)

	subs, total, err := svc.ListSubscriptions(context.Background(), follower.ID, 0, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, subs, 2)
	// most recent subscription first
	assert.Equal(t, second.ID, subs[0].ID)
	assert.Equal(t, first.ID, subs[1].ID)
	assert.EqualValues(t, 1, subs[1].RecipesCount)

	for _, sub := range subs {
		assert.True(t, sub.IsSubscribed)
	}

	page, total, err := svc.ListSubscriptions(context.Background(), follower.ID, 0, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)
}

func TestListUsers(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSocialService(db)
	viewer := createTestUser(t, db, false)
	followed := createTestUser(t, db, false)
	other := createTestUser(t, db, false)

	_, err := svc.Subscribe(context.Background(), viewer.ID, followed.ID, 0)
	require.NoError(t, err)

	users, total, err := svc.ListUsers(context.Background(), &viewer.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 3)

	flags := make(map[uuid.UUID]bool, len(users))
	for _, u := range users {
		flags[u.ID] = u.IsSubscribed
	}
	assert.True(t, flags[followed.ID])
	assert.False(t, flags[other.ID])
	assert.False(t, flags[viewer.ID])
}

func TestGetUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSocialService(db)
	viewer := createTestUser(t, db, false)
	target := createTestUser(t, db, false)

	_, err := svc.GetUser(context.Background(), nil, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	anon, err := svc.GetUser(context.Background(), nil, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.Email, anon.Email)
	assert.False(t, anon.IsSubscribed)

	_, err = svc.Subscribe(context.Background(), viewer.ID, target.ID, 0)
	require.NoError(t, err)

	seen, err := svc.GetUser(context.Background(), &viewer.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, seen.IsSubscribed)
}
