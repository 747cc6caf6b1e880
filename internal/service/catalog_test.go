package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTagsOrderedBySlug(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	createTestTag(t, db, "Lunch", "#00ff00", "lunch")
	createTestTag(t, db, "Breakfast", "#ff0000", "breakfast")

	tags, err := svc.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Slug)
	assert.Equal(t, "lunch", tags[1].Slug)
}

func TestListIngredientsPrefixFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	createTestIngredient(t, db, "Salt", "g")
	createTestIngredient(t, db, "Saffron", "g")
	createTestIngredient(t, db, "Pepper", "g")

	all, err := svc.ListIngredients(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// prefix match is case-insensitive and anchored at the start
	filtered, err := svc.ListIngredients(context.Background(), "sa")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "Saffron", filtered[0].Name)
	assert.Equal(t, "Salt", filtered[1].Name)

	none, err := svc.ListIngredients(context.Background(), "alt")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetCatalogEntries(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	salt := createTestIngredient(t, db, "Salt", "g")
	breakfast := createTestTag(t, db, "Breakfast", "#ff0000", "breakfast")

	ing, err := svc.GetIngredient(context.Background(), salt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salt", ing.Name)

	tag, err := svc.GetTag(context.Background(), breakfast.ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", tag.Slug)

	_, err = svc.GetIngredient(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetTag(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertIngredientIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)

	first, err := svc.UpsertIngredient(context.Background(), "Salt", "g")
	require.NoError(t, err)

	again, err := svc.UpsertIngredient(context.Background(), "Salt", "g")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	// same name with another unit is a distinct catalog row
	other, err := svc.UpsertIngredient(context.Background(), "Salt", "tbsp")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	_, err = svc.UpsertIngredient(context.Background(), "", "g")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpsertTagIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)

	first, err := svc.UpsertTag(context.Background(), "Breakfast", "#ff0000", "breakfast")
	require.NoError(t, err)

	// reload matches by slug and keeps the stored attributes
	again, err := svc.UpsertTag(context.Background(), "Morning meal", "#123456", "breakfast")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Breakfast", again.Name)

	_, err = svc.UpsertTag(context.Background(), "Lunch", "#00ff00", "")
	assert.ErrorIs(t, err, ErrValidation)
}
