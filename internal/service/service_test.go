package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, admin bool) models.User {
	user := models.User{
		ID:       uuid.New(),
		Email:    fmt.Sprintf("user+%s@example.com", uuid.NewString()),
		Username: "testuser",
		IsAdmin:  admin,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	ingredient := models.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}

func createTestTag(t *testing.T, db *gorm.DB, name, color, slug string) models.Tag {
	tag := models.Tag{ID: uuid.New(), Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

// fakeImageStore stands in for the S3 blob store in tests.
type fakeImageStore struct{}

func (fakeImageStore) Store(ctx context.Context, payload string) (string, error) {
	return "https://cdn.test/recipes/stored.png", nil
}

func testRecipeService(db *gorm.DB) *RecipeService {
	return NewRecipeService(db, fakeImageStore{})
}
