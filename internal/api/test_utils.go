package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

// stubImageStore stands in for the S3 blob store in handler tests.
type stubImageStore struct{}

func (stubImageStore) Store(ctx context.Context, payload string) (string, error) {
	return "https://cdn.test/recipes/stored.png", nil
}

// setupTestRouter builds the full route tree over an in-memory database,
// with no rate limiter attached.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	router := gin.New()
	SetupAPI(router, db, "test-secret", stubImageStore{}, nil)
	return router, db
}

// createUserAndToken registers a user through the auth service and returns
// the stored row plus a bearer token for it.
func createUserAndToken(t *testing.T, db *gorm.DB) (models.User, string) {
	t.Helper()
	email := fmt.Sprintf("user+%s@example.com", uuid.NewString())

	authService := service.NewAuthService(db, "test-secret")
	token, err := authService.Register(email, "testuser", "Test", "User", "password123")
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	return user, token
}

func createTag(t *testing.T, db *gorm.DB, name, color, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{ID: uuid.New(), Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func createIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}

// doJSON performs a request against the router, marshalling body when it is
// non-nil and attaching the bearer token when one is given.
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}
