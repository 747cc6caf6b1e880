package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/foodgram/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (v stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	return v.claims, v.err
}

func serveWith(mw gin.HandlerFunc, header string) (*httptest.ResponseRecorder, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var viewer *uuid.UUID
	router.GET("/probe", mw, func(c *gin.Context) {
		viewer = ViewerID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, viewer
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid := stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "ada"}}
	invalid := stubValidator{err: errors.New("expired")}

	w, viewer := serveWith(AuthMiddleware(valid), "Bearer token")
	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, viewer) {
		assert.Equal(t, userID, *viewer)
	}

	w, _ = serveWith(AuthMiddleware(valid), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = serveWith(AuthMiddleware(valid), "token-without-scheme")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = serveWith(AuthMiddleware(invalid), "Bearer token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid := stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "ada"}}
	invalid := stubValidator{err: errors.New("expired")}

	// anonymous passes through with no viewer
	w, viewer := serveWith(OptionalAuthMiddleware(valid), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, viewer)

	w, viewer = serveWith(OptionalAuthMiddleware(valid), "Bearer token")
	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, viewer) {
		assert.Equal(t, userID, *viewer)
	}

	// a bad token is rejected, not downgraded to anonymous
	w, _ = serveWith(OptionalAuthMiddleware(invalid), "Bearer token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
