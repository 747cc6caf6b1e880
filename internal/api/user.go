package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

// UserHandler serves user reads and the subscription graph.
type UserHandler struct {
	socialService *service.SocialService
	authService   *service.AuthService
}

func NewUserHandler(socialService *service.SocialService, authService *service.AuthService) *UserHandler {
	return &UserHandler{
		socialService: socialService,
		authService:   authService,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListUsers)
		users.GET("/me", middleware.AuthMiddleware(h.authService), h.Me)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.authService), h.ListSubscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit, offset := pageParams(c)
	users, total, err := h.socialService.ListUsers(c.Request.Context(), middleware.ViewerID(c), limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(total, page, limit, users))
}

func (h *UserHandler) Me(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	user, err := h.socialService.GetUser(c.Request.Context(), viewer, *viewer)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.socialService.GetUser(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// recipesLimit reads the ?recipes_limit cap on the recent recipes embedded
// in subscription payloads. Zero means no cap.
func recipesLimit(c *gin.Context) int {
	if v, err := strconv.Atoi(c.Query("recipes_limit")); err == nil && v > 0 {
		return v
	}
	return 0
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	viewer := middleware.ViewerID(c)
	sub, err := h.socialService.Subscribe(c.Request.Context(), *viewer, authorID, recipesLimit(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	viewer := middleware.ViewerID(c)
	if err := h.socialService.Unsubscribe(c.Request.Context(), *viewer, authorID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	page, limit, offset := pageParams(c)
	subs, total, err := h.socialService.ListSubscriptions(c.Request.Context(), *viewer, recipesLimit(c), limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(total, page, limit, subs))
}
