package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

// RecipeHandler serves recipes, the favorite/cart toggles and the
// shopping-list download.
type RecipeHandler struct {
	recipeService   *service.RecipeService
	socialService   *service.SocialService
	shoppingService *service.ShoppingListService
	authService     *service.AuthService
	rateLimiter     *middleware.RateLimiter
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	socialService *service.SocialService,
	shoppingService *service.ShoppingListService,
	authService *service.AuthService,
	rateLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		socialService:   socialService,
		shoppingService: shoppingService,
		authService:     authService,
		rateLimiter:     rateLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	optional := middleware.OptionalAuthMiddleware(h.authService)
	required := middleware.AuthMiddleware(h.authService)

	mutating := []gin.HandlerFunc{required}
	if h.rateLimiter != nil {
		mutating = append(mutating, h.rateLimiter.Middleware())
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.GET("/download_shopping_cart", required, h.DownloadShoppingCart)
		recipes.GET("/:id", optional, h.GetRecipe)
		recipes.POST("", append(mutating, h.CreateRecipe)...)
		recipes.PUT("/:id", append(mutating, h.UpdateRecipe)...)
		recipes.DELETE("/:id", append(mutating, h.DeleteRecipe)...)
		recipes.POST("/:id/favorite", required, h.AddFavorite)
		recipes.DELETE("/:id/favorite", required, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", required, h.AddCartEntry)
		recipes.DELETE("/:id/shopping_cart", required, h.RemoveCartEntry)
	}
}

type recipeRequest struct {
	Name        string                          `json:"name"`
	Text        string                          `json:"text"`
	CookingTime int                             `json:"cooking_time"`
	Image       string                          `json:"image"`
	Tags        []uuid.UUID                     `json:"tags"`
	Ingredients []service.IngredientAmountInput `json:"ingredients"`
}

func (r *recipeRequest) toInput() service.RecipeInput {
	return service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		Image:       r.Image,
		TagIDs:      r.Tags,
		Ingredients: r.Ingredients,
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, limit, offset := pageParams(c)
	filter := service.ListFilter{
		TagSlugs: c.QueryArray("tags"),
		Limit:    limit,
		Offset:   offset,
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.Author = &id
	}
	// Only the literal value 1 activates these; anything else is a no-op.
	filter.Favorited = c.Query("is_favorited") == "1"
	filter.InCart = c.Query("is_in_shopping_cart") == "1"

	recipes, total, err := h.recipeService.List(c.Request.Context(), middleware.ViewerID(c), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(total, page, limit, recipes))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewer := middleware.ViewerID(c)
	recipe, err := h.recipeService.Create(c.Request.Context(), *viewer, req.toInput())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewer := middleware.ViewerID(c)
	recipe, err := h.recipeService.Replace(c.Request.Context(), *viewer, id, req.toInput())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	viewer := middleware.ViewerID(c)
	if err := h.recipeService.Delete(c.Request.Context(), *viewer, id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	viewer := middleware.ViewerID(c)
	summary, err := h.socialService.AddFavorite(c.Request.Context(), *viewer, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	viewer := middleware.ViewerID(c)
	if err := h.socialService.RemoveFavorite(c.Request.Context(), *viewer, id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddCartEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	viewer := middleware.ViewerID(c)
	summary, err := h.socialService.AddCartEntry(c.Request.Context(), *viewer, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (h *RecipeHandler) RemoveCartEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	viewer := middleware.ViewerID(c)
	if err := h.socialService.RemoveCartEntry(c.Request.Context(), *viewer, id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	doc, err := h.shoppingService.Build(c.Request.Context(), *viewer)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shoppinglist.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
}
