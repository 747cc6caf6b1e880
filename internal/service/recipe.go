package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// RecipeService owns the recipe entity and its composition: the tag set and
// the amount-bearing ingredient links. Every write runs as one transaction,
// so concurrent readers see either the old composition in full or the new
// one in full.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
	}
}

// IngredientAmountInput references a catalog ingredient and the amount this
// recipe uses.
type IngredientAmountInput struct {
	IngredientID uuid.UUID `json:"id"`
	Amount       int       `json:"amount"`
}

// RecipeInput is the full desired state of a recipe: scalar fields plus the
// complete tag and ingredient sets. Image carries an inline base64 payload;
// on Replace an empty Image keeps the stored one.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	Image       string
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmountInput
}

func validateRecipeInput(in *RecipeInput) error {
	if in.Name == "" {
		return validationf("name is required")
	}
	if in.CookingTime < models.MinCookingTime || in.CookingTime > models.MaxCookingTime {
		return validationf("cooking_time must be between %d and %d", models.MinCookingTime, models.MaxCookingTime)
	}
	if len(in.Ingredients) == 0 {
		return validationf("at least one ingredient is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		if ing.Amount < models.MinAmount || ing.Amount > models.MaxAmount {
			return validationf("amount must be between %d and %d", models.MinAmount, models.MaxAmount)
		}
		if _, dup := seen[ing.IngredientID]; dup {
			return validationf("duplicate ingredient %s", ing.IngredientID)
		}
		seen[ing.IngredientID] = struct{}{}
	}
	return nil
}

// loadTags resolves the referenced tags, rejecting unknown ids. Duplicate
// tag ids collapse; the tag list is a set.
func loadTags(tx *gorm.DB, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]struct{}, len(tags))
	for _, t := range tags {
		known[t.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return nil, validationf("unknown tag %s", id)
		}
	}
	return tags, nil
}

func checkIngredientsExist(tx *gorm.DB, inputs []IngredientAmountInput) error {
	ids := make([]uuid.UUID, len(inputs))
	for i, in := range inputs {
		ids[i] = in.IngredientID
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return validationf("unknown ingredient id")
	}
	return nil
}

// insertLinks bulk-inserts the ingredient links in input order: one insert
// statement regardless of how many ingredients the recipe lists.
func insertLinks(tx *gorm.DB, recipeID uuid.UUID, inputs []IngredientAmountInput) error {
	links := make([]models.RecipeIngredient, len(inputs))
	for i, in := range inputs {
		links[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: in.IngredientID,
			Amount:       in.Amount,
		}
	}
	return tx.Create(&links).Error
}

// Create creates a recipe with its initial composition.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in RecipeInput) (*types.RecipeDetail, error) {
	if err := validateRecipeInput(&in); err != nil {
		return nil, err
	}
	if in.Image == "" {
		return nil, validationf("image is required")
	}

	imageURL, err := s.images.Store(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		ID:          uuid.New(),
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		ImageURL:    imageURL,
		AuthorID:    &authorID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, in.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, in.Ingredients); err != nil {
			return err
		}
		if err := tx.Omit("Tags", "Ingredients").Create(&recipe).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&recipe).Association("Tags").Append(&tags); err != nil {
				return err
			}
		}
		return insertLinks(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, &authorID, recipe.ID)
}

// Replace mutates the scalar fields in place and swaps the entire tag and
// ingredient sets for the supplied ones. No diffing: old links are deleted
// and the new set is bulk-inserted inside the same transaction.
func (s *RecipeService) Replace(ctx context.Context, actorID, recipeID uuid.UUID, in RecipeInput) (*types.RecipeDetail, error) {
	if err := validateRecipeInput(&in); err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var actor models.User
	if err := s.db.WithContext(ctx).First(&actor, "id = ?", actorID).Error; err != nil {
		return nil, err
	}
	if !canMutateRecipe(&actor, &recipe) {
		return nil, ErrPermissionDenied
	}

	imageURL := recipe.ImageURL
	if in.Image != "" {
		var err error
		imageURL, err = s.images.Store(ctx, in.Image)
		if err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, in.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, in.Ingredients); err != nil {
			return err
		}
		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
			"image_url":    imageURL,
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		if len(tags) == 0 {
			if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
				return err
			}
		} else if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return insertLinks(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, &actorID, recipe.ID)
}

// Delete removes a recipe and cascades to its links, favorites and cart
// entries.
func (s *RecipeService) Delete(ctx context.Context, actorID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var actor models.User
	if err := s.db.WithContext(ctx).First(&actor, "id = ?", actorID).Error; err != nil {
		return err
	}
	if !canMutateRecipe(&actor, &recipe) {
		return ErrPermissionDenied
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// ListFilter narrows the recipe listing. Favorited and InCart restrict to
// the viewer's own relations and are no-ops for anonymous viewers.
type ListFilter struct {
	Author    *uuid.UUID
	TagSlugs  []string
	Favorited bool
	InCart    bool
	Limit     int
	Offset    int
}

// Get returns one recipe with its denormalized composition and the
// viewer-relative flags. A nil viewer means anonymous: flags are false and
// no relation queries are issued.
func (s *RecipeService) Get(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*types.RecipeDetail, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Preload("Tags").Preload("Author").First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	details, err := s.decorate(ctx, viewerID, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// List returns a page of recipes ordered by publication date descending,
// plus the total match count for pagination.
func (s *RecipeService) List(ctx context.Context, viewerID *uuid.UUID, f ListFilter) ([]types.RecipeDetail, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if f.Author != nil {
		query = query.Where("recipes.author_id = ?", *f.Author)
	}
	if len(f.TagSlugs) > 0 {
		// OR-combined against the recipe's tag set; a recipe matching
		// several requested slugs still appears once.
		query = query.Where("recipes.id IN (?)",
			s.db.Table("recipe_tags").Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs))
	}
	if viewerID != nil && f.Favorited {
		query = query.Where("recipes.id IN (?)",
			s.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *viewerID))
	}
	if viewerID != nil && f.InCart {
		query = query.Where("recipes.id IN (?)",
			s.db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", *viewerID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := query.Preload("Tags").Preload("Author").
		Order("recipes.created_at DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	details, err := s.decorate(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

type ingredientRow struct {
	RecipeID        uuid.UUID
	IngredientID    uuid.UUID
	Name            string
	MeasurementUnit string
	Amount          int
}

// decorate turns recipe rows into read payloads: ingredient lines in link
// insertion order plus the viewer-relative flags.
func (s *RecipeService) decorate(ctx context.Context, viewerID *uuid.UUID, recipes []models.Recipe) ([]types.RecipeDetail, error) {
	ids := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}

	ingredients := make(map[uuid.UUID][]types.IngredientAmount, len(recipes))
	if len(ids) > 0 {
		var rows []ingredientRow
		err := s.db.WithContext(ctx).Table("recipe_ingredients").
			Select("recipe_ingredients.recipe_id, recipe_ingredients.ingredient_id, ingredients.name, ingredients.measurement_unit, recipe_ingredients.amount").
			Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
			Where("recipe_ingredients.recipe_id IN ?", ids).
			Order("recipe_ingredients.id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			ingredients[row.RecipeID] = append(ingredients[row.RecipeID], types.IngredientAmount{
				ID:              row.IngredientID,
				Name:            row.Name,
				MeasurementUnit: row.MeasurementUnit,
				Amount:          row.Amount,
			})
		}
	}

	favorited := make(map[uuid.UUID]bool)
	inCart := make(map[uuid.UUID]bool)
	subscribed := make(map[uuid.UUID]bool)
	if viewerID != nil && len(ids) > 0 {
		var favIDs, cartIDs []uuid.UUID
		err := s.db.WithContext(ctx).Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id IN ?", *viewerID, ids).
			Pluck("recipe_id", &favIDs).Error
		if err != nil {
			return nil, err
		}
		err = s.db.WithContext(ctx).Model(&models.ShoppingCart{}).
			Where("user_id = ? AND recipe_id IN ?", *viewerID, ids).
			Pluck("recipe_id", &cartIDs).Error
		if err != nil {
			return nil, err
		}
		for _, id := range favIDs {
			favorited[id] = true
		}
		for _, id := range cartIDs {
			inCart[id] = true
		}

		authorIDs := make([]uuid.UUID, 0, len(recipes))
		for _, r := range recipes {
			if r.AuthorID != nil {
				authorIDs = append(authorIDs, *r.AuthorID)
			}
		}
		if len(authorIDs) > 0 {
			var subIDs []uuid.UUID
			err = s.db.WithContext(ctx).Model(&models.Subscription{}).
				Where("follower_id = ? AND author_id IN ?", *viewerID, authorIDs).
				Pluck("author_id", &subIDs).Error
			if err != nil {
				return nil, err
			}
			for _, id := range subIDs {
				subscribed[id] = true
			}
		}
	}

	details := make([]types.RecipeDetail, len(recipes))
	for i, r := range recipes {
		detail := types.RecipeDetail{
			ID:               r.ID,
			Tags:             r.Tags,
			Ingredients:      ingredients[r.ID],
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.ImageURL,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.CreatedAt,
		}
		if detail.Tags == nil {
			detail.Tags = []models.Tag{}
		}
		if detail.Ingredients == nil {
			detail.Ingredients = []types.IngredientAmount{}
		}
		if r.Author != nil {
			detail.Author = &types.UserSummary{
				ID:           r.Author.ID,
				Email:        r.Author.Email,
				Username:     r.Author.Username,
				FirstName:    r.Author.FirstName,
				LastName:     r.Author.LastName,
				IsSubscribed: subscribed[r.Author.ID],
			}
		}
		details[i] = detail
	}
	return details, nil
}
