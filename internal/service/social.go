package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// SocialService owns the user<->recipe relations (favorites, shopping cart)
// and the user<->user subscription graph. Adds go straight to the insert;
// the unique pair constraint decides whether the relation already exists,
// so concurrent toggles cannot race past an existence pre-check.
type SocialService struct {
	db *gorm.DB
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{db: db}
}

func (s *SocialService) recipeSummary(ctx context.Context, recipeID uuid.UUID) (*types.RecipeSummary, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &types.RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

// AddFavorite records a favorite and returns the recipe summary. Conflict if
// the pair already exists.
func (s *SocialService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeSummary, error) {
	summary, err := s.recipeSummary(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	fav := models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return summary, nil
}

// RemoveFavorite deletes the pair; NotFound if it is not present.
func (s *SocialService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCartEntry records a shopping-cart entry; same contract as AddFavorite.
func (s *SocialService) AddCartEntry(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeSummary, error) {
	summary, err := s.recipeSummary(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	entry := models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return summary, nil
}

func (s *SocialService) RemoveCartEntry(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCart{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Subscribe follows an author. Self-subscription is a Conflict, as is an
// existing pair. recipesLimit caps the recent recipes in the response;
// zero or negative means all.
func (s *SocialService) Subscribe(ctx context.Context, followerID, authorID uuid.UUID, recipesLimit int) (*types.Subscription, error) {
	if followerID == authorID {
		return nil, ErrConflict
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sub := models.Subscription{FollowerID: followerID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return s.subscriptionPayload(ctx, &author, recipesLimit, true)
}

func (s *SocialService) Unsubscribe(ctx context.Context, followerID, authorID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSubscriptions returns a page of the users the viewer follows, newest
// subscription first, each with the same payload shape Subscribe returns.
func (s *SocialService) ListSubscriptions(ctx context.Context, userID uuid.UUID, recipesLimit, limit, offset int) ([]types.Subscription, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.follower_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := base.Order("subscriptions.id DESC").Limit(limit).Offset(offset).Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}

	subs := make([]types.Subscription, 0, len(authors))
	for i := range authors {
		payload, err := s.subscriptionPayload(ctx, &authors[i], recipesLimit, true)
		if err != nil {
			return nil, 0, err
		}
		subs = append(subs, *payload)
	}
	return subs, total, nil
}

func (s *SocialService) subscriptionPayload(ctx context.Context, author *models.User, recipesLimit int, isSubscribed bool) (*types.Subscription, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", author.ID).Count(&count).Error
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", author.ID).
		Order("created_at DESC")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	summaries := make([]types.RecipeSummary, len(recipes))
	for i, r := range recipes {
		summaries[i] = types.RecipeSummary{
			ID:          r.ID,
			Name:        r.Name,
			Image:       r.ImageURL,
			CookingTime: r.CookingTime,
		}
	}

	return &types.Subscription{
		UserSummary: types.UserSummary{
			ID:           author.ID,
			Email:        author.Email,
			Username:     author.Username,
			FirstName:    author.FirstName,
			LastName:     author.LastName,
			IsSubscribed: isSubscribed,
		},
		Recipes:      summaries,
		RecipesCount: count,
	}, nil
}

// ListUsers returns a page of users annotated with is_subscribed relative to
// the viewer; a nil viewer gets the flag false without a relation query.
func (s *SocialService) ListUsers(ctx context.Context, viewerID *uuid.UUID, limit, offset int) ([]types.UserSummary, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at").Limit(limit).Offset(offset).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	subscribed := make(map[uuid.UUID]bool)
	if viewerID != nil && len(users) > 0 {
		ids := make([]uuid.UUID, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		var subIDs []uuid.UUID
		err := s.db.WithContext(ctx).Model(&models.Subscription{}).
			Where("follower_id = ? AND author_id IN ?", *viewerID, ids).
			Pluck("author_id", &subIDs).Error
		if err != nil {
			return nil, 0, err
		}
		for _, id := range subIDs {
			subscribed[id] = true
		}
	}

	summaries := make([]types.UserSummary, len(users))
	for i, u := range users {
		summaries[i] = types.UserSummary{
			ID:           u.ID,
			Email:        u.Email,
			Username:     u.Username,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			IsSubscribed: subscribed[u.ID],
		}
	}
	return summaries, total, nil
}

// GetUser returns one user with the viewer-relative is_subscribed flag.
func (s *SocialService) GetUser(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*types.UserSummary, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	isSubscribed := false
	if viewerID != nil && *viewerID != user.ID {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.Subscription{}).
			Where("follower_id = ? AND author_id = ?", *viewerID, user.ID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		isSubscribed = count > 0
	}

	return &types.UserSummary{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}, nil
}
