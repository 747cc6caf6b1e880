package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// CatalogService serves the tag and ingredient reference data. Catalog rows
// are never touched by the recipe lifecycle; writes happen only through the
// bulk loaders.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("slug").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// ListIngredients lists ingredients, optionally filtered by a
// case-insensitive name prefix.
func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name")
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE ?", strings.ToLower(namePrefix)+"%")
	}
	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// UpsertIngredient matches by (name, unit): an exact duplicate is a silent
// no-op, anything else inserts a new row. Used by the bulk loader.
func (s *CatalogService) UpsertIngredient(ctx context.Context, name, unit string) (*models.Ingredient, error) {
	if name == "" || unit == "" {
		return nil, validationf("ingredient name and measurement unit are required")
	}
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).
		Where(models.Ingredient{Name: name, MeasurementUnit: unit}).
		Attrs(models.Ingredient{ID: uuid.New()}).
		FirstOrCreate(&ingredient).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// UpsertTag matches by slug.
func (s *CatalogService) UpsertTag(ctx context.Context, name, color, slug string) (*models.Tag, error) {
	if name == "" || slug == "" {
		return nil, validationf("tag name and slug are required")
	}
	var tag models.Tag
	err := s.db.WithContext(ctx).
		Where(models.Tag{Slug: slug}).
		Attrs(models.Tag{ID: uuid.New(), Name: name, Color: color}).
		FirstOrCreate(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}
