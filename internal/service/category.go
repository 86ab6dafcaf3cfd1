package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	"github.com/JoseCristhianRG/RecetApp/internal/repository"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
	"github.com/JoseCristhianRG/RecetApp/pkg/slug"
)

// CatalogService manages the category and ingredient catalogs. Reads are
// public; mutations are admin only, enforced at the routing layer.
type CatalogService struct {
	categories  repository.CategoryRepository
	ingredients repository.IngredientRepository
	logger      *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	categories repository.CategoryRepository,
	ingredients repository.IngredientRepository,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		categories:  categories,
		ingredients: ingredients,
		logger:      logger,
	}
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory adds a category to the catalog.
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}

	category := &domain.Category{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug.Generate(name),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
	)

	return category, nil
}

// DeleteCategory removes a category from the catalog.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// ListIngredients returns the ingredient catalog ordered by name.
func (s *CatalogService) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

// CreateIngredient adds an ingredient to the catalog.
func (s *CatalogService) CreateIngredient(ctx context.Context, name string) (*domain.Ingredient, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}

	ingredient := &domain.Ingredient{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.ingredients.Create(ctx, ingredient); err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}

	return ingredient, nil
}

// DeleteIngredient removes an ingredient from the catalog.
func (s *CatalogService) DeleteIngredient(ctx context.Context, id string) error {
	if err := s.ingredients.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return nil
}
