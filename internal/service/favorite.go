package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	"github.com/JoseCristhianRG/RecetApp/internal/repository"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
)

// FavoriteService manages per-user favorite recipe collections.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	recipes   repository.RecipeRepository
	logger    *slog.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(
	favorites repository.FavoriteRepository,
	recipes repository.RecipeRepository,
	logger *slog.Logger,
) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		recipes:   recipes,
		logger:    logger,
	}
}

// Add puts a recipe into the user's favorites. Adding the same recipe
// twice is not an error. Only viewable recipes can be favorited.
func (s *FavoriteService) Add(ctx context.Context, userID, recipeID string) error {
	if userID == "" {
		return apperrors.Unauthorized("authentication required")
	}

	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("get recipe: %w", err)
	}
	if !recipe.IsPublic || recipe.Status != domain.RecipeStatusPublished {
		if recipe.UserID != userID {
			return apperrors.NotFound("recipe", recipeID)
		}
	}

	if err := s.favorites.Add(ctx, userID, recipeID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}

	s.logger.DebugContext(ctx, "favorite added",
		slog.String("user_id", userID),
		slog.String("recipe_id", recipeID),
	)

	return nil
}

// Remove deletes a recipe from the user's favorites.
func (s *FavoriteService) Remove(ctx context.Context, userID, recipeID string) error {
	if userID == "" {
		return apperrors.Unauthorized("authentication required")
	}

	if err := s.favorites.Remove(ctx, userID, recipeID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	return nil
}

// List returns a page of the user's favorite recipes ordered by when they
// were favorited, newest first, along with the total count.
func (s *FavoriteService) List(ctx context.Context, userID string, limit, offset int) ([]domain.Recipe, int, error) {
	if limit <= 0 {
		limit = defaultRecipeLimit
	}
	if limit > maxRecipeLimit {
		limit = maxRecipeLimit
	}
	if offset < 0 {
		offset = 0
	}

	recipes, total, err := s.favorites.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorites: %w", err)
	}

	return recipes, total, nil
}

// IsFavorite reports whether the recipe is in the user's favorites.
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	exists, err := s.favorites.Exists(ctx, userID, recipeID)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return exists, nil
}
