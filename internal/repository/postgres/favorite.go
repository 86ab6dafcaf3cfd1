package postgres

import (
	"context"
	"fmt"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	"github.com/JoseCristhianRG/RecetApp/pkg/database"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
)

// FavoriteRepository implements repository.FavoriteRepository using PostgreSQL.
type FavoriteRepository struct {
	pool database.DBTX
}

// NewFavoriteRepository creates a new PostgreSQL-backed favorite repository.
func NewFavoriteRepository(pool database.DBTX) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

// Add inserts a recipe into the user's favorites.
// Uses ON CONFLICT DO NOTHING for idempotent behavior.
func (r *FavoriteRepository) Add(ctx context.Context, userID, recipeID string) error {
	query := `
		INSERT INTO favorites (user_id, recipe_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, recipe_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, userID, recipeID)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}

	return nil
}

// Remove deletes a recipe from the user's favorites.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, recipeID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2`

	ct, err := r.pool.Exec(ctx, query, userID, recipeID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("favorite", recipeID)
	}

	return nil
}

// List returns the user's favorite recipes, newest favorite first, with the
// total count. Steps are not loaded.
func (r *FavoriteRepository) List(ctx context.Context, userID string, limit, offset int) ([]domain.Recipe, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT r.id, r.user_id, r.category_id, r.name, r.slug, r.description, r.ingredients, r.tags, r.image_url, r.is_public, r.status, r.average_rating, r.total_reviews, r.created_at, r.updated_at,
		       count(*) OVER() AS total_count
		FROM favorites f
		JOIN recipes r ON r.id = f.recipe_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var (
		recipes    []domain.Recipe
		totalCount int
	)

	for rows.Next() {
		var rec domain.Recipe
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.CategoryID,
			&rec.Name,
			&rec.Slug,
			&rec.Description,
			&rec.Ingredients,
			&rec.Tags,
			&rec.ImageURL,
			&rec.IsPublic,
			&rec.Status,
			&rec.AverageRating,
			&rec.TotalReviews,
			&rec.CreatedAt,
			&rec.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan favorite row: %w", err)
		}
		recipes = append(recipes, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate favorite rows: %w", err)
	}

	if recipes == nil {
		recipes = []domain.Recipe{}
	}

	return recipes, totalCount, nil
}

// Exists checks whether a recipe is in the user's favorites.
func (r *FavoriteRepository) Exists(ctx context.Context, userID, recipeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND recipe_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, recipeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check favorite exists: %w", err)
	}

	return exists, nil
}
