package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	"github.com/JoseCristhianRG/RecetApp/pkg/database"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
	"github.com/JoseCristhianRG/RecetApp/pkg/pagination"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a new review. The unique constraint on (recipe_id, user_id)
// rejects a second review by the same user for the same recipe.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, recipe_id, user_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.RecipeID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("review", "recipe", review.RecipeID)
		}
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// Update modifies the rating, comment, and updated_at of the review
// identified by (id, recipe_id, user_id), filling in the persisted created_at
// on the way back. The ownership predicate doubles as the authorization
// check.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `
		UPDATE reviews
		SET rating = $1, comment = $2, updated_at = $3
		WHERE id = $4 AND recipe_id = $5 AND user_id = $6
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		review.Rating,
		review.Comment,
		review.UpdatedAt,
		review.ID,
		review.RecipeID,
		review.UserID,
	).Scan(&review.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("review", review.ID)
		}
		return fmt.Errorf("update review: %w", err)
	}

	return nil
}

// Delete removes the review identified by (id, recipe_id, user_id).
func (r *ReviewRepository) Delete(ctx context.Context, id, recipeID, userID string) error {
	query := `DELETE FROM reviews WHERE id = $1 AND recipe_id = $2 AND user_id = $3`

	ct, err := r.pool.Exec(ctx, query, id, recipeID, userID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}

// ListByRecipeID returns reviews for a recipe ordered by created_at
// descending (id descending as tiebreaker), resuming strictly after the
// cursor when one is given. It fetches limit+1 rows so the caller can detect
// whether a further page exists.
func (r *ReviewRepository) ListByRecipeID(ctx context.Context, recipeID string, limit int, cursor *pagination.Cursor) ([]domain.Review, error) {
	query := `
		SELECT id, recipe_id, user_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE recipe_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	args := []any{recipeID, limit + 1}

	if cursor != nil {
		query = `
		SELECT id, recipe_id, user_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE recipe_id = $1 AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`
		args = []any{recipeID, cursor.CreatedAt, cursor.ID.String(), limit + 1}
	}

	ctx, end := database.TraceQuery(ctx, "ListReviews", query)
	rows, err := r.pool.Query(ctx, query, args...)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.RecipeID,
			&rv.UserID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}

// GetSummary recomputes the average rating and review count for a recipe
// over the complete unpaginated review set.
func (r *ReviewRepository) GetSummary(ctx context.Context, recipeID string) (*domain.ReviewSummary, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE recipe_id = $1`

	var summary domain.ReviewSummary

	ctx, end := database.TraceQuery(ctx, "GetReviewSummary", query)
	err := r.pool.QueryRow(ctx, query, recipeID).Scan(
		&summary.AverageRating,
		&summary.TotalReviews,
	)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("get review summary: %w", err)
	}

	// Round average rating to one decimal place.
	summary.AverageRating = math.Round(summary.AverageRating*10) / 10

	return &summary, nil
}
