package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	"github.com/JoseCristhianRG/RecetApp/pkg/database"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
)

// RecipeRepository implements repository.RecipeRepository using PostgreSQL.
type RecipeRepository struct {
	pool database.DBTX
}

// NewRecipeRepository creates a new PostgreSQL-backed recipe repository.
func NewRecipeRepository(pool database.DBTX) *RecipeRepository {
	return &RecipeRepository{pool: pool}
}

// Create inserts a new recipe and its ordered steps in a single transaction.
func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO recipes (id, user_id, category_id, name, slug, description, ingredients, tags, image_url, is_public, status, average_rating, total_reviews, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = tx.Exec(ctx, query,
		recipe.ID,
		recipe.UserID,
		recipe.CategoryID,
		recipe.Name,
		recipe.Slug,
		recipe.Description,
		recipe.Ingredients,
		recipe.Tags,
		recipe.ImageURL,
		recipe.IsPublic,
		recipe.Status,
		recipe.AverageRating,
		recipe.TotalReviews,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("recipe", "slug", recipe.Slug)
		}
		return fmt.Errorf("insert recipe: %w", err)
	}

	if err := insertSteps(ctx, tx, recipe.ID, recipe.Steps); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a recipe by its ID, including its ordered steps.
func (r *RecipeRepository) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	query := `
		SELECT id, user_id, category_id, name, slug, description, ingredients, tags, image_url, is_public, status, average_rating, total_reviews, created_at, updated_at
		FROM recipes
		WHERE id = $1`

	var rec domain.Recipe

	ctx, end := database.TraceQuery(ctx, "GetRecipe", query)
	err := r.pool.QueryRow(ctx, query, id).Scan(
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
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("recipe", id)
		}
		return nil, fmt.Errorf("scan recipe: %w", err)
	}

	steps, err := r.listSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Steps = steps

	return &rec, nil
}

// Update modifies an existing recipe and replaces its steps in a single
// transaction.
func (r *RecipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	recipe.UpdatedAt = time.Now().UTC()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE recipes
		SET category_id = $1, name = $2, slug = $3, description = $4, ingredients = $5,
		    tags = $6, image_url = $7, is_public = $8, status = $9, updated_at = $10
		WHERE id = $11`

	ct, err := tx.Exec(ctx, query,
		recipe.CategoryID,
		recipe.Name,
		recipe.Slug,
		recipe.Description,
		recipe.Ingredients,
		recipe.Tags,
		recipe.ImageURL,
		recipe.IsPublic,
		recipe.Status,
		recipe.UpdatedAt,
		recipe.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("recipe", "slug", recipe.Slug)
		}
		return fmt.Errorf("update recipe: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("recipe", recipe.ID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_steps WHERE recipe_id = $1`, recipe.ID); err != nil {
		return fmt.Errorf("delete recipe steps: %w", err)
	}

	if err := insertSteps(ctx, tx, recipe.ID, recipe.Steps); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Delete removes a recipe from the database. Steps, reviews, and favorites
// are removed by ON DELETE CASCADE.
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM recipes WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("recipe", id)
	}

	return nil
}

// List returns recipes matching the given filter with the total count.
// Steps are not loaded for listings.
func (r *RecipeRepository) List(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argIndex))
		args = append(args, filter.CategoryID)
		argIndex++
	}

	if filter.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(tags)", argIndex))
		args = append(args, filter.Tag)
		argIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, filter.UserID)
		argIndex++
	}

	if filter.PublicOnly {
		conditions = append(conditions, "is_public = true AND status = 'published'")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Use count(*) OVER() for total count in a single query.
	query := fmt.Sprintf(`
		SELECT id, user_id, category_id, name, slug, description, ingredients, tags, image_url, is_public, status, average_rating, total_reviews, created_at, updated_at,
			   count(*) OVER() AS total_count
		FROM recipes
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	args = append(args, limit, offset)

	ctx, end := database.TraceQuery(ctx, "ListRecipes", query)
	rows, err := r.pool.Query(ctx, query, args...)
	end(err)
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
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
			return nil, 0, fmt.Errorf("scan recipe row: %w", err)
		}
		recipes = append(recipes, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate recipe rows: %w", err)
	}

	if recipes == nil {
		recipes = []domain.Recipe{}
	}

	return recipes, totalCount, nil
}

// UpdateStats writes the denormalized rating aggregate onto the recipe row.
func (r *RecipeRepository) UpdateStats(ctx context.Context, recipeID string, averageRating float64, totalReviews int) error {
	query := `UPDATE recipes SET average_rating = $1, total_reviews = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, averageRating, totalReviews, recipeID)
	if err != nil {
		return fmt.Errorf("update recipe stats: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("recipe", recipeID)
	}

	return nil
}

// insertSteps inserts the ordered steps for a recipe inside a transaction.
func insertSteps(ctx context.Context, tx pgx.Tx, recipeID string, steps []domain.RecipeStep) error {
	for _, step := range steps {
		_, err := tx.Exec(ctx,
			`INSERT INTO recipe_steps (recipe_id, position, content) VALUES ($1, $2, $3)`,
			recipeID, step.Position, step.Content,
		)
		if err != nil {
			return fmt.Errorf("insert recipe step %d: %w", step.Position, err)
		}
	}
	return nil
}

// listSteps loads the ordered steps of a recipe.
func (r *RecipeRepository) listSteps(ctx context.Context, recipeID string) ([]domain.RecipeStep, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT position, content FROM recipe_steps WHERE recipe_id = $1 ORDER BY position`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list recipe steps: %w", err)
	}
	defer rows.Close()

	var steps []domain.RecipeStep
	for rows.Next() {
		var s domain.RecipeStep
		if err := rows.Scan(&s.Position, &s.Content); err != nil {
			return nil, fmt.Errorf("scan recipe step: %w", err)
		}
		steps = append(steps, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe steps: %w", err)
	}

	return steps, nil
}
