package postgres

import (
	"context"
	"fmt"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	"github.com/JoseCristhianRG/RecetApp/pkg/database"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
)

// CategoryRepository implements repository.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	pool database.DBTX
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool database.DBTX) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, slug, created_at FROM categories ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	if categories == nil {
		categories = []domain.Category{}
	}

	return categories, nil
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (id, name, slug, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Slug, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "name", c.Name)
		}
		return fmt.Errorf("insert category: %w", err)
	}

	return nil
}

// Delete removes a category by its ID.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM categories WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", id)
	}

	return nil
}

// --- Ingredient Repository ---

// IngredientRepository implements repository.IngredientRepository using PostgreSQL.
type IngredientRepository struct {
	pool database.DBTX
}

// NewIngredientRepository creates a new PostgreSQL-backed ingredient repository.
func NewIngredientRepository(pool database.DBTX) *IngredientRepository {
	return &IngredientRepository{pool: pool}
}

// List returns all ingredients ordered by name.
func (r *IngredientRepository) List(ctx context.Context) ([]domain.Ingredient, error) {
	query := `SELECT id, name, created_at FROM ingredients ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []domain.Ingredient
	for rows.Next() {
		var ing domain.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ingredient row: %w", err)
		}
		ingredients = append(ingredients, ing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredient rows: %w", err)
	}

	if ingredients == nil {
		ingredients = []domain.Ingredient{}
	}

	return ingredients, nil
}

// Create inserts a new ingredient.
func (r *IngredientRepository) Create(ctx context.Context, ing *domain.Ingredient) error {
	query := `INSERT INTO ingredients (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, ing.ID, ing.Name, ing.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("ingredient", "name", ing.Name)
		}
		return fmt.Errorf("insert ingredient: %w", err)
	}

	return nil
}

// Delete removes an ingredient by its ID.
func (r *IngredientRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM ingredients WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("ingredient", id)
	}

	return nil
}
