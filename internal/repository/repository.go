package repository

import (
	"context"
	"time"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	"github.com/JoseCristhianRG/RecetApp/pkg/pagination"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// List returns users ordered by created_at descending, resuming after
	// the cursor when one is given. Fetches limit+1 rows so callers can
	// detect whether more data exists.
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]domain.User, error)
}

// RefreshTokenRepository defines the interface for refresh token persistence.
type RefreshTokenRepository interface {
	// Create stores a new refresh token hash.
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error

	// GetByHash retrieves a refresh token record by its hash.
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Revoke revokes a specific refresh token by its hash.
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeByUserID revokes all refresh tokens for the given user.
	RevokeByUserID(ctx context.Context, userID string) error
}

// RecipeRepository defines the interface for recipe persistence operations.
type RecipeRepository interface {
	// Create inserts a new recipe with its ordered steps.
	Create(ctx context.Context, recipe *domain.Recipe) error

	// GetByID retrieves a recipe by its identifier, including ordered steps.
	GetByID(ctx context.Context, id string) (*domain.Recipe, error)

	// Update modifies an existing recipe and replaces its steps.
	Update(ctx context.Context, recipe *domain.Recipe) error

	// Delete removes a recipe from the store.
	Delete(ctx context.Context, id string) error

	// List returns recipes matching the filter and the total match count.
	// Steps are not loaded for listings.
	List(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, int, error)

	// UpdateStats writes the denormalized rating aggregate onto the recipe row.
	UpdateStats(ctx context.Context, recipeID string, averageRating float64, totalReviews int) error
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Create inserts a new review. Returns an already-exists error when the
	// user has already reviewed the recipe.
	Create(ctx context.Context, review *domain.Review) error

	// Update modifies the rating, comment, and updated_at of the review
	// identified by (id, recipe_id, user_id).
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes the review identified by (id, recipe_id, user_id).
	Delete(ctx context.Context, id, recipeID, userID string) error

	// ListByRecipeID returns reviews for a recipe ordered by created_at
	// descending, resuming strictly after the cursor when one is given.
	// Fetches limit+1 rows so callers can detect whether more data exists.
	ListByRecipeID(ctx context.Context, recipeID string, limit int, cursor *pagination.Cursor) ([]domain.Review, error)

	// GetSummary recomputes the average rating and review count for a recipe
	// over the complete unpaginated review set.
	GetSummary(ctx context.Context, recipeID string) (*domain.ReviewSummary, error)
}

// CategoryRepository defines the interface for category persistence.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// IngredientRepository defines the interface for ingredient catalog persistence.
type IngredientRepository interface {
	List(ctx context.Context) ([]domain.Ingredient, error)
	Create(ctx context.Context, ingredient *domain.Ingredient) error
	Delete(ctx context.Context, id string) error
}

// FavoriteRepository defines the interface for favorite persistence.
type FavoriteRepository interface {
	// Add inserts a recipe into the user's favorites. Idempotent.
	Add(ctx context.Context, userID, recipeID string) error

	// Remove deletes a recipe from the user's favorites.
	Remove(ctx context.Context, userID, recipeID string) error

	// List returns the user's favorite recipes and the total count.
	List(ctx context.Context, userID string, limit, offset int) ([]domain.Recipe, int, error)

	// Exists checks whether a recipe is in the user's favorites.
	Exists(ctx context.Context, userID, recipeID string) (bool, error)
}

// DraftRepository defines the interface for wizard draft persistence.
type DraftRepository interface {
	// Get retrieves the user's in-progress draft, or a not-found error.
	Get(ctx context.Context, userID string) (*domain.RecipeDraft, error)

	// Save persists the user's draft, replacing any previous one.
	Save(ctx context.Context, draft *domain.RecipeDraft) error

	// Delete removes the user's draft. Deleting a missing draft is not an error.
	Delete(ctx context.Context, userID string) error
}
