package domain

import (
	"time"
)

// Recipe status constants.
const (
	RecipeStatusDraft     = "draft"
	RecipeStatusPublished = "published"
)

// Recipe represents a cooking recipe authored by a user.
// AverageRating and TotalReviews are denormalized projections over the
// recipe's review set, recomputed after every review mutation.
type Recipe struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	CategoryID    string       `json:"category_id"`
	Name          string       `json:"name"`
	Slug          string       `json:"slug"`
	Description   string       `json:"description,omitempty"`
	Ingredients   []string     `json:"ingredients"`
	Steps         []RecipeStep `json:"steps,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	ImageURL      string       `json:"image_url,omitempty"`
	IsPublic      bool         `json:"is_public"`
	Status        string       `json:"status"`
	AverageRating float64      `json:"average_rating"`
	TotalReviews  int          `json:"total_reviews"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// RecipeStep is one ordered preparation step of a recipe.
type RecipeStep struct {
	Position int    `json:"position"`
	Content  string `json:"content"`
}

// RecipeFilter holds the filters accepted by recipe listings.
type RecipeFilter struct {
	CategoryID string
	Tag        string
	Search     string
	UserID     string
	// PublicOnly restricts results to public published recipes. Set for
	// anonymous callers and for any caller browsing other users' recipes.
	PublicOnly bool
	Limit      int
	Offset     int
}

// Category groups recipes for browsing.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Ingredient is a catalog entry users pick from when authoring recipes.
type Ingredient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteItem represents one recipe in a user's favorites list.
type FavoriteItem struct {
	UserID    string    `json:"user_id"`
	RecipeID  string    `json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}
