package domain

import (
	"time"
)

// Review represents one user's rating and comment for one recipe.
// RecipeID and UserID are immutable after creation. At most one review per
// (recipe_id, user_id) pair exists, enforced by a store-level unique
// constraint.
type Review struct {
	ID        string    `json:"id"`
	RecipeID  string    `json:"recipe_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author display fields, filled by enrichment lookups against the user
	// store. Empty AuthorName means the lookup failed or was skipped.
	AuthorName     string `json:"author_name,omitempty"`
	AuthorPhotoURL string `json:"author_photo_url,omitempty"`
}

// Edited reports whether the review has been modified after creation.
func (r *Review) Edited() bool {
	return r.UpdatedAt.After(r.CreatedAt)
}

// ReviewSummary holds the aggregate rating statistics for a recipe.
type ReviewSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}
