package domain

import (
	"time"
)

// RecipeDraft is the server-side persistence of the multi-step recipe
// authoring wizard. Each user has at most one in-progress draft; it is
// cleared when the recipe is published.
type RecipeDraft struct {
	UserID      string    `json:"user_id"`
	Step        int       `json:"step"`
	Name        string    `json:"name,omitempty"`
	CategoryID  string    `json:"category_id,omitempty"`
	Description string    `json:"description,omitempty"`
	Ingredients []string  `json:"ingredients,omitempty"`
	Steps       []string  `json:"steps,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsPublic    bool      `json:"is_public"`
	UpdatedAt   time.Time `json:"updated_at"`
}
