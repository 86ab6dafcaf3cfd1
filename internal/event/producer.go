package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	pkgkafka "github.com/JoseCristhianRG/RecetApp/pkg/kafka"
)

// Kafka topic constants for recipe domain events.
const (
	TopicRecipeCreated = "recetapp.recipe.created"
	TopicRecipeUpdated = "recetapp.recipe.updated"
	TopicRecipeDeleted = "recetapp.recipe.deleted"
	TopicReviewCreated = "recetapp.review.created"
	TopicReviewUpdated = "recetapp.review.updated"
	TopicReviewDeleted = "recetapp.review.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeRecipe = "recipe"
	AggregateTypeReview = "review"
)

// Source identifier for events originating from this service.
const SourceRecetApp = "recetapp"

// RecipeEventData is the payload for recipe lifecycle events.
type RecipeEventData struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	CategoryID string `json:"category_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Slug       string `json:"slug,omitempty"`
	Status     string `json:"status,omitempty"`
	IsPublic   bool   `json:"is_public,omitempty"`
}

// ReviewEventData is the payload for review lifecycle events.
type ReviewEventData struct {
	ID       string `json:"id"`
	RecipeID string `json:"recipe_id"`
	UserID   string `json:"user_id"`
	Rating   int    `json:"rating,omitempty"`
}

// Producer publishes recipe domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishRecipeCreated publishes a recipe.created event.
func (p *Producer) PublishRecipeCreated(ctx context.Context, recipe *domain.Recipe) error {
	return p.publishRecipe(ctx, TopicRecipeCreated, recipe)
}

// PublishRecipeUpdated publishes a recipe.updated event.
func (p *Producer) PublishRecipeUpdated(ctx context.Context, recipe *domain.Recipe) error {
	return p.publishRecipe(ctx, TopicRecipeUpdated, recipe)
}

// PublishRecipeDeleted publishes a recipe.deleted event.
func (p *Producer) PublishRecipeDeleted(ctx context.Context, recipeID, userID string) error {
	data := RecipeEventData{ID: recipeID, UserID: userID}

	event, err := pkgkafka.NewEvent(TopicRecipeDeleted, recipeID, AggregateTypeRecipe, SourceRecetApp, data)
	if err != nil {
		return fmt.Errorf("create recipe.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicRecipeDeleted, event); err != nil {
		return fmt.Errorf("publish recipe.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published recipe.deleted event",
		slog.String("recipe_id", recipeID),
	)

	return nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	return p.publishReview(ctx, TopicReviewCreated, review)
}

// PublishReviewUpdated publishes a review.updated event.
func (p *Producer) PublishReviewUpdated(ctx context.Context, review *domain.Review) error {
	return p.publishReview(ctx, TopicReviewUpdated, review)
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, reviewID, recipeID, userID string) error {
	data := ReviewEventData{ID: reviewID, RecipeID: recipeID, UserID: userID}

	event, err := pkgkafka.NewEvent(TopicReviewDeleted, reviewID, AggregateTypeReview, SourceRecetApp, data)
	if err != nil {
		return fmt.Errorf("create review.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewDeleted, event); err != nil {
		return fmt.Errorf("publish review.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.deleted event",
		slog.String("review_id", reviewID),
		slog.String("recipe_id", recipeID),
	)

	return nil
}

func (p *Producer) publishRecipe(ctx context.Context, topic string, recipe *domain.Recipe) error {
	data := RecipeEventData{
		ID:         recipe.ID,
		UserID:     recipe.UserID,
		CategoryID: recipe.CategoryID,
		Name:       recipe.Name,
		Slug:       recipe.Slug,
		Status:     recipe.Status,
		IsPublic:   recipe.IsPublic,
	}

	event, err := pkgkafka.NewEvent(topic, recipe.ID, AggregateTypeRecipe, SourceRecetApp, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published recipe event",
		slog.String("topic", topic),
		slog.String("recipe_id", recipe.ID),
	)

	return nil
}

func (p *Producer) publishReview(ctx context.Context, topic string, review *domain.Review) error {
	data := ReviewEventData{
		ID:       review.ID,
		RecipeID: review.RecipeID,
		UserID:   review.UserID,
		Rating:   review.Rating,
	}

	event, err := pkgkafka.NewEvent(topic, review.ID, AggregateTypeReview, SourceRecetApp, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published review event",
		slog.String("topic", topic),
		slog.String("review_id", review.ID),
		slog.String("recipe_id", review.RecipeID),
	)

	return nil
}
