package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	"github.com/JoseCristhianRG/RecetApp/internal/event"
	"github.com/JoseCristhianRG/RecetApp/internal/repository"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
	"github.com/JoseCristhianRG/RecetApp/pkg/slug"
)

const (
	defaultRecipeLimit = 20
	maxRecipeLimit     = 100
)

// RecipeService handles recipe authoring, browsing, and the wizard draft
// lifecycle.
type RecipeService struct {
	recipes  repository.RecipeRepository
	drafts   repository.DraftRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(
	recipes repository.RecipeRepository,
	drafts repository.DraftRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *RecipeService {
	return &RecipeService{
		recipes:  recipes,
		drafts:   drafts,
		producer: producer,
		logger:   logger,
	}
}

// RecipeInput holds the fields accepted when creating or updating a recipe.
// Steps are ordered as given.
type RecipeInput struct {
	CategoryID  string
	Name        string
	Description string
	Ingredients []string
	Steps       []string
	Tags        []string
	ImageURL    string
	IsPublic    bool
	Status      string
}

// Create stores a new recipe for the user. Publishing a recipe clears the
// user's wizard draft.
func (s *RecipeService) Create(ctx context.Context, userID string, input RecipeInput) (*domain.Recipe, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}
	if err := validateRecipeInput(&input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recipe := &domain.Recipe{
		ID:          uuid.New().String(),
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Slug:        slug.Generate(input.Name),
		Description: input.Description,
		Ingredients: input.Ingredients,
		Steps:       buildSteps(input.Steps),
		Tags:        input.Tags,
		ImageURL:    input.ImageURL,
		IsPublic:    input.IsPublic,
		Status:      input.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.recipes.Create(ctx, recipe)
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		// Slug collision with another recipe name. Retry once with a
		// uniquifying suffix.
		recipe.Slug = fmt.Sprintf("%s-%s", recipe.Slug, recipe.ID[:8])
		err = s.recipes.Create(ctx, recipe)
	}
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	if recipe.Status == domain.RecipeStatusPublished {
		s.clearDraft(ctx, userID)
	}

	if err := s.producer.PublishRecipeCreated(ctx, recipe); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish recipe.created event",
			slog.String("recipe_id", recipe.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "recipe created",
		slog.String("recipe_id", recipe.ID),
		slog.String("user_id", userID),
		slog.String("status", recipe.Status),
	)

	return recipe, nil
}

// Get returns a recipe with its steps. Non-public or unpublished recipes
// are visible only to their owner and to admins.
func (s *RecipeService) Get(ctx context.Context, id, viewerID, viewerRole string) (*domain.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	if !s.canView(recipe, viewerID, viewerRole) {
		// Hide existence of private recipes.
		return nil, apperrors.NotFound("recipe", id)
	}

	return recipe, nil
}

// Update replaces the mutable fields of a recipe. Only the owner or an
// admin may update. Publishing via update clears the owner's draft.
func (s *RecipeService) Update(ctx context.Context, id, callerID, callerRole string, input RecipeInput) (*domain.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	if !s.canModify(recipe, callerID, callerRole) {
		return nil, apperrors.Forbidden("you do not own this recipe")
	}
	if err := validateRecipeInput(&input); err != nil {
		return nil, err
	}

	wasPublished := recipe.Status == domain.RecipeStatusPublished

	recipe.CategoryID = input.CategoryID
	if recipe.Name != input.Name {
		recipe.Name = input.Name
		recipe.Slug = slug.Generate(input.Name)
	}
	recipe.Description = input.Description
	recipe.Ingredients = input.Ingredients
	recipe.Steps = buildSteps(input.Steps)
	recipe.Tags = input.Tags
	recipe.ImageURL = input.ImageURL
	recipe.IsPublic = input.IsPublic
	recipe.Status = input.Status
	recipe.UpdatedAt = time.Now().UTC()

	if err := s.recipes.Update(ctx, recipe); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	if !wasPublished && recipe.Status == domain.RecipeStatusPublished {
		s.clearDraft(ctx, recipe.UserID)
	}

	if err := s.producer.PublishRecipeUpdated(ctx, recipe); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish recipe.updated event",
			slog.String("recipe_id", recipe.ID),
			slog.String("error", err.Error()),
		)
	}

	return recipe, nil
}

// Delete removes a recipe. Only the owner or an admin may delete.
func (s *RecipeService) Delete(ctx context.Context, id, callerID, callerRole string) error {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get recipe: %w", err)
	}

	if !s.canModify(recipe, callerID, callerRole) {
		return apperrors.Forbidden("you do not own this recipe")
	}

	if err := s.recipes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	if err := s.producer.PublishRecipeDeleted(ctx, id, recipe.UserID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish recipe.deleted event",
			slog.String("recipe_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "recipe deleted",
		slog.String("recipe_id", id),
		slog.String("user_id", callerID),
	)

	return nil
}

// List returns recipes matching the filter and the total match count.
// Callers browsing anyone but themselves see only public published
// recipes; admins see everything.
func (s *RecipeService) List(ctx context.Context, filter domain.RecipeFilter, viewerID, viewerRole string) ([]domain.Recipe, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultRecipeLimit
	}
	if filter.Limit > maxRecipeLimit {
		filter.Limit = maxRecipeLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	ownView := filter.UserID != "" && filter.UserID == viewerID
	if viewerRole != domain.RoleAdmin && !ownView {
		filter.PublicOnly = true
	}

	recipes, total, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}

	return recipes, total, nil
}

// GetDraft returns the user's in-progress wizard draft.
func (s *RecipeService) GetDraft(ctx context.Context, userID string) (*domain.RecipeDraft, error) {
	draft, err := s.drafts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return draft, nil
}

// SaveDraft persists the user's wizard draft, replacing any previous one.
func (s *RecipeService) SaveDraft(ctx context.Context, userID string, draft *domain.RecipeDraft) error {
	if draft.Step < 1 {
		return apperrors.InvalidInput("draft step must be at least 1")
	}

	draft.UserID = userID
	draft.UpdatedAt = time.Now().UTC()

	if err := s.drafts.Save(ctx, draft); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}

	return nil
}

// DeleteDraft discards the user's wizard draft.
func (s *RecipeService) DeleteDraft(ctx context.Context, userID string) error {
	if err := s.drafts.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// clearDraft removes the draft after a publish. Failures are logged and
// swallowed so a stale draft never blocks a publish.
func (s *RecipeService) clearDraft(ctx context.Context, userID string) {
	if err := s.drafts.Delete(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear draft after publish",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *RecipeService) canView(recipe *domain.Recipe, viewerID, viewerRole string) bool {
	if recipe.IsPublic && recipe.Status == domain.RecipeStatusPublished {
		return true
	}
	return recipe.UserID == viewerID || viewerRole == domain.RoleAdmin
}

func (s *RecipeService) canModify(recipe *domain.Recipe, callerID, callerRole string) bool {
	return recipe.UserID == callerID || callerRole == domain.RoleAdmin
}

func validateRecipeInput(input *RecipeInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return apperrors.InvalidInput("name is required")
	}
	if input.CategoryID == "" {
		return apperrors.InvalidInput("category is required")
	}
	if len(input.Ingredients) == 0 {
		return apperrors.InvalidInput("at least one ingredient is required")
	}
	if len(input.Steps) == 0 {
		return apperrors.InvalidInput("at least one step is required")
	}

	switch input.Status {
	case "":
		input.Status = domain.RecipeStatusDraft
	case domain.RecipeStatusDraft, domain.RecipeStatusPublished:
	default:
		return apperrors.InvalidInput(fmt.Sprintf("invalid status %q", input.Status))
	}

	return nil
}

func buildSteps(contents []string) []domain.RecipeStep {
	steps := make([]domain.RecipeStep, 0, len(contents))
	for i, content := range contents {
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}
		steps = append(steps, domain.RecipeStep{Position: i + 1, Content: content})
	}
	return steps
}
