package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	"github.com/JoseCristhianRG/RecetApp/internal/event"
	"github.com/JoseCristhianRG/RecetApp/internal/repository"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
	"github.com/JoseCristhianRG/RecetApp/pkg/pagination"
)

// reviewPageSize is the fixed page size for review listings.
const reviewPageSize = 5

// recipeReviewState is the cached review view for a single recipe: the pages
// fetched so far, the keyset cursor pointing at the last cached review, and
// whether more pages exist. The generation counter advances on every full
// refetch so responses from superseded fetches can be discarded.
type recipeReviewState struct {
	items      []domain.Review
	cursor     *pagination.Cursor
	hasMore    bool
	loading    bool
	generation uint64
}

// ReviewPage is a snapshot of the cached review view for one recipe.
type ReviewPage struct {
	Reviews    []domain.Review `json:"reviews"`
	NextCursor string          `json:"next_cursor,omitempty"`
	HasMore    bool            `json:"has_more"`
}

// ReviewService owns the per-recipe cached review view and keeps the
// denormalized recipe rating statistics consistent with the review set.
// All cache access goes through the mutex; store calls happen outside it.
type ReviewService struct {
	reviews  repository.ReviewRepository
	recipes  repository.RecipeRepository
	users    repository.UserRepository
	producer *event.Producer
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[string]*recipeReviewState
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	recipes repository.RecipeRepository,
	users repository.UserRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		recipes:  recipes,
		users:    users,
		producer: producer,
		logger:   logger,
		cache:    make(map[string]*recipeReviewState),
	}
}

// FetchReviews loads the first page of reviews for a recipe, replacing any
// previously cached pages. It records the cursor of the last returned review
// and whether further pages exist. If a newer fetch for the same recipe
// starts while this one is in flight, the stale response is dropped and the
// current cache is returned instead.
func (s *ReviewService) FetchReviews(ctx context.Context, recipeID string) (*ReviewPage, error) {
	if recipeID == "" {
		return nil, apperrors.InvalidInput("recipe id is required")
	}

	s.mu.Lock()
	st := s.stateLocked(recipeID)
	st.generation++
	gen := st.generation
	st.loading = true
	s.mu.Unlock()

	rows, err := s.reviews.ListByRecipeID(ctx, recipeID, reviewPageSize, nil)
	var page pagination.Page[domain.Review]
	if err == nil {
		page = pagination.NewPage(rows, reviewPageSize, reviewCursor)
		s.enrichAuthors(ctx, page.Items)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st.loading = false

	if err != nil {
		// Fetch failures leave the cache unchanged.
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}

	if st.generation != gen {
		s.logger.DebugContext(ctx, "dropping stale review fetch",
			slog.String("recipe_id", recipeID),
			slog.Uint64("generation", gen),
		)
		return snapshotLocked(st), nil
	}

	st.items = page.Items
	st.cursor = lastCursor(page.Items)
	st.hasMore = page.HasMore

	return snapshotLocked(st), nil
}

// FetchMoreReviews loads the next page for a recipe and appends it to the
// cached list. It is a no-op returning the current cache when the recipe has
// no recorded cursor, has no further pages, or already has a fetch in
// flight.
func (s *ReviewService) FetchMoreReviews(ctx context.Context, recipeID string) (*ReviewPage, error) {
	s.mu.Lock()
	st, ok := s.cache[recipeID]
	if !ok || st.cursor == nil || !st.hasMore || st.loading {
		var snap *ReviewPage
		if ok {
			snap = snapshotLocked(st)
		} else {
			snap = &ReviewPage{Reviews: []domain.Review{}}
		}
		s.mu.Unlock()
		return snap, nil
	}
	st.loading = true
	gen := st.generation
	cursor := *st.cursor
	s.mu.Unlock()

	rows, err := s.reviews.ListByRecipeID(ctx, recipeID, reviewPageSize, &cursor)
	var page pagination.Page[domain.Review]
	if err == nil {
		page = pagination.NewPage(rows, reviewPageSize, reviewCursor)
		s.enrichAuthors(ctx, page.Items)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st.loading = false

	if err != nil {
		return nil, fmt.Errorf("fetch more reviews: %w", err)
	}

	if st.generation != gen {
		// A full refetch replaced the cache while this page was in flight.
		return snapshotLocked(st), nil
	}

	st.items = append(st.items, page.Items...)
	if c := lastCursor(page.Items); c != nil {
		st.cursor = c
	}
	st.hasMore = page.HasMore

	return snapshotLocked(st), nil
}

// AddReview persists a new review and optimistically prepends it to the
// cached page for the recipe, creating the cache entry if no page was fetched
// yet so the author's own review is immediately visible. The recipe's
// authoritative rating statistics are recomputed afterwards. The prepend
// happens only after the write succeeds.
func (s *ReviewService) AddReview(ctx context.Context, recipeID, userID string, rating int, comment string) (*domain.Review, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}
	if recipeID == "" {
		return nil, apperrors.InvalidInput("recipe id is required")
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:        uuid.New().String(),
		RecipeID:  recipeID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if u, err := s.users.GetByID(ctx, userID); err == nil {
		review.AuthorName = u.DisplayName
		review.AuthorPhotoURL = u.PhotoURL
	} else {
		s.logger.WarnContext(ctx, "review author lookup failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.mu.Lock()
	st := s.stateLocked(recipeID)
	st.items = append([]domain.Review{*review}, st.items...)
	s.mu.Unlock()

	s.updateRecipeStats(ctx, recipeID)

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("recipe_id", recipeID),
		slog.String("user_id", userID),
		slog.Int("rating", rating),
	)

	return review, nil
}

// UpdateReview persists new rating and comment values for the caller's
// review, then patches the matching cached entry in place, preserving its
// position in the list. The store write happens before any cache mutation.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, recipeID, userID string, rating int, comment string) (*domain.Review, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:        reviewID,
		RecipeID:  recipeID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		UpdatedAt: now,
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.mu.Lock()
	if st, ok := s.cache[recipeID]; ok {
		for i := range st.items {
			if st.items[i].ID == reviewID {
				st.items[i].Rating = review.Rating
				st.items[i].Comment = review.Comment
				st.items[i].UpdatedAt = now
				*review = st.items[i]
				break
			}
		}
	}
	s.mu.Unlock()

	s.updateRecipeStats(ctx, recipeID)

	if err := s.producer.PublishReviewUpdated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.updated event",
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("review_id", reviewID),
		slog.String("recipe_id", recipeID),
	)

	return review, nil
}

// DeleteReview removes the caller's review from the store and filters it out
// of the cached list, then recomputes the recipe's rating statistics.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, recipeID, userID string) error {
	if userID == "" {
		return apperrors.Unauthorized("authentication required")
	}

	if err := s.reviews.Delete(ctx, reviewID, recipeID, userID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.mu.Lock()
	if st, ok := s.cache[recipeID]; ok {
		filtered := st.items[:0]
		for _, rv := range st.items {
			if rv.ID != reviewID {
				filtered = append(filtered, rv)
			}
		}
		st.items = filtered
	}
	s.mu.Unlock()

	s.updateRecipeStats(ctx, recipeID)

	if err := s.producer.PublishReviewDeleted(ctx, reviewID, recipeID, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", reviewID),
		slog.String("recipe_id", recipeID),
	)

	return nil
}

// GetUserReview returns the cached review authored by the given user for the
// recipe, or nil when no page has been loaded or the user has no cached
// review. It never triggers a fetch.
func (s *ReviewService) GetUserReview(recipeID, userID string) *domain.Review {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.cache[recipeID]
	if !ok {
		return nil
	}

	for _, rv := range st.items {
		if rv.UserID == userID {
			cpy := rv
			return &cpy
		}
	}

	return nil
}

// GetRecipeStats computes rating statistics over the currently cached pages
// only. With pagination active this is a partial view that can differ from
// the authoritative stored statistics; the stored values on the recipe row
// are maintained separately by updateRecipeStats over the full review set.
func (s *ReviewService) GetRecipeStats(recipeID string) domain.ReviewSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.cache[recipeID]
	if !ok || len(st.items) == 0 {
		return domain.ReviewSummary{}
	}

	var sum int
	for _, rv := range st.items {
		sum += rv.Rating
	}
	avg := float64(sum) / float64(len(st.items))

	return domain.ReviewSummary{
		AverageRating: math.Round(avg*10) / 10,
		TotalReviews:  len(st.items),
	}
}

// GetSummary returns the authoritative rating statistics recomputed over the
// complete review set.
func (s *ReviewService) GetSummary(ctx context.Context, recipeID string) (*domain.ReviewSummary, error) {
	summary, err := s.reviews.GetSummary(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("get review summary: %w", err)
	}
	return summary, nil
}

// IsLoading reports whether a fetch for the recipe is currently in flight.
func (s *ReviewService) IsLoading(recipeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.cache[recipeID]
	return ok && st.loading
}

// updateRecipeStats recomputes the recipe's average rating and review count
// from the complete unpaginated review set and writes both onto the recipe
// row. Failures are logged and swallowed: a failed recompute must not roll
// back the review mutation that triggered it.
func (s *ReviewService) updateRecipeStats(ctx context.Context, recipeID string) {
	summary, err := s.reviews.GetSummary(ctx, recipeID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to recompute recipe stats",
			slog.String("recipe_id", recipeID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.recipes.UpdateStats(ctx, recipeID, summary.AverageRating, summary.TotalReviews); err != nil {
		s.logger.ErrorContext(ctx, "failed to store recipe stats",
			slog.String("recipe_id", recipeID),
			slog.String("error", err.Error()),
		)
	}
}

// enrichAuthors fills author display fields by point lookups against the
// user store. A failed lookup degrades that review to an anonymous author.
func (s *ReviewService) enrichAuthors(ctx context.Context, items []domain.Review) {
	for i := range items {
		u, err := s.users.GetByID(ctx, items[i].UserID)
		if err != nil {
			s.logger.WarnContext(ctx, "review author lookup failed",
				slog.String("review_id", items[i].ID),
				slog.String("user_id", items[i].UserID),
				slog.String("error", err.Error()),
			)
			continue
		}
		items[i].AuthorName = u.DisplayName
		items[i].AuthorPhotoURL = u.PhotoURL
	}
}

// stateLocked returns the cache entry for the recipe, creating it if needed.
// Callers must hold the mutex.
func (s *ReviewService) stateLocked(recipeID string) *recipeReviewState {
	st, ok := s.cache[recipeID]
	if !ok {
		st = &recipeReviewState{}
		s.cache[recipeID] = st
	}
	return st
}

// snapshotLocked copies the cached state into a ReviewPage. Callers must
// hold the mutex.
func snapshotLocked(st *recipeReviewState) *ReviewPage {
	items := make([]domain.Review, len(st.items))
	copy(items, st.items)

	var next string
	if st.hasMore && st.cursor != nil {
		next = st.cursor.Encode()
	}

	return &ReviewPage{
		Reviews:    items,
		NextCursor: next,
		HasMore:    st.hasMore,
	}
}

// reviewCursor derives the keyset cursor for a review.
func reviewCursor(r domain.Review) pagination.Cursor {
	id, _ := uuid.Parse(r.ID)
	return pagination.Cursor{CreatedAt: r.CreatedAt, ID: id}
}

// lastCursor returns the cursor of the last review in the slice, or nil for
// an empty slice.
func lastCursor(items []domain.Review) *pagination.Cursor {
	if len(items) == 0 {
		return nil
	}
	c := reviewCursor(items[len(items)-1])
	return &c
}
