package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
)

const keyPrefix = "draft:"

// DraftRepository implements repository.DraftRepository using Redis.
// Drafts expire after the configured TTL so abandoned wizard sessions do not
// accumulate.
type DraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftRepository creates a new Redis-backed draft repository.
func NewDraftRepository(client *redis.Client, ttl time.Duration) *DraftRepository {
	return &DraftRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the user's in-progress draft from Redis.
func (r *DraftRepository) Get(ctx context.Context, userID string) (*domain.RecipeDraft, error) {
	key := keyPrefix + userID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("draft", userID)
		}
		return nil, fmt.Errorf("redis get draft: %w", err)
	}

	var draft domain.RecipeDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}

	return &draft, nil
}

// Save persists the user's draft to Redis with the configured TTL, replacing
// any previous one.
func (r *DraftRepository) Save(ctx context.Context, draft *domain.RecipeDraft) error {
	key := keyPrefix + draft.UserID

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set draft: %w", err)
	}

	return nil
}

// Delete removes the user's draft. Deleting a missing draft is not an error.
func (r *DraftRepository) Delete(ctx context.Context, userID string) error {
	key := keyPrefix + userID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del draft: %w", err)
	}

	return nil
}
