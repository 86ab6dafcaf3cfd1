package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
)

func setupTestRedis(t *testing.T) (*DraftRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewDraftRepository(client, 7*24*time.Hour)
	return repo, mr
}

func sampleDraft() *domain.RecipeDraft {
	return &domain.RecipeDraft{
		UserID:      "user-001",
		Step:        2,
		Name:        "Tortilla de patatas",
		CategoryID:  "cat-1",
		Ingredients: []string{"patatas", "huevos", "cebolla"},
		Steps:       []string{"Pelar las patatas", "Batir los huevos"},
		IsPublic:    true,
		UpdatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestDraftRepository_SaveAndGet(t *testing.T) {
	repo, _ := setupTestRedis(t)

	draft := sampleDraft()
	require.NoError(t, repo.Save(context.Background(), draft))

	got, err := repo.Get(context.Background(), draft.UserID)
	require.NoError(t, err)
	assert.Equal(t, draft.Name, got.Name)
	assert.Equal(t, draft.Step, got.Step)
	assert.Equal(t, draft.Ingredients, got.Ingredients)
	assert.Equal(t, draft.Steps, got.Steps)
	assert.True(t, got.IsPublic)
}

func TestDraftRepository_Get_NotFound(t *testing.T) {
	repo, _ := setupTestRedis(t)

	got, err := repo.Get(context.Background(), "user-unknown")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
}

func TestDraftRepository_Save_SetsTTL(t *testing.T) {
	repo, mr := setupTestRedis(t)

	draft := sampleDraft()
	require.NoError(t, repo.Save(context.Background(), draft))

	ttl := mr.TTL("draft:" + draft.UserID)
	assert.Equal(t, 7*24*time.Hour, ttl)
}

func TestDraftRepository_Save_ReplacesPrevious(t *testing.T) {
	repo, mr := setupTestRedis(t)

	first := sampleDraft()
	require.NoError(t, repo.Save(context.Background(), first))

	second := sampleDraft()
	second.Step = 3
	second.Name = "Tortilla de patatas con chorizo"
	require.NoError(t, repo.Save(context.Background(), second))

	raw, err := mr.Get("draft:" + first.UserID)
	require.NoError(t, err)

	var got domain.RecipeDraft
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, 3, got.Step)
	assert.Equal(t, "Tortilla de patatas con chorizo", got.Name)
}

func TestDraftRepository_Delete(t *testing.T) {
	repo, mr := setupTestRedis(t)

	draft := sampleDraft()
	require.NoError(t, repo.Save(context.Background(), draft))
	require.NoError(t, repo.Delete(context.Background(), draft.UserID))

	assert.False(t, mr.Exists("draft:"+draft.UserID))

	// Deleting again is not an error.
	assert.NoError(t, repo.Delete(context.Background(), draft.UserID))
}

func TestDraftRepository_Draft_ExpiresAfterTTL(t *testing.T) {
	repo, mr := setupTestRedis(t)

	draft := sampleDraft()
	require.NoError(t, repo.Save(context.Background(), draft))

	mr.FastForward(7*24*time.Hour + time.Second)

	_, err := repo.Get(context.Background(), draft.UserID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
}
