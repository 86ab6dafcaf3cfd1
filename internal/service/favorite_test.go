package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
)

type favoriteTestFixture struct {
	svc       *FavoriteService
	favorites *mockFavoriteRepo
	recipes   *mockRecipeRepo
}

func newFavoriteTestFixture(t *testing.T) *favoriteTestFixture {
	t.Helper()

	favorites := new(mockFavoriteRepo)
	recipes := new(mockRecipeRepo)
	svc := NewFavoriteService(favorites, recipes, newTestLogger())

	return &favoriteTestFixture{svc: svc, favorites: favorites, recipes: recipes}
}

func TestFavoriteService_Add_Success(t *testing.T) {
	f := newFavoriteTestFixture(t)

	f.recipes.On("GetByID", mock.Anything, "recipe-1").Return(testRecipe(), nil).Once()
	f.favorites.On("Add", mock.Anything, "user-1", "recipe-1").Return(nil).Once()

	err := f.svc.Add(context.Background(), "user-1", "recipe-1")

	require.NoError(t, err)
	f.favorites.AssertExpectations(t)
}

func TestFavoriteService_Add_PrivateRecipeHidden(t *testing.T) {
	f := newFavoriteTestFixture(t)

	private := testRecipe()
	private.IsPublic = false

	f.recipes.On("GetByID", mock.Anything, "recipe-1").Return(private, nil).Once()

	err := f.svc.Add(context.Background(), "user-1", "recipe-1")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	f.favorites.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestFavoriteService_Add_OwnerCanFavoriteOwnDraft(t *testing.T) {
	f := newFavoriteTestFixture(t)

	draft := testRecipe()
	draft.Status = domain.RecipeStatusDraft

	f.recipes.On("GetByID", mock.Anything, "recipe-1").Return(draft, nil).Once()
	f.favorites.On("Add", mock.Anything, "owner-1", "recipe-1").Return(nil).Once()

	err := f.svc.Add(context.Background(), "owner-1", "recipe-1")

	require.NoError(t, err)
}

func TestFavoriteService_Remove_NotFound(t *testing.T) {
	f := newFavoriteTestFixture(t)

	f.favorites.On("Remove", mock.Anything, "user-1", "recipe-x").
		Return(apperrors.NotFound("favorite", "recipe-x")).Once()

	err := f.svc.Remove(context.Background(), "user-1", "recipe-x")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFavoriteService_List_DefaultsLimit(t *testing.T) {
	f := newFavoriteTestFixture(t)

	f.favorites.On("List", mock.Anything, "user-1", 20, 0).
		Return([]domain.Recipe{*testRecipe()}, 1, nil).Once()

	recipes, total, err := f.svc.List(context.Background(), "user-1", 0, -3)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, recipes, 1)
}

func TestFavoriteService_IsFavorite(t *testing.T) {
	f := newFavoriteTestFixture(t)

	f.favorites.On("Exists", mock.Anything, "user-1", "recipe-1").Return(true, nil).Once()

	got, err := f.svc.IsFavorite(context.Background(), "user-1", "recipe-1")

	require.NoError(t, err)
	assert.True(t, got)
}
