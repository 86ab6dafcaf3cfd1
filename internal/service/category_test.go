package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
)

type catalogTestFixture struct {
	categories  *mockCategoryRepo
	ingredients *mockIngredientRepo
	svc         *CatalogService
}

func newCatalogTestFixture(t *testing.T) *catalogTestFixture {
	t.Helper()

	categories := new(mockCategoryRepo)
	ingredients := new(mockIngredientRepo)

	return &catalogTestFixture{
		categories:  categories,
		ingredients: ingredients,
		svc:         NewCatalogService(categories, ingredients, newTestLogger()),
	}
}

func TestCatalogService_ListCategories(t *testing.T) {
	f := newCatalogTestFixture(t)

	f.categories.On("List", mock.Anything).Return([]domain.Category{
		{ID: "cat-1", Name: "Postres", Slug: "postres", CreatedAt: time.Now().UTC()},
		{ID: "cat-2", Name: "Sopas", Slug: "sopas", CreatedAt: time.Now().UTC()},
	}, nil)

	categories, err := f.svc.ListCategories(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "postres", categories[0].Slug)
}

func TestCatalogService_CreateCategory_Success(t *testing.T) {
	f := newCatalogTestFixture(t)

	f.categories.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Category) bool {
		return c.Name == "Comida Mexicana" && c.Slug == "comida-mexicana" && c.ID != ""
	})).Return(nil)

	category, err := f.svc.CreateCategory(context.Background(), "  Comida Mexicana  ")

	require.NoError(t, err)
	assert.Equal(t, "Comida Mexicana", category.Name)
	assert.Equal(t, "comida-mexicana", category.Slug)
	f.categories.AssertExpectations(t)
}

func TestCatalogService_CreateCategory_EmptyName(t *testing.T) {
	f := newCatalogTestFixture(t)

	_, err := f.svc.CreateCategory(context.Background(), "   ")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	f.categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_CreateCategory_Duplicate(t *testing.T) {
	f := newCatalogTestFixture(t)

	f.categories.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.AlreadyExists("category", "name", "Postres"))

	_, err := f.svc.CreateCategory(context.Background(), "Postres")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestCatalogService_CreateIngredient_NormalizesName(t *testing.T) {
	f := newCatalogTestFixture(t)

	f.ingredients.On("Create", mock.Anything, mock.MatchedBy(func(i *domain.Ingredient) bool {
		return i.Name == "pimentón ahumado"
	})).Return(nil)

	ingredient, err := f.svc.CreateIngredient(context.Background(), "  Pimentón Ahumado ")

	require.NoError(t, err)
	assert.Equal(t, "pimentón ahumado", ingredient.Name)
	f.ingredients.AssertExpectations(t)
}

func TestCatalogService_DeleteCategory_NotFound(t *testing.T) {
	f := newCatalogTestFixture(t)

	f.categories.On("Delete", mock.Anything, "missing-id").
		Return(apperrors.NotFound("category", "missing-id"))

	err := f.svc.DeleteCategory(context.Background(), "missing-id")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_DeleteIngredient(t *testing.T) {
	f := newCatalogTestFixture(t)

	f.ingredients.On("Delete", mock.Anything, "ing-1").Return(nil)

	require.NoError(t, f.svc.DeleteIngredient(context.Background(), "ing-1"))
	f.ingredients.AssertExpectations(t)
}
