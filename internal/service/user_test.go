package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
	"github.com/JoseCristhianRG/RecetApp/pkg/pagination"
)

// --- fixtures ---

type userTestFixture struct {
	svc    *UserService
	users  *mockUserRepo
	tokens *mockRefreshTokenRepo
}

func newUserTestFixture(t *testing.T) *userTestFixture {
	t.Helper()

	users := new(mockUserRepo)
	tokens := new(mockRefreshTokenRepo)
	svc := NewUserService(users, tokens, newTestJWTManager(), 7*24*time.Hour, newTestLogger())

	return &userTestFixture{svc: svc, users: users, tokens: tokens}
}

func testUser() *domain.User {
	return &domain.User{
		ID:           "user-1",
		Email:        "maria@example.com",
		PasswordHash: hashForTest("Secreta123"),
		DisplayName:  "Maria Garcia",
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    time.Now().UTC().Add(-time.Hour),
		UpdatedAt:    time.Now().UTC().Add(-time.Hour),
	}
}

// --- Register ---

func TestUserService_Register_Success(t *testing.T) {
	f := newUserTestFixture(t)

	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "maria@example.com" && u.Role == domain.RoleUser && u.IsActive && u.PasswordHash != "Secreta123"
	})).Return(nil).Once()
	f.tokens.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	user, pair, err := f.svc.Register(context.Background(), RegisterInput{
		Email:       "  Maria@Example.com ",
		Password:    "Secreta123",
		DisplayName: "Maria Garcia",
	})

	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", user.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	f.users.AssertExpectations(t)
}

func TestUserService_Register_WeakPassword(t *testing.T) {
	f := newUserTestFixture(t)

	cases := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"}
	for _, password := range cases {
		_, _, err := f.svc.Register(context.Background(), RegisterInput{
			Email:       "maria@example.com",
			Password:    password,
			DisplayName: "Maria",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "password %q", password)
	}
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	f := newUserTestFixture(t)

	f.users.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.AlreadyExists("user", "email", "maria@example.com")).Once()

	_, _, err := f.svc.Register(context.Background(), RegisterInput{
		Email:       "maria@example.com",
		Password:    "Secreta123",
		DisplayName: "Maria",
	})

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

// --- Login ---

func TestUserService_Login_Success(t *testing.T) {
	f := newUserTestFixture(t)
	user := testUser()

	f.users.On("GetByEmail", mock.Anything, "maria@example.com").Return(user, nil).Once()
	f.tokens.On("Create", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil).Once()

	got, pair, err := f.svc.Login(context.Background(), "Maria@Example.com", "Secreta123")

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	f := newUserTestFixture(t)

	f.users.On("GetByEmail", mock.Anything, "maria@example.com").Return(testUser(), nil).Once()

	_, _, err := f.svc.Login(context.Background(), "maria@example.com", "WrongPass1")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	f.tokens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Login_UnknownEmailMapsToUnauthorized(t *testing.T) {
	f := newUserTestFixture(t)

	f.users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := f.svc.Login(context.Background(), "ghost@example.com", "Secreta123")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUserService_Login_DeactivatedAccount(t *testing.T) {
	f := newUserTestFixture(t)
	user := testUser()
	user.IsActive = false

	f.users.On("GetByEmail", mock.Anything, "maria@example.com").Return(user, nil).Once()

	_, _, err := f.svc.Login(context.Background(), "maria@example.com", "Secreta123")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

// --- Refresh ---

func TestUserService_Refresh_RotatesToken(t *testing.T) {
	f := newUserTestFixture(t)
	user := testUser()

	refresh, err := f.svc.jwt.GenerateRefreshToken(user.ID)
	require.NoError(t, err)

	stored := &domain.RefreshToken{
		ID:        "tok-1",
		UserID:    user.ID,
		TokenHash: hashToken(refresh),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}

	f.tokens.On("GetByHash", mock.Anything, hashToken(refresh)).Return(stored, nil).Once()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	f.tokens.On("Revoke", mock.Anything, stored.TokenHash).Return(nil).Once()
	f.tokens.On("Create", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil).Once()

	pair, err := f.svc.Refresh(context.Background(), refresh)

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, refresh, pair.RefreshToken)
	f.tokens.AssertExpectations(t)
}

func TestUserService_Refresh_RevokedToken(t *testing.T) {
	f := newUserTestFixture(t)
	user := testUser()

	refresh, err := f.svc.jwt.GenerateRefreshToken(user.ID)
	require.NoError(t, err)

	revokedAt := time.Now().UTC().Add(-time.Minute)
	stored := &domain.RefreshToken{
		ID:        "tok-1",
		UserID:    user.ID,
		TokenHash: hashToken(refresh),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		RevokedAt: &revokedAt,
	}

	f.tokens.On("GetByHash", mock.Anything, hashToken(refresh)).Return(stored, nil).Once()

	_, err = f.svc.Refresh(context.Background(), refresh)

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	f.tokens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Refresh_GarbageToken(t *testing.T) {
	f := newUserTestFixture(t)

	_, err := f.svc.Refresh(context.Background(), "not-a-jwt")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

// --- ChangePassword ---

func TestUserService_ChangePassword_RevokesAllSessions(t *testing.T) {
	f := newUserTestFixture(t)
	user := testUser()

	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == user.ID && u.PasswordHash != ""
	})).Return(nil).Once()
	f.tokens.On("RevokeByUserID", mock.Anything, user.ID).Return(nil).Once()

	err := f.svc.ChangePassword(context.Background(), user.ID, "Secreta123", "NuevaClave9")

	require.NoError(t, err)
	f.tokens.AssertExpectations(t)
}

func TestUserService_ChangePassword_WrongCurrent(t *testing.T) {
	f := newUserTestFixture(t)
	user := testUser()

	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

	err := f.svc.ChangePassword(context.Background(), user.ID, "WrongPass1", "NuevaClave9")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// --- UpdateProfile ---

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	f := newUserTestFixture(t)
	user := testUser()

	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	f.users.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	got, err := f.svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		PhotoURL: strPtr("https://cdn.recetapp.dev/avatars/new.jpg"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Maria Garcia", got.DisplayName)
	assert.Equal(t, "https://cdn.recetapp.dev/avatars/new.jpg", got.PhotoURL)
}

func TestUserService_UpdateProfile_EmptyDisplayName(t *testing.T) {
	f := newUserTestFixture(t)
	user := testUser()

	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

	_, err := f.svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		DisplayName: strPtr("   "),
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- Role management ---

func TestUserService_UpdateRole_Success(t *testing.T) {
	f := newUserTestFixture(t)
	user := testUser()

	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleAdmin
	})).Return(nil).Once()

	got, err := f.svc.UpdateRole(context.Background(), user.ID, domain.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)
}

func TestUserService_UpdateRole_InvalidRole(t *testing.T) {
	f := newUserTestFixture(t)

	_, err := f.svc.UpdateRole(context.Background(), "user-1", "superuser")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

// --- SetActive ---

func TestUserService_SetActive_DeactivationRevokesTokens(t *testing.T) {
	f := newUserTestFixture(t)
	user := testUser()

	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	f.users.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	f.tokens.On("RevokeByUserID", mock.Anything, user.ID).Return(nil).Once()

	got, err := f.svc.SetActive(context.Background(), user.ID, false)

	require.NoError(t, err)
	assert.False(t, got.IsActive)
	f.tokens.AssertExpectations(t)
}

// --- ListUsers ---

func TestUserService_ListUsers_Pagination(t *testing.T) {
	f := newUserTestFixture(t)

	rows := make([]domain.User, 21)
	base := time.Now().UTC()
	for i := range rows {
		rows[i] = domain.User{
			ID:        uuid.New().String(),
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		}
	}

	f.users.On("List", mock.Anything, 20, (*pagination.Cursor)(nil)).Return(rows, nil).Once()

	page, err := f.svc.ListUsers(context.Background(), pagination.Params{Limit: 20})

	require.NoError(t, err)
	assert.Len(t, page.Items, 20)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.NextCursor)
}
