package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JoseCristhianRG/RecetApp/internal/auth"
	"github.com/JoseCristhianRG/RecetApp/internal/domain"
	"github.com/JoseCristhianRG/RecetApp/internal/repository"
	apperrors "github.com/JoseCristhianRG/RecetApp/pkg/errors"
	"github.com/JoseCristhianRG/RecetApp/pkg/pagination"
)

const bcryptCost = 12

// UserService handles account lifecycle, authentication, and profile
// management.
type UserService struct {
	users   repository.UserRepository
	tokens  repository.RefreshTokenRepository
	jwt     *auth.JWTManager
	logger  *slog.Logger
	refresh time.Duration
}

// NewUserService creates a new user service. refreshExpiry is how long
// issued refresh tokens stay valid.
func NewUserService(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	jwt *auth.JWTManager,
	refreshExpiry time.Duration,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:   users,
		tokens:  tokens,
		jwt:     jwt,
		refresh: refreshExpiry,
		logger:  logger,
	}
}

// RegisterInput holds the fields required to create an account.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// Register creates a new account and issues its first token pair.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, nil, err
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return nil, nil, apperrors.InvalidInput("display name is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, pair, nil
}

// Login verifies credentials and issues a token pair.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, nil, fmt.Errorf("get user by email: %w", err)
	}

	if !user.IsActive {
		return nil, nil, apperrors.Forbidden("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid credentials")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair, revoking the
// presented token so each refresh token is single use.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	stored, err := s.tokens.GetByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}

	if stored.RevokedAt != nil || time.Now().UTC().After(stored.ExpiresAt) {
		return nil, apperrors.Unauthorized("refresh token expired or revoked")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.Forbidden("account is deactivated")
	}

	if err := s.tokens.Revoke(ctx, stored.TokenHash); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token. An already revoked or unknown
// token is not an error.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokens.Revoke(ctx, hashToken(refreshToken)); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// GetProfile returns the user identified by id.
func (s *UserService) GetProfile(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput holds the mutable profile fields. Nil means unchanged.
type UpdateProfileInput struct {
	DisplayName *string
	PhotoURL    *string
}

// UpdateProfile applies the given changes to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, apperrors.InvalidInput("display name cannot be empty")
		}
		user.DisplayName = name
	}
	if input.PhotoURL != nil {
		user.PhotoURL = *input.PhotoURL
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// ChangePassword verifies the current password, stores the new hash, and
// revokes every outstanding refresh token for the user.
func (s *UserService) ChangePassword(ctx context.Context, id, current, newPassword string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if err := s.tokens.RevokeByUserID(ctx, id); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed", slog.String("user_id", id))

	return nil
}

// UpdateRole sets a user's role. Admin only; enforced at the routing layer,
// but the role value is validated here.
func (s *UserService) UpdateRole(ctx context.Context, id, role string) (*domain.User, error) {
	if !domain.IsValidRole(role) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid role %q", role))
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.Role = role
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user role updated",
		slog.String("user_id", id),
		slog.String("role", role),
	)

	return user, nil
}

// SetActive activates or deactivates an account. Deactivation also revokes
// all refresh tokens so existing sessions cannot be extended.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.IsActive = active
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if !active {
		if err := s.tokens.RevokeByUserID(ctx, id); err != nil {
			return nil, fmt.Errorf("revoke refresh tokens: %w", err)
		}
	}

	return user, nil
}

// ListUsers returns a page of users ordered by creation time descending.
func (s *UserService) ListUsers(ctx context.Context, params pagination.Params) (*pagination.Page[domain.User], error) {
	rows, err := s.users.List(ctx, params.Limit, params.Cursor)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	page := pagination.NewPage(rows, params.Limit, func(u domain.User) pagination.Cursor {
		id, _ := uuid.Parse(u.ID)
		return pagination.Cursor{CreatedAt: u.CreatedAt, ID: id}
	})

	return &page, nil
}

func (s *UserService) issueTokens(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refresh, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.refresh)
	if err := s.tokens.Create(ctx, user.ID, hashToken(refresh), expiresAt); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// hashToken returns the hex sha256 of a token. Only hashes are stored.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// validatePassword enforces the minimum password policy: at least 8
// characters with an upper case letter, a lower case letter, and a digit.
func validatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.InvalidInput("password must be at least 8 characters")
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return apperrors.InvalidInput("password must contain upper case, lower case, and digit characters")
	}

	return nil
}
