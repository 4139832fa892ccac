package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"blogapi/internal/auth"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// SignUpInput carries a validated registration payload.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// SignInInput carries validated credentials.
type SignInInput struct {
	Email    string
	Password string
}

// AuthResult is the sanitized user followed by its freshly issued tokens.
type AuthResult struct {
	*model.User
	Token auth.TokenPair `json:"token"`
}

// AuthService handles authentication operations.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error)
	SignIn(ctx context.Context, in SignInInput) (*AuthResult, error)
	SignOut(ctx context.Context, userID uuid.UUID, refreshToken string) error
}

type authService struct {
	users      repository.UserRepository
	tokens     *auth.TokenService
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, bcryptCost int, logger *zap.Logger) AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// SignUp issues both tokens for a new user before persisting it, so a failed
// session write never leaves an account behind that cannot sign in again.
func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if revokeErr := s.tokens.Revoke(ctx, user.ID, refreshToken); revokeErr != nil {
			s.logger.Warn("orphaned sign-up session not revoked", zap.String("user_id", user.ID.String()), zap.Error(revokeErr))
		}
		if errors.Is(err, apperrors.ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID.String()))
	return &AuthResult{
		User:  user,
		Token: auth.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
	}, nil
}

// SignIn checks credentials and replaces every existing session with a new one.
func (s *authService) SignIn(ctx context.Context, in SignInInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.ReplaceRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed in", zap.String("user_id", user.ID.String()))
	return &AuthResult{
		User:  user,
		Token: auth.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
	}, nil
}

// SignOut ends the session identified by refreshToken.
func (s *authService) SignOut(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if refreshToken == "" {
		return apperrors.ErrRefreshTokenRequired
	}
	if err := s.tokens.Revoke(ctx, userID, refreshToken); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.logger.Info("user signed out", zap.String("user_id", userID.String()))
	return nil
}
