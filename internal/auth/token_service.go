package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
)

// UserFinder loads users by id.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// TokenPair is the access/refresh pair handed to clients.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService issues, verifies and rotates tokens. Refresh tokens are only
// honoured while the session store still tracks them.
type TokenService struct {
	jwt      *JWTService
	sessions SessionStore
	users    UserFinder
	logger   *zap.Logger
}

// NewTokenService creates a new token service.
func NewTokenService(jwt *JWTService, sessions SessionStore, users UserFinder, logger *zap.Logger) *TokenService {
	return &TokenService{
		jwt:      jwt,
		sessions: sessions,
		users:    users,
		logger:   logger,
	}
}

// IssueAccessToken mints a short-lived access token for the user.
func (s *TokenService) IssueAccessToken(user *model.User) (string, error) {
	token, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return token, nil
}

// IssueRefreshToken mints a refresh token and adds it to the user's sessions.
func (s *TokenService) IssueRefreshToken(ctx context.Context, user *model.User) (string, error) {
	token, expiresAt, err := s.jwt.GenerateRefreshToken(user)
	if err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.sessions.Add(ctx, user.ID, token, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// ReplaceRefreshToken mints a refresh token that becomes the user's only session.
func (s *TokenService) ReplaceRefreshToken(ctx context.Context, user *model.User) (string, error) {
	token, expiresAt, err := s.jwt.GenerateRefreshToken(user)
	if err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.sessions.Replace(ctx, user.ID, token, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// VerifyAccessToken checks an access token's signature and expiry.
func (s *TokenService) VerifyAccessToken(token string) (*Claims, error) {
	return s.jwt.ValidateAccessToken(token)
}

// VerifyRefreshSignature checks a refresh token's signature and expiry without
// consulting the session store.
func (s *TokenService) VerifyRefreshSignature(token string) (*Claims, error) {
	return s.jwt.ValidateRefreshToken(token)
}

// VerifyRefreshToken fails closed: any signature, expiry, ownership or lookup
// problem yields false.
func (s *TokenService) VerifyRefreshToken(ctx context.Context, user *model.User, candidate string) (*Claims, bool) {
	claims, err := s.jwt.ValidateRefreshToken(candidate)
	if err != nil {
		return nil, false
	}
	if claims.UserID != user.ID.String() {
		return nil, false
	}
	tracked, err := s.sessions.Contains(ctx, user.ID, candidate)
	if err != nil {
		s.logger.Warn("session lookup failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, false
	}
	if !tracked {
		return nil, false
	}
	return claims, true
}

// Rotate exchanges a tracked refresh token for a new access token. The refresh
// token itself is handed back unchanged, so rotation never writes to the
// session store.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrRefreshTokenRequired
	}

	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if _, ok := s.VerifyRefreshToken(ctx, user, refreshToken); !ok {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	accessToken, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("access token rotated", zap.String("user_id", user.ID.String()))
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Revoke ends the session identified by refreshToken.
func (s *TokenService) Revoke(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	return s.sessions.Revoke(ctx, userID, refreshToken)
}
