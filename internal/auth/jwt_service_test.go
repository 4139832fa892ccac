package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:    uuid.New(),
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  model.RoleUser,
	}
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("access-secret", "refresh-secret")
	user := testUser()

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.WithinDuration(t, time.Now().Add(AccessTokenExpiry), claims.ExpiresAt.Time, 2*time.Second)

	id, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestJWTService_AccessTokenDeterministic(t *testing.T) {
	issued := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewJWTService("access-secret", "refresh-secret", WithClock(func() time.Time { return issued }))
	user := testUser()

	first, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	second, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestJWTService_RefreshTokensAreUnique(t *testing.T) {
	issued := time.Now()
	svc := NewJWTService("access-secret", "refresh-secret", WithClock(func() time.Time { return issued }))
	user := testUser()

	first, exp, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)
	second, _, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, issued.Add(RefreshTokenExpiry), exp)

	claims, err := svc.ValidateRefreshToken(first)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	past := func() time.Time { return time.Now().Add(-20 * time.Minute) }
	svc := NewJWTService("access-secret", "refresh-secret", WithClock(past))

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	require.Error(t, err)
	assert.True(t, IsExpired(err))
}

func TestJWTService_SecretsAreNotInterchangeable(t *testing.T) {
	svc := NewJWTService("access-secret", "refresh-secret")
	user := testUser()

	access, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	refresh, _, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	require.Error(t, err)
	assert.False(t, IsExpired(err))

	_, err = svc.ValidateAccessToken(refresh)
	require.Error(t, err)
	assert.False(t, IsExpired(err))
}

func TestJWTService_MalformedToken(t *testing.T) {
	svc := NewJWTService("access-secret", "refresh-secret")
	_, err := svc.ValidateAccessToken("not-a-jwt")
	require.Error(t, err)
	assert.False(t, IsExpired(err))
	assert.NotEmpty(t, err.Error())
}

func TestJWTService_WithTTL(t *testing.T) {
	svc := NewJWTService("a", "r", WithTTL(time.Minute, time.Hour))
	assert.Equal(t, time.Hour, svc.RefreshTTL())

	svc = NewJWTService("a", "r", WithTTL(0, 0))
	assert.Equal(t, RefreshTokenExpiry, svc.RefreshTTL())
}
