package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore tracks which refresh tokens are currently valid for each user.
type SessionStore interface {
	// Add tracks token for the user alongside any existing tokens.
	Add(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	// Replace drops every tracked token for the user and tracks only token.
	Replace(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	// Contains reports whether token is tracked and not past its expiry.
	Contains(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	// Revoke stops tracking a single token.
	Revoke(ctx context.Context, userID uuid.UUID, token string) error
}

// RedisSessionStore keeps one sorted set per user: members are SHA-256 digests
// of refresh tokens, scores are their expiry as unix seconds. Mutations run
// inside MULTI/EXEC so concurrent writers never observe a half-applied change.
type RedisSessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// Ensure RedisSessionStore implements SessionStore
var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a session store backed by Redis.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, now: time.Now}
}

// Add tracks an additional refresh token and prunes expired entries.
func (s *RedisSessionStore) Add(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	key := sessionKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(s.now().Unix(), 10))
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(expiresAt.Unix()), Member: digest(token)})
		// All refresh tokens share one lifetime, so the newest entry expires last.
		pipe.ExpireAt(ctx, key, expiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("add session: %w", err)
	}
	return nil
}

// Replace makes token the only tracked refresh token of the user.
func (s *RedisSessionStore) Replace(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	key := sessionKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(expiresAt.Unix()), Member: digest(token)})
		pipe.ExpireAt(ctx, key, expiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace sessions: %w", err)
	}
	return nil
}

// Contains reports whether the token is tracked for the user and unexpired.
func (s *RedisSessionStore) Contains(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	score, err := s.client.ZScore(ctx, sessionKey(userID), digest(token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup session: %w", err)
	}
	return int64(score) > s.now().Unix(), nil
}

// Revoke removes a single refresh token.
func (s *RedisSessionStore) Revoke(ctx context.Context, userID uuid.UUID, token string) error {
	if err := s.client.ZRem(ctx, sessionKey(userID), digest(token)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func sessionKey(userID uuid.UUID) string {
	return sessionKeyPrefix + userID.String()
}

// digest hashes a refresh token so raw tokens never sit in Redis.
func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
