package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb), mr
}

func TestClient_SetGetExpire(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_Counter(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	assert.Equal(t, int64(0), c.Counter(ctx, "gen"))
	c.Incr(ctx, "gen")
	c.Incr(ctx, "gen")
	assert.Equal(t, int64(2), c.Counter(ctx, "gen"))
}

func TestClient_FailsSafe(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	mr.Close()

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.Equal(t, int64(0), c.Counter(ctx, "gen"))

	var nilClient *Client
	got, err = nilClient.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
