package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestPostCacheRoundTripAndInvalidate(t *testing.T) {
	_, client := newMiniredis(t)
	c := NewPostCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()

	key := c.Key(ctx, "list", "all", "1", "10")
	c.Set(ctx, key, map[string]int{"total": 3})

	var got map[string]int
	require.True(t, c.Get(ctx, key, &got))
	assert.Equal(t, 3, got["total"])

	c.Invalidate(ctx)
	newKey := c.Key(ctx, "list", "all", "1", "10")
	assert.NotEqual(t, key, newKey)
	assert.False(t, c.Get(ctx, newKey, &got))
}

func TestPostCacheDisabled(t *testing.T) {
	c := NewPostCache(nil, time.Minute, zap.NewNop())
	ctx := context.Background()

	assert.False(t, c.Enabled())
	c.Set(ctx, "k", "v")
	c.Invalidate(ctx)

	var got string
	assert.False(t, c.Get(ctx, "k", &got))
}

func TestNewRedisClientWithoutAddress(t *testing.T) {
	assert.Nil(t, NewRedisClient(context.Background(), "", zap.NewNop()))
}

func TestNewRedisClientConnects(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(context.Background(), mr.Addr(), zap.NewNop())
	require.NotNil(t, client)
	_ = client.Close()
}

func TestRedisRevoker(t *testing.T) {
	mr, client := newMiniredis(t)
	r := NewTokenRevoker(client)
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "abc", time.Minute))
	revoked, err = r.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = r.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryRevokerExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewMemoryRevoker()
	r.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "abc", time.Minute))
	revoked, _ := r.IsRevoked(ctx, "abc")
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = r.IsRevoked(ctx, "abc")
	assert.False(t, revoked)
}
