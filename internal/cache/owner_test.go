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

func setupTest(t *testing.T) (*OwnerCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return NewOwnerCache(client, time.Minute), mr
}

func TestOwnerCache_SetGetInvalidate(t *testing.T) {
	c, mr := setupTest(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "r1")
	assert.False(t, ok)

	c.Set(ctx, "r1", "u1")
	owner, ok := c.Get(ctx, "r1")
	require.True(t, ok)
	assert.Equal(t, "u1", owner)
	assert.True(t, mr.Exists("receiver:owner:r1"))

	c.Invalidate(ctx, "r1")
	_, ok = c.Get(ctx, "r1")
	assert.False(t, ok)

	assert.Equal(t, Counters{Hits: 1, Misses: 2}, c.Counters())
	c.ResetCounters()
	assert.Equal(t, Counters{}, c.Counters())
}

func TestOwnerCache_Expires(t *testing.T) {
	c, mr := setupTest(t)
	ctx := context.Background()

	c.Set(ctx, "r1", "u1")
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "r1")
	assert.False(t, ok)
}

func TestOwnerCache_RedisDownIsAMiss(t *testing.T) {
	c, mr := setupTest(t)
	ctx := context.Background()

	c.Set(ctx, "r1", "u1")
	mr.Close()

	_, ok := c.Get(ctx, "r1")
	assert.False(t, ok)
	c.Set(ctx, "r1", "u1")
	c.Invalidate(ctx, "r1")
}

func TestOwnerCache_Disabled(t *testing.T) {
	c := NewOwnerCache(nil, 0)
	ctx := context.Background()

	c.Set(ctx, "r1", "u1")
	_, ok := c.Get(ctx, "r1")
	assert.False(t, ok)
	c.Invalidate(ctx, "r1")

	var nilCache *OwnerCache
	_, ok = nilCache.Get(ctx, "r1")
	assert.False(t, ok)
}
