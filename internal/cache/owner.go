package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/compliment-api/pkg/logger"
)

// OwnerCache caches receiver -> owner user id for ownership checks.
// Redis errors degrade to a miss; callers always fall back to the database.
type OwnerCache struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewOwnerCache returns a cache backed by client. A nil client disables caching.
func NewOwnerCache(client *redis.Client, ttl time.Duration) *OwnerCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &OwnerCache{client: client, ttl: ttl}
}

func ownerKey(receiverID string) string {
	return fmt.Sprintf("receiver:owner:%s", receiverID)
}

// Get returns the cached owner id, if any.
func (c *OwnerCache) Get(ctx context.Context, receiverID string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	owner, err := c.client.Get(ctx, ownerKey(receiverID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("owner cache get failed", zap.String("receiver", receiverID), zap.Error(err))
		}
		c.misses.Add(1)
		return "", false
	}
	c.hits.Add(1)
	return owner, true
}

func (c *OwnerCache) Set(ctx context.Context, receiverID, ownerID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, ownerKey(receiverID), ownerID, c.ttl).Err(); err != nil {
		logger.Warn("owner cache set failed", zap.String("receiver", receiverID), zap.Error(err))
	}
}

func (c *OwnerCache) Invalidate(ctx context.Context, receiverIDs ...string) {
	if c == nil || c.client == nil || len(receiverIDs) == 0 {
		return
	}
	keys := make([]string, len(receiverIDs))
	for i, id := range receiverIDs {
		keys[i] = ownerKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("owner cache invalidate failed", zap.Strings("receivers", receiverIDs), zap.Error(err))
	}
}

// Counters reports cache hits and misses since start (or the last reset).
func (c *OwnerCache) Counters() Counters {
	return Counters{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// ResetCounters clears recorded hit/miss counters.
func (c *OwnerCache) ResetCounters() {
	c.hits.Store(0)
	c.misses.Store(0)
}

// Counters summarises cache lookups.
type Counters struct {
	Hits   int64
	Misses int64
}
