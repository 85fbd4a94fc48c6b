// infrastructure/cache/redis_cache.go
package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/linknest/gofiber-connect-api/domain/models"
	"github.com/linknest/gofiber-connect-api/domain/port"
)

const mutualCountTTL = 10 * time.Minute

// redisConnectionCache stores mutual counts under a pair-normalized key and
// tracks per-user key sets so invalidation can drop everything a user touches.
type redisConnectionCache struct {
	client *redis.Client
}

func NewRedisConnectionCache(client *redis.Client) port.ConnectionCache {
	return &redisConnectionCache{client: client}
}

func (c *redisConnectionCache) GetMutualCount(ctx context.Context, a, b uuid.UUID) (int, bool) {
	value, err := c.client.Get(ctx, mutualKey(a, b)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("redis get failed: %v", err)
		}
		return 0, false
	}
	count, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (c *redisConnectionCache) SetMutualCount(ctx context.Context, a, b uuid.UUID, count int) {
	key := mutualKey(a, b)
	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, strconv.Itoa(count), mutualCountTTL)
	// Index the key under both users so Invalidate can find it.
	pipe.SAdd(ctx, userKeysKey(a), key)
	pipe.Expire(ctx, userKeysKey(a), mutualCountTTL)
	pipe.SAdd(ctx, userKeysKey(b), key)
	pipe.Expire(ctx, userKeysKey(b), mutualCountTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("redis set failed: %v", err)
	}
}

func (c *redisConnectionCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) {
	for _, userID := range userIDs {
		indexKey := userKeysKey(userID)
		keys, err := c.client.SMembers(ctx, indexKey).Result()
		if err != nil {
			if err != redis.Nil {
				log.Printf("redis invalidate failed for %s: %v", userID, err)
			}
			continue
		}
		keys = append(keys, indexKey)
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			log.Printf("redis invalidate failed for %s: %v", userID, err)
		}
	}
}

func mutualKey(a, b uuid.UUID) string {
	low, high := models.NormalizePair(a, b)
	return fmt.Sprintf("connections:mutual:%s:%s", low, high)
}

func userKeysKey(userID uuid.UUID) string {
	return fmt.Sprintf("connections:user-keys:%s", userID)
}
