package cachedresults

import (
	"context"
	"time"

	"github.com/bustracker/bustracker/pkg/redis_client"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
)

// Cache keeps recently computed prediction responses for a few seconds so
// bursts of identical queries don't all hit the engine. Lookups and writes
// are best effort, a cache problem never fails a request.
type Cache struct {
	cache *cache.Cache[string]
}

func Setup(ttl time.Duration) *Cache {
	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(ttl))

	return &Cache{
		cache: cache.New[string](redisStore),
	}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.cache.Get(ctx, key)
	if err != nil {
		return "", false
	}

	return value, true
}

func (c *Cache) Set(ctx context.Context, key string, value string) {
	_ = c.cache.Set(ctx, key, value)
}
