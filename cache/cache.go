package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/cache/v9"

	"github.com/onramp-pay/onramp/config"
	redis_db "github.com/onramp-pay/onramp/internal/redis-db"
)

const cacheSize = 10000

type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, data interface{}) error
	Delete(ctx context.Context, key string) error
}

// NewCache connects to the Redis instance named in the configuration and
// layers a small in-process TinyLFU cache in front of it.
func NewCache() (Cache, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	return newRedisCache(cfg.Redis.Dns)
}

type RedisCache struct {
	cache *cache.Cache
}

func newRedisCache(address string) (*RedisCache, error) {
	client, err := redis_db.NewRedisClient(address)
	if err != nil {
		return nil, err
	}

	c := cache.New(&cache.Options{
		Redis:      client.Client(),
		LocalCache: cache.NewTinyLFU(cacheSize, time.Minute),
	})

	return &RedisCache{cache: c}, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	return r.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: data,
		TTL:   ttl,
	})
}

// Get decodes the cached value into data. A cache miss is not an error; data
// is simply left untouched.
func (r *RedisCache) Get(ctx context.Context, key string, data interface{}) error {
	err := r.cache.Get(ctx, key, &data)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.cache.Delete(ctx, key)
}
