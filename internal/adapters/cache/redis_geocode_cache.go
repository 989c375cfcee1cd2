package cache

import (
	"context"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisGeocodeCache shares resolutions across service instances.
// Entries expire after ttl; a zero ttl keeps them until evicted by Redis.
type RedisGeocodeCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisGeocodeCache(rdb *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{rdb: rdb, ttl: ttl, prefix: "geocode:"}
}

// NewRedisGeocodeCacheFromURL parses a redis:// URL and verifies the connection.
func NewRedisGeocodeCacheFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisGeocodeCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis geocode cache: parse url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis geocode cache: ping: %w", err)
	}
	return NewRedisGeocodeCache(rdb, ttl), nil
}

func (r *RedisGeocodeCache) Get(ctx context.Context, key string) (_ domain.GeocodeResult, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.redis.Get")(&err)

	raw, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.GeocodeResult{}, false, nil
	}
	if err != nil {
		return domain.GeocodeResult{}, false, fmt.Errorf("redis geocode cache get %q: %w", key, err)
	}

	var res domain.GeocodeResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return domain.GeocodeResult{}, false, fmt.Errorf("redis geocode cache decode %q: %w", key, err)
	}
	return res, true, nil
}

func (r *RedisGeocodeCache) Put(ctx context.Context, key string, result domain.GeocodeResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("redis geocode cache encode %q: %w", key, err)
	}
	if err := r.rdb.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis geocode cache set %q: %w", key, err)
	}
	return nil
}

func (r *RedisGeocodeCache) Ping(ctx context.Context) error { return r.rdb.Ping(ctx).Err() }

func (r *RedisGeocodeCache) Close() error { return r.rdb.Close() }
