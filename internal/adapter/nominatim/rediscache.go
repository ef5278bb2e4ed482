package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
)

// redisCommands is the subset of redis.Client the cache uses.
type redisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisGeocoder wraps a Geocoder with a Redis-backed cache so multiple
// service instances share geocode results. Cache trouble degrades to a plain
// upstream lookup; it is never surfaced to the caller.
type RedisGeocoder struct {
	inner  domain.Geocoder
	client redisCommands
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 10,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}

// NewRedisGeocoder creates a Redis cache decorator around a geocoder.
func NewRedisGeocoder(inner domain.Geocoder, client redisCommands, ttl time.Duration, logger *slog.Logger) *RedisGeocoder {
	return &RedisGeocoder{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (g *RedisGeocoder) Search(ctx context.Context, query string) (domain.GeocodeResult, error) {
	key := "geocode:" + cacheKey(query)

	data, err := g.client.Get(ctx, key).Bytes()
	if err == nil {
		var result domain.GeocodeResult
		if err := json.Unmarshal(data, &result); err == nil {
			return result, nil
		}
		g.logger.Warn("corrupt geocode cache entry, refetching", "key", key)
	} else if err != redis.Nil {
		g.logger.Warn("geocode cache read failed", "key", key, "error", err)
	}

	result, err := g.inner.Search(ctx, query)
	if err != nil {
		return result, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := g.client.Set(ctx, key, data, g.ttl).Err(); err != nil {
			g.logger.Warn("geocode cache write failed", "key", key, "error", err)
		}
	}
	return result, nil
}
