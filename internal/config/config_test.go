package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://mapa.lci-slovakia.sk/feeds/sightings.csv", cfg.SightingFeedURL)
	assert.Equal(t, "https://mapa.lci-slovakia.sk/feeds/activities.json", cfg.ActivityFeedURL)
	assert.Equal(t, 30*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 15*time.Minute, cfg.FeedRefreshInterval)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.NominatimBaseURL)
	assert.Equal(t, 5*time.Second, cfg.NominatimTimeout)
	assert.Equal(t, CacheBackendMemory, cfg.GeocodeCacheBackend)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
	assert.Equal(t, 24*time.Hour, cfg.GeocodeCacheTTL)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "sighting-updates", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("SIGHTING_FEED_URL", "https://example.sk/sightings.csv")
	t.Setenv("ACTIVITY_FEED_URL", "https://example.sk/activities.json")
	t.Setenv("FEED_TIMEOUT", "10s")
	t.Setenv("FEED_REFRESH_INTERVAL", "5m")
	t.Setenv("NOMINATIM_BASE_URL", "https://nominatim.example.sk")
	t.Setenv("NOMINATIM_TIMEOUT", "3s")
	t.Setenv("GEOCODE_CACHE_BACKEND", "redis")
	t.Setenv("GEOCODE_CACHE_SIZE", "500")
	t.Setenv("GEOCODE_CACHE_TTL", "1h")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-updates")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://example.sk/sightings.csv", cfg.SightingFeedURL)
	assert.Equal(t, "https://example.sk/activities.json", cfg.ActivityFeedURL)
	assert.Equal(t, 10*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 5*time.Minute, cfg.FeedRefreshInterval)
	assert.Equal(t, "https://nominatim.example.sk", cfg.NominatimBaseURL)
	assert.Equal(t, 3*time.Second, cfg.NominatimTimeout)
	assert.Equal(t, CacheBackendRedis, cfg.GeocodeCacheBackend)
	assert.Equal(t, 500, cfg.GeocodeCacheSize)
	assert.Equal(t, time.Hour, cfg.GeocodeCacheTTL)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "secret", cfg.RedisPassword)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-updates", cfg.KafkaTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeRefreshInterval(t *testing.T) {
	t.Setenv("FEED_REFRESH_INTERVAL", "-1m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEED_REFRESH_INTERVAL")
}

func TestLoad_InvalidNominatimTimeout(t *testing.T) {
	t.Setenv("NOMINATIM_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOMINATIM_TIMEOUT")
}

func TestLoad_InvalidCacheBackend(t *testing.T) {
	t.Setenv("GEOCODE_CACHE_BACKEND", "memcached")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODE_CACHE_BACKEND")
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaBrokersImplyEnabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_CacheSizeFallsBackOnGarbage(t *testing.T) {
	t.Setenv("GEOCODE_CACHE_SIZE", "zero")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
}
