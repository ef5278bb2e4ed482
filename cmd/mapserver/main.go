package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lci-slovakia/sighting-map-service/internal/adapter/httpapi"
	kafkaadapter "github.com/lci-slovakia/sighting-map-service/internal/adapter/kafka"
	"github.com/lci-slovakia/sighting-map-service/internal/adapter/nominatim"
	"github.com/lci-slovakia/sighting-map-service/internal/config"
	"github.com/lci-slovakia/sighting-map-service/internal/domain"
	"github.com/lci-slovakia/sighting-map-service/internal/feed"
	"github.com/lci-slovakia/sighting-map-service/internal/mapsession"
	"github.com/lci-slovakia/sighting-map-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Geocoding: Nominatim behind an in-memory LRU or a shared Redis cache.
	var geocoder domain.Geocoder = nominatim.NewClient(cfg.NominatimBaseURL, cfg.NominatimTimeout, logger)
	switch cfg.GeocodeCacheBackend {
	case config.CacheBackendRedis:
		redisClient, err := nominatim.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("redis connection failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer redisClient.Close() //nolint:errcheck
		geocoder = nominatim.NewRedisGeocoder(geocoder, redisClient, cfg.GeocodeCacheTTL, logger)
		logger.Info("geocode cache using redis", "addr", cfg.RedisAddr, "ttl", cfg.GeocodeCacheTTL)
	default:
		geocoder = nominatim.NewCachedGeocoder(geocoder, cfg.GeocodeCacheSize)
		logger.Info("geocode cache in memory", "size", cfg.GeocodeCacheSize)
	}

	// Sighting-update publishing (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var publisher feed.UpdatePublisher
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publisher = kafkaWriter
		logger.Info("sighting-update publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("sighting-update publishing disabled")
	}

	loader := feed.NewLoader(cfg.SightingFeedURL, cfg.ActivityFeedURL, cfg.FeedTimeout, logger, metrics)
	store := feed.NewStore(loader, publisher, logger, metrics, nil)
	manager := mapsession.NewManager(store, geocoder, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, manager, store, store, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go store.Run(ctx, cfg.FeedRefreshInterval)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
