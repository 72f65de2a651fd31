package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/chesser-academy/storefront/internal/api/router"
	"github.com/chesser-academy/storefront/internal/auth"
	"github.com/chesser-academy/storefront/internal/catalog"
	appconfig "github.com/chesser-academy/storefront/internal/config"
	"github.com/chesser-academy/storefront/internal/http/handlers"
	"github.com/chesser-academy/storefront/internal/observability/metrics"
	"github.com/chesser-academy/storefront/internal/storage"
	"github.com/chesser-academy/storefront/pkg/logging"
)

func main() {
	// Load .env for local development; ignored when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting storefront API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"storage", cfg.StorageBackend,
	)

	durable, cleanup, err := buildDurable(cfg)
	if err != nil {
		logger.Error("failed to initialize storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	cartMetrics := metrics.NewCartMetrics(prometheus.DefaultRegisterer)

	pages := auth.Pages{
		Login:    cfg.LoginPage,
		Checkout: cfg.CheckoutPage,
		Services: cfg.ServicesPage,
		Home:     cfg.HomePage,
	}
	registry := handlers.NewRegistry(durable, pages, logger, cartMetrics)
	storefront := handlers.NewHandler(registry, catalog.Default(), cfg.AddedLabelResetDelay, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Storefront:         storefront,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildDurable selects the durable cart store from configuration. The
// returned cleanup closes whatever connections the backend opened.
func buildDurable(cfg *appconfig.Config) (storage.Durable, func(), error) {
	switch cfg.StorageBackend {
	case "", "memory":
		return storage.NewMemory(), func() {}, nil

	case "redis":
		if cfg.RedisAddr == "" {
			return nil, nil, fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return storage.NewRedis(client, cfg.CartTTL), func() { _ = client.Close() }, nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		return storage.NewPostgres(pool), func() { pool.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
