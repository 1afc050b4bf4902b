package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinichq/booking-platform/internal/api/router"
	"github.com/clinichq/booking-platform/internal/bookings"
	appconfig "github.com/clinichq/booking-platform/internal/config"
	httpmiddleware "github.com/clinichq/booking-platform/internal/http/middleware"
	"github.com/clinichq/booking-platform/internal/observability/metrics"
	"github.com/clinichq/booking-platform/internal/tenant"
	"github.com/clinichq/booking-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.AdminJWTSecret == "" {
		logger.Error("ADMIN_JWT_SECRET is required")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()

	bookingMetrics := metrics.NewBookingMetrics(nil)

	settingsStore := tenant.NewStore(redisClient, tenant.PolicyDefaults{
		SlotDurationMinutes:    cfg.DefaultSlotDurationMinutes,
		MaxAdvanceBookingDays:  cfg.MaxAdvanceBookingDays,
		MinAdvanceBookingHours: cfg.MinAdvanceBookingHours,
		MaxCancellationHours:   cfg.MaxCancellationHours,
	})
	tenantHandler := tenant.NewHandler(settingsStore, bookingMetrics, logger.Component("tenant"))

	bookingsRepo := bookings.NewRepository(pool)
	bookingsService := bookings.NewService(bookingsRepo, settingsStore, bookingMetrics, logger.Component("bookings"))
	bookingsHandler := bookings.NewHandler(bookingsService, logger.Component("bookings"))

	var limiter *httpmiddleware.RateLimiter
	if cfg.RateLimitPerSecond > 0 {
		limiter = httpmiddleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
		defer limiter.Close()
	}

	r := router.New(&router.Config{
		Logger:             logger,
		BookingsHandler:    bookingsHandler,
		TenantHandler:      tenantHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
