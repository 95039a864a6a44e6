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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/dental-clinic-platform/internal/api/router"
	"github.com/wolfman30/dental-clinic-platform/internal/billing"
	"github.com/wolfman30/dental-clinic-platform/internal/clinic"
	appconfig "github.com/wolfman30/dental-clinic-platform/internal/config"
	"github.com/wolfman30/dental-clinic-platform/internal/inventory"
	"github.com/wolfman30/dental-clinic-platform/internal/notify"
	"github.com/wolfman30/dental-clinic-platform/internal/observability/metrics"
	"github.com/wolfman30/dental-clinic-platform/internal/patients"
	"github.com/wolfman30/dental-clinic-platform/internal/scheduling"
	"github.com/wolfman30/dental-clinic-platform/internal/treatments"
	"github.com/wolfman30/dental-clinic-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dental-clinic-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	clinicMetrics := metrics.NewClinicMetrics(registry)

	ctx := context.Background()

	// Postgres is optional; without DATABASE_URL everything runs on the
	// in-memory stores.
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		logger.Info("connected to postgres")
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	// Redis backs the front-desk slot holds; booking works without it.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, slot holds fail open", "error", err)
		}
	}

	var (
		schedRepo    scheduling.Repository
		billRepo     billing.Repository
		invRepo      inventory.Repository
		patientsRepo patients.Repository
		treatRepo    treatments.Repository
	)
	if pool != nil {
		schedRepo = scheduling.NewPostgresRepository(pool)
		billRepo = billing.NewPostgresRepository(pool)
		invRepo = inventory.NewPostgresRepository(pool)
		patientsRepo = patients.NewPostgresRepository(pool)
		treatRepo = treatments.NewPostgresRepository(pool)
	} else {
		schedRepo = scheduling.NewInMemoryRepository()
		billRepo = billing.NewInMemoryRepository()
		invRepo = inventory.NewInMemoryRepository()
		patientsRepo = patients.NewInMemoryRepository()
		treatRepo = treatments.NewInMemoryRepository()
	}

	holds := scheduling.NewSlotHolder(redisClient, cfg.SlotHoldTTL, logger)
	schedSvc := scheduling.NewService(schedRepo, holds, clinicMetrics, logger)
	billSvc := billing.NewService(billRepo, clinicMetrics, logger)
	invSvc := inventory.NewService(invRepo, clinicMetrics, logger)
	notifySvc := notify.NewService(notify.NewInMemoryRepository(), logger)

	var summarizer clinic.Summarizer
	if pool != nil {
		summarizer = clinic.NewPostgresSummarizer(pool)
	} else {
		summarizer = clinic.NewMemorySummarizer(schedSvc, billSvc, invSvc, patientsRepo)
	}

	r := router.New(&router.Config{
		Logger:             logger,
		SchedulingHandler:  scheduling.NewHandler(schedSvc, logger),
		BillingHandler:     billing.NewHandler(billSvc, logger),
		InventoryHandler:   inventory.NewHandler(invSvc, logger),
		PatientsHandler:    patients.NewHandler(patientsRepo, logger),
		TreatmentsHandler:  treatments.NewHandler(treatRepo, logger),
		DashboardHandler:   clinic.NewHandler(summarizer, logger),
		NotifyHandler:      notify.NewHandler(notifySvc, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
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

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
