package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shutterops/internal/audit"
	"shutterops/internal/gateway"
	"shutterops/internal/gateway/memory"
	gwpostgres "shutterops/internal/gateway/postgres"
	httpapi "shutterops/internal/http"
	"shutterops/internal/identity/directory"
	identityhandler "shutterops/internal/identity/handler"
	idmetrics "shutterops/internal/identity/metrics"
	"shutterops/internal/identity/service"
	"shutterops/internal/platform/config"
	"shutterops/internal/platform/httpserver"
	"shutterops/internal/platform/joblock"
	"shutterops/internal/platform/logger"
	"shutterops/internal/platform/metrics"
	platformredis "shutterops/internal/platform/redis"
)

// main wires dependencies and owns the server lifecycle. Business logic lives
// in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Entity gateway: postgres when configured, in-memory for local runs.
	var store gateway.Gateway = memory.New()
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		pg := gwpostgres.New(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		store = pg
		log.Info("using postgres gateway")
	} else {
		log.Warn("no database configured, using in-memory gateway")
	}

	// Advisory job lock: redis when configured, in-process otherwise.
	var locker joblock.Locker = joblock.NewMemory()
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		locker = joblock.NewRedis(redisClient.Client, cfg.JobLockTTL)
		log.Info("using redis job lock")
	}

	// Audit trail: kafka when brokers are configured, in-memory otherwise.
	var auditStore audit.Store = audit.NewMemoryStore()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaStore, err := audit.NewKafkaStore(cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
		log.Info("using kafka audit store", "topic", cfg.KafkaAuditTopic)
	}

	httpMetrics := metrics.New()
	jobMetrics := idmetrics.New()

	dir := directory.New(store)
	identitySvc, err := service.New(dir,
		service.WithLogger(log),
		service.WithLocker(locker),
		service.WithMetrics(jobMetrics),
		service.WithAuditPublisher(audit.NewPublisher(auditStore)),
		service.WithDefaultTimezone(cfg.DefaultTimezone),
	)
	if err != nil {
		log.Error("service setup failed", "error", err)
		os.Exit(1)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Identity:       identityhandler.New(identitySvc, log),
		Logger:         log,
		Metrics:        httpMetrics,
		SigningKey:     cfg.JWTSigningKey,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
