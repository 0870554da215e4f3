package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crow-lk/dream-builders-hub/internal/app/migrate"
	"github.com/crow-lk/dream-builders-hub/internal/config"
	httpx "github.com/crow-lk/dream-builders-hub/internal/http"
	"github.com/crow-lk/dream-builders-hub/internal/logger"
	"github.com/crow-lk/dream-builders-hub/internal/repository"
	"github.com/crow-lk/dream-builders-hub/internal/repository/postgres"
	"github.com/crow-lk/dream-builders-hub/internal/repository/redisstore"
	"github.com/crow-lk/dream-builders-hub/internal/service/auth"
	"github.com/crow-lk/dream-builders-hub/internal/service/estimate"
	"github.com/crow-lk/dream-builders-hub/internal/service/listing"
)

func main() {
	config.Load()
	cfg := config.LoadAPIConfig()
	log := logger.New("site-api", slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	runner, err := migrate.New(pool, cfg.DatabaseURL, cfg.MigrationsDir, log)
	if err != nil {
		log.Error("failed to configure migrations", "error", err)
		os.Exit(1)
	}
	defer runner.Close()
	if err := runner.Ping(ctx); err != nil {
		log.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	if err := runner.Ensure(ctx); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	repo := postgres.New(pool)

	var sessions repository.SessionRepository = redisstore.NewMemorySessions()
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		redisSessions, err := redisstore.NewSessions(addr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("redis session store unavailable, using in-memory", "error", err)
		} else {
			defer redisSessions.Close()
			sessions = redisSessions
		}
	}

	authSvc := auth.New(repo, sessions, log, cfg)
	listingSvc := listing.New(repo, log)
	estimateSvc := estimate.New(log, cfg)

	limiter := httpx.NewMemoryRateLimiter()
	if addr := strings.TrimSpace(cfg.RateLimitRedisAddr); addr != "" {
		redisLimiter, err := httpx.NewRedisRateLimiter(addr, cfg.RateLimitRedisPass, cfg.RateLimitRedisDB, log)
		if err != nil {
			log.Warn("redis rate limiter unavailable", "error", err)
		} else {
			limiter = redisLimiter
		}
	}

	router := httpx.NewRouter(log, authSvc, listingSvc, estimateSvc, limiter, pool.Ping)
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("api server starting", "addr", cfg.Addr)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("api server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
