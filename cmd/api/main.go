// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Campus Connect HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Run database migrations (idempotent).
//  5. Connect to Redis.
//  6. Build the token issuer and the authentication gate.
//  7. Connect optional collaborators (object storage, event broker).
//  8. Wire domain services and HTTP handlers.
//  9. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/campusconnect/internal/api"
	"github.com/taibuivan/campusconnect/internal/core/country"
	"github.com/taibuivan/campusconnect/internal/platform/config"
	"github.com/taibuivan/campusconnect/internal/platform/constants"
	"github.com/taibuivan/campusconnect/internal/platform/events"
	"github.com/taibuivan/campusconnect/internal/platform/middleware"
	"github.com/taibuivan/campusconnect/internal/platform/migration"
	pgstore "github.com/taibuivan/campusconnect/internal/platform/postgres"
	redisstore "github.com/taibuivan/campusconnect/internal/platform/redis"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
	"github.com/taibuivan/campusconnect/internal/platform/storage"
	"github.com/taibuivan/campusconnect/internal/social/comment"
	"github.com/taibuivan/campusconnect/internal/social/post"
	"github.com/taibuivan/campusconnect/internal/users/account"
	"github.com/taibuivan/campusconnect/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. A 30s deadline surfaces misconfiguration
	// quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives as long as the process; stops background janitors on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 6. Token Issuer & Gate ────────────────────────────────────────────
	issuer, err := sec.NewTokenIssuer(cfg.JWTSecret, cfg.RefreshTokenSecret)
	must(log, err, "initialize token issuer")

	userRepository := auth.NewUserRepository(pool)
	throttle := auth.NewLoginThrottle(rdb, cfg.LoginMaxAttempts, cfg.LoginLockoutWindow)
	authService := auth.NewService(userRepository, throttle, issuer)
	authenticate := middleware.Authenticate(issuer, authService)

	// ── 7. Optional Collaborators ─────────────────────────────────────────
	var uploader storage.Uploader = storage.Disabled{}
	if cfg.StorageEnabled() {
		bucket, err := storage.NewBucket(startupCtx, storage.Options{
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
			PublicURL: cfg.S3PublicURL,
		}, log)
		must(log, err, "connect to object storage")
		uploader = bucket
	} else {
		log.Warn("object_storage_disabled", slog.String("reason", "S3_BUCKET or S3_ENDPOINT not set"))
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		broker, err := events.NewAMQPPublisher(cfg.AMQPURL, []string{
			constants.EventPostCreated,
			constants.EventCommentCreated,
		}, log)
		must(log, err, "connect to event broker")
		defer func() {
			if cerr := broker.Close(); cerr != nil {
				log.Error("event broker close error", slog.Any("error", cerr))
			}
		}()
		publisher = broker
	}

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	accountService := account.NewService(account.NewAccountRepository(pool))
	postService := post.NewService(post.NewRepository(pool), uploader, publisher)
	commentService := comment.NewService(comment.NewRepository(pool), publisher)
	countryService := country.NewService(country.NewRepository(pool), country.NewRedisCache(rdb, cfg.CountryCacheTTL))

	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Authenticate: authenticate,
		Auth:         auth.NewHandler(authService, authenticate, cfg.IsProduction()),
		Account:      account.NewHandler(accountService),
		Post:         post.NewHandler(postService, authenticate),
		Comment:      comment.NewHandler(commentService, authenticate),
		Country:      country.NewHandler(countryService, authenticate),
	}

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
