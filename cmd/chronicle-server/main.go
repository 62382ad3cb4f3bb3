// Package main is the entry point for the Chronicle blog server.
// Chronicle is a multi-tenant blog service with token-based authentication
// and per-resource ownership enforcement.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/chronicle/internal/auth"
	"github.com/prn-tf/chronicle/internal/cache/memory"
	redcache "github.com/prn-tf/chronicle/internal/cache/redis"
	"github.com/prn-tf/chronicle/internal/config"
	"github.com/prn-tf/chronicle/internal/handler"
	"github.com/prn-tf/chronicle/internal/lock"
	"github.com/prn-tf/chronicle/internal/repository"
	"github.com/prn-tf/chronicle/internal/repository/postgres"
	"github.com/prn-tf/chronicle/internal/repository/sqlite"
	"github.com/prn-tf/chronicle/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := newLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting Chronicle server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	repos, health, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := health.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close database")
		}
	}()

	userRepo, locker, cleanup := buildCacheAndLock(ctx, cfg, repos.User, logger)
	defer cleanup()

	tokens := auth.NewTokenService([]byte(cfg.Auth.Secret))
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost, cfg.Auth.MinPasswordLength, logger)
	blogService := service.NewBlogService(repos.Blog, userRepo, locker, logger)

	errorWriter := handler.NewErrorWriter(logger)
	authMiddleware := auth.NewMiddleware(tokens, userRepo, errorWriter.WriteError, logger)

	router := handler.NewRouter(handler.RouterConfig{
		LoginHandler:   handler.NewLoginHandler(userService, tokens, errorWriter, logger),
		UserHandler:    handler.NewUserHandler(userService, errorWriter, logger),
		BlogHandler:    handler.NewBlogHandler(blogService, userService, errorWriter, logger),
		AuthMiddleware: authMiddleware,
		ErrorWriter:    errorWriter,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      http.MaxBytesHandler(router.Handler(), cfg.Server.MaxBodySize),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}

// openDatabase connects to the configured backend and returns repositories
// plus the health handle for lifecycle management.
func openDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repository.Repositories, repository.DatabaseHealth, error) {
	if cfg.Database.IsEmbedded() {
		db, err := sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    1,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return db.NewRepositories(), db, nil
	}

	db, err := postgres.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	return db.NewRepositories(), db, nil
}

// buildCacheAndLock wires the user cache and the owner-index locker.
// With Redis enabled both are Redis-backed; otherwise they are in-process,
// which is only correct for a single server instance.
func buildCacheAndLock(ctx context.Context, cfg *config.Config, userRepo repository.UserRepository, logger zerolog.Logger) (repository.UserRepository, lock.Locker, func()) {
	if cfg.Redis.Enabled {
		cache, err := redcache.NewCache(ctx, redcache.Config{
			Addr:        cfg.Redis.Addr(),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
		}, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, falling back to in-process cache and lock")
		} else {
			cached := repository.NewCachedUserRepository(userRepo, cache, logger)
			locker := lock.NewRedisLocker(cache.Client())
			return cached, locker, func() {
				if err := cache.Close(); err != nil {
					logger.Warn().Err(err).Msg("failed to close redis cache")
				}
			}
		}
	}

	cache := memory.NewCache()
	cached := repository.NewCachedUserRepository(userRepo, cache, logger)
	locker := lock.NewMemoryLocker()
	return cached, locker, cache.Stop
}

// newLogger builds the process logger from config.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = cfg.TimeFormat

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if cfg.Format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}
	return logger
}
