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

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"recipe_backend/internal/app/di"
	"recipe_backend/internal/app/router"
	authadapters "recipe_backend/internal/feature/auth/adapters"
	authentity "recipe_backend/internal/feature/auth/domain/entity"
	recipeadapters "recipe_backend/internal/feature/recipes/adapters"
	"recipe_backend/internal/platform/config"
	platformdb "recipe_backend/internal/platform/db"
	platformhttp "recipe_backend/internal/platform/http"
	platformredis "recipe_backend/internal/platform/redis"
	"recipe_backend/internal/platform/scheduler"
	"recipe_backend/internal/platform/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := platformdb.Open(platformdb.Config{
		Driver:     cfg.DBDriver,
		SQLitePath: cfg.SQLitePath,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		User:       cfg.DBUser,
		Password:   cfg.DBPassword,
		Name:       cfg.DBName,
		SSLMode:    cfg.DBSSLMode,
	})
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	if cfg.RunMigrations {
		// users は recipes / sessions より先に作成する
		if err := platformdb.Migrate(db, &authentity.User{}, &recipeadapters.RecipeModel{}, &authadapters.SessionModel{}); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.RedisEnabled() {
		tmp, err := platformredis.NewRedisClient(ctx, platformredis.Options{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			slog.Warn("Redis unavailable. Running without cache; sessions are stored in the database.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// 期限切れセッションの定期削除
	purger, err := scheduler.New(ctx, cfg.SessionPurgeSchedule, di.NewSessionRepository(rdb, db))
	if err != nil {
		slog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer func() { <-purger.Stop().Done() }()

	handlers := di.NewHandlers(rdb, db, di.Options{
		SessionTTL:     cfg.SessionTTL,
		BcryptCost:     cfg.BcryptCost,
		RecipeCacheTTL: cfg.RecipeCacheTTL,
	})

	// ルータ生成
	r := router.NewRouter(router.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		Session: session.CookieOptions{
			Secret: cfg.SessionSecret,
			TTL:    cfg.SessionTTL,
			Secure: cfg.GinMode == gin.ReleaseMode,
		},
	}, handlers)

	srv := platformhttp.NewServer(":"+cfg.Port, r)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "db_driver", cfg.DBDriver, "redis", rdb != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

// setupLogger installs the default slog logger: JSON in release mode, text otherwise.
func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.GinMode == gin.ReleaseMode {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
