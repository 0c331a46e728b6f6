// Command admin runs maintenance tasks against the recipe database.
//
// Usage:
//
//	admin delete-user -username alice
//	admin purge-sessions
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"recipe_backend/internal/app/di"
	"recipe_backend/internal/platform/config"
	platformdb "recipe_backend/internal/platform/db"
	platformredis "recipe_backend/internal/platform/redis"
	"recipe_backend/internal/platform/scheduler"
)

const commandTimeout = time.Minute

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <delete-user -username NAME | purge-sessions>")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

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

	var rdb *redisv9.Client
	if cfg.RedisEnabled() {
		rdb, err = platformredis.NewRedisClient(ctx, platformredis.Options{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			slog.Warn("Redis unavailable; only SQL sessions are affected", "error", err)
			rdb = nil
		} else {
			defer func() { _ = rdb.Close() }()
		}
	}

	switch os.Args[1] {
	case "delete-user":
		fs := flag.NewFlagSet("delete-user", flag.ExitOnError)
		username := fs.String("username", "", "username of the account to delete")
		_ = fs.Parse(os.Args[2:])
		if *username == "" {
			usage()
			os.Exit(2)
		}

		deleted, err := di.NewAuthUsecase(rdb, db, cfg.BcryptCost).DeleteAccount(ctx, *username)
		if err != nil {
			slog.Error("delete-user failed", "username", *username, "error", err)
			os.Exit(1)
		}
		if err := di.NewRecipeRepository(rdb, db, cfg.RecipeCacheTTL).Invalidate(ctx); err != nil {
			slog.Warn("failed to invalidate recipe cache", "error", err)
		}
		slog.Info("user deleted", "username", *username, "recipes_deleted", deleted)

	case "purge-sessions":
		n, err := scheduler.PurgeExpiredSessions(ctx, di.NewSessionRepository(rdb, db))
		if err != nil {
			slog.Error("purge-sessions failed", "error", err)
			os.Exit(1)
		}
		slog.Info("expired sessions purged", "count", n)

	default:
		usage()
		os.Exit(2)
	}
}
