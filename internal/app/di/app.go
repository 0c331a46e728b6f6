// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "recipe_backend/internal/feature/auth/adapters"
	authhandler "recipe_backend/internal/feature/auth/transport/handler"
	authusecase "recipe_backend/internal/feature/auth/usecase"
	recipeadapters "recipe_backend/internal/feature/recipes/adapters"
	recipehandler "recipe_backend/internal/feature/recipes/transport/handler"
	recipeusecase "recipe_backend/internal/feature/recipes/usecase"
	"recipe_backend/internal/platform/cache"
	"recipe_backend/internal/platform/hasher"
	platformhandler "recipe_backend/internal/platform/http/handler"
	"recipe_backend/internal/platform/session"
)

// Options are the tunables the container needs from the configuration.
type Options struct {
	SessionTTL     time.Duration
	BcryptCost     int
	RecipeCacheTTL time.Duration
}

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health  *platformhandler.HealthHandler
	Auth    *authhandler.AuthHandler
	Recipes *recipehandler.RecipeHandler
}

// AuthService is the auth usecase as seen by the HTTP layer and the admin command.
type AuthService interface {
	authhandler.AuthUsecase
	DeleteAccount(ctx context.Context, username string) (int64, error)
}

// NewRecipeRepository wraps the GORM recipe repository in the Redis list cache.
// A nil rdb yields a pass-through cache.
func NewRecipeRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) *cache.CachingRecipeRepository {
	return cache.NewCachingRecipeRepository(rdb, ttl, recipeadapters.NewRecipeGorm(db), "recipes")
}

// NewAuthUsecase wires the auth usecase to its repositories and the bcrypt hasher.
func NewAuthUsecase(rdb *redis.Client, db *gorm.DB, bcryptCost int) AuthService {
	h := hasher.NewBcrypt(bcryptCost)
	if h.Cost() != bcryptCost {
		slog.Warn("BCRYPT_COST out of range; using default", "requested", bcryptCost, "cost", h.Cost())
	}
	return authusecase.NewAuthUsecase(authadapters.NewUserGorm(db), NewSessionRepository(rdb, db), h)
}

// NewHandlers builds every HTTP handler of the API.
func NewHandlers(rdb *redis.Client, db *gorm.DB, opts Options) *Handlers {
	sessions := session.NewManager(NewSessionRepository(rdb, db), opts.SessionTTL)

	authUC := NewAuthUsecase(rdb, db, opts.BcryptCost)
	recipeUC := recipeusecase.NewRecipeUsecase(NewRecipeRepository(rdb, db, opts.RecipeCacheTTL))

	return &Handlers{
		Health:  platformhandler.NewHealthHandler().WithDatabase(db).WithRedis(rdb),
		Auth:    authhandler.NewAuthHandler(authUC, sessions),
		Recipes: recipehandler.NewRecipeHandler(recipeUC, sessions),
	}
}
