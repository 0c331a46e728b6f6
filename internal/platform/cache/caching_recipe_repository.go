// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"recipe_backend/internal/feature/recipes/domain/entity"
	"recipe_backend/internal/feature/recipes/usecase"
)

// CachingRecipeRepository decorates a RecipeRepository with a Redis copy of the full list.
// Any successful write bumps the list generation, retiring every cached copy.
type CachingRecipeRepository struct {
	inner     usecase.RecipeRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.RecipeRepository = (*CachingRecipeRepository)(nil)

// NewCachingRecipeRepository decorates a RecipeRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "recipes".
func NewCachingRecipeRepository(rdb *redis.Client, ttl time.Duration, inner usecase.RecipeRepository, namespace string) *CachingRecipeRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "recipes"
	}
	return &CachingRecipeRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create stores the recipe and invalidates the cached list.
func (c *CachingRecipeRepository) Create(ctx context.Context, recipe *entity.Recipe) error {
	if err := c.inner.Create(ctx, recipe); err != nil {
		return err
	}
	if err := c.Invalidate(ctx); err != nil {
		// Best effort: the write already succeeded
		slog.Warn("failed to invalidate recipe cache", "error", err)
	}
	return nil
}

// List returns the cached list, falling back to the database on a miss.
// The generation is read before the database, so a snapshot taken before a
// concurrent Create is stored under a generation that is never read again.
func (c *CachingRecipeRepository) List(ctx context.Context) ([]entity.Recipe, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.List(ctx)
	}

	gen, err := c.generation(ctx)
	if err != nil {
		slog.Warn("recipe cache unavailable", "error", err)
		return c.inner.List(ctx)
	}
	key := c.listKey(gen)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Recipe
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Invalidate moves the cache to a new generation. It is a no-op without Redis.
func (c *CachingRecipeRepository) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Incr(ctx, c.genKey()).Err()
}

// generation returns the current list generation; "0" before the first write.
func (c *CachingRecipeRepository) generation(ctx context.Context) (string, error) {
	gen, err := c.rdb.Get(ctx, c.genKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

// genKey counts list invalidations.
func (c *CachingRecipeRepository) genKey() string {
	return c.namespace + ":gen"
}

// listKey is the cache key of the full recipe list at generation gen.
func (c *CachingRecipeRepository) listKey(gen string) string {
	return c.namespace + ":all:" + gen
}
