// Package adapters provides repository implementations for the recipes feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipe_backend/internal/feature/recipes/domain/entity"
	"recipe_backend/internal/feature/recipes/usecase"
	platformdb "recipe_backend/internal/platform/db"
)

// recipeGorm はRecipeRepositoryインターフェースのGORM実装です。
type recipeGorm struct {
	db *gorm.DB
}

var _ usecase.RecipeRepository = (*recipeGorm)(nil)

// NewRecipeGorm creates a new instance of recipeGorm.
func NewRecipeGorm(db *gorm.DB) *recipeGorm {
	return &recipeGorm{db: db}
}

// List returns every recipe in creation order.
func (r *recipeGorm) List(ctx context.Context) ([]entity.Recipe, error) {
	var models []RecipeModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Recipe, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}

// Create inserts the recipe in a transaction and copies the generated fields back.
func (r *recipeGorm) Create(ctx context.Context, recipe *entity.Recipe) error {
	model := RecipeModelFromEntity(recipe)

	err := platformdb.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(model).Error
	})
	if err != nil {
		if platformdb.IsIntegrityViolation(err) {
			return errors.Join(usecase.ErrIntegrityViolation, err)
		}
		return err
	}

	recipe.ID = model.ID
	recipe.CreatedAt = model.CreatedAt
	return nil
}
