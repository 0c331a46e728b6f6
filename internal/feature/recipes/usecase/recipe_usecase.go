package usecase

import (
	"context"
	"errors"

	"recipe_backend/internal/feature/recipes/domain/entity"
	"recipe_backend/internal/shared/apperror"
	"recipe_backend/internal/shared/validation"
)

const (
	msgViewUnauthorized   = "Unauthorized: Must be logged in to view recipes"
	msgCreateUnauthorized = "Unauthorized: Must be logged in to create a recipe"
	msgInstructionsLength = "Instructions must be at least 50 characters long."
	msgIntegrity          = "Recipe creation failed due to data integrity issues."
	msgCreateFailed       = "An unexpected error occurred during recipe creation."
	msgListFailed         = "An unexpected error occurred while loading recipes."
)

// RecipeRepository はレシピの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type RecipeRepository interface {
	// List returns every recipe ordered by id.
	List(ctx context.Context) ([]entity.Recipe, error)
	// Create persists a recipe inside a transaction.
	// Constraint failures are reported as ErrIntegrityViolation.
	Create(ctx context.Context, recipe *entity.Recipe) error
}

// SessionReader resolves the user behind the current request.
type SessionReader interface {
	CurrentUserID(ctx context.Context) (uint, bool)
}

// CreateRecipeInput carries the recipe form.
type CreateRecipeInput struct {
	Title             string
	Ingredients       string
	Instructions      string
	MinutesToComplete int
}

// recipeUsecase implements listing and creating recipes.
type recipeUsecase struct {
	recipes RecipeRepository
}

// NewRecipeUsecase はrecipeUsecaseの新しいインスタンスを生成します。
func NewRecipeUsecase(recipes RecipeRepository) *recipeUsecase {
	return &recipeUsecase{recipes: recipes}
}

// RequireOwner returns the logged-in user id, or an AuthenticationError for the create path.
func (u *recipeUsecase) RequireOwner(ctx context.Context, sess SessionReader) (uint, error) {
	userID, ok := sess.CurrentUserID(ctx)
	if !ok {
		return 0, apperror.NewAuthenticationError(msgCreateUnauthorized, nil)
	}
	return userID, nil
}

// List returns all recipes to a logged-in user.
func (u *recipeUsecase) List(ctx context.Context, sess SessionReader) ([]entity.Recipe, error) {
	if _, ok := sess.CurrentUserID(ctx); !ok {
		return nil, apperror.NewAuthenticationError(msgViewUnauthorized, nil)
	}

	recipes, err := u.recipes.List(ctx)
	if err != nil {
		return nil, apperror.NewInternalError(msgListFailed, err)
	}
	return recipes, nil
}

// Create validates the input and stores a recipe owned by the logged-in user.
// Checks run in order: session, field presence, instructions length.
func (u *recipeUsecase) Create(ctx context.Context, sess SessionReader, in CreateRecipeInput) (*entity.Recipe, error) {
	userID, err := u.RequireOwner(ctx, sess)
	if err != nil {
		return nil, err
	}

	if name, missing := validation.FirstMissing(
		validation.Field{Name: "title", Value: in.Title},
		validation.Field{Name: "ingredients", Value: in.Ingredients},
		validation.Field{Name: "instructions", Value: in.Instructions},
		validation.Field{Name: "minutes_to_complete", Value: in.MinutesToComplete},
	); missing {
		return nil, apperror.NewValidationError("'"+name+"' is required.", nil)
	}
	if !validation.MinLength(in.Instructions, entity.MinInstructionsLength) {
		return nil, apperror.NewValidationError(msgInstructionsLength, nil)
	}

	recipe, err := entity.NewRecipe(in.Title, in.Ingredients, in.Instructions, in.MinutesToComplete, userID)
	if err != nil {
		return nil, err
	}

	if err := u.recipes.Create(ctx, recipe); err != nil {
		if errors.Is(err, ErrIntegrityViolation) {
			return nil, apperror.NewConflictError(msgIntegrity, err)
		}
		return nil, apperror.NewInternalError(msgCreateFailed, err)
	}
	return recipe, nil
}
