// Package entity defines the domain entities for the recipes feature.
package entity

import (
	"time"

	"recipe_backend/internal/shared/apperror"
	"recipe_backend/internal/shared/validation"
)

const (
	// MinInstructionsLength is the shortest accepted instructions text, in characters.
	MinInstructionsLength = 50
	// MaxTitleLength is the column size of recipes.title.
	MaxTitleLength = 100
)

// Recipe is a dish published by a user.
type Recipe struct {
	ID                uint
	Title             string
	Ingredients       string
	Instructions      string
	MinutesToComplete int
	UserID            uint
	CreatedAt         time.Time
}

// NewRecipe builds a recipe owned by userID, enforcing the length rules.
func NewRecipe(title, ingredients, instructions string, minutesToComplete int, userID uint) (*Recipe, error) {
	if !validation.MinLength(instructions, MinInstructionsLength) {
		return nil, apperror.NewValidationError("Instructions must be at least 50 characters long.", nil)
	}
	if !validation.MaxLength(title, MaxTitleLength) {
		return nil, apperror.NewValidationError("Title must be at most 100 characters long.", nil)
	}
	if userID == 0 {
		return nil, apperror.NewValidationError("Recipe must belong to a user.", nil)
	}

	return &Recipe{
		Title:             title,
		Ingredients:       ingredients,
		Instructions:      instructions,
		MinutesToComplete: minutesToComplete,
		UserID:            userID,
	}, nil
}
