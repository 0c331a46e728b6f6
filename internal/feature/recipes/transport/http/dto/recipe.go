// Package dto defines data transfer objects for the recipes feature's HTTP transport layer.
package dto

import "recipe_backend/internal/feature/recipes/domain/entity"

// CreateRecipeReq represents the request body for POST /recipes.
// Presence is checked by the usecase, in field order.
type CreateRecipeReq struct {
	Title             string `json:"title"`
	Ingredients       string `json:"ingredients"`
	Instructions      string `json:"instructions"`
	MinutesToComplete int    `json:"minutes_to_complete"`
}

// RecipeRes is the public representation of a recipe.
type RecipeRes struct {
	ID                uint   `json:"id"`
	Title             string `json:"title"`
	Ingredients       string `json:"ingredients"`
	Instructions      string `json:"instructions"`
	MinutesToComplete int    `json:"minutes_to_complete"`
	UserID            uint   `json:"user_id"`
}

// NewRecipeRes converts a recipe entity into its public representation.
func NewRecipeRes(r entity.Recipe) RecipeRes {
	return RecipeRes{
		ID:                r.ID,
		Title:             r.Title,
		Ingredients:       r.Ingredients,
		Instructions:      r.Instructions,
		MinutesToComplete: r.MinutesToComplete,
		UserID:            r.UserID,
	}
}

// NewRecipeListRes converts recipes, preserving order. An empty input yields [].
func NewRecipeListRes(rs []entity.Recipe) []RecipeRes {
	out := make([]RecipeRes, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewRecipeRes(r))
	}
	return out
}
