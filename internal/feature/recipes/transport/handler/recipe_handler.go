// Package handler provides HTTP handlers for the recipes feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe_backend/internal/feature/recipes/domain/entity"
	"recipe_backend/internal/feature/recipes/transport/http/dto"
	"recipe_backend/internal/feature/recipes/usecase"
	"recipe_backend/internal/platform/http/response"
	"recipe_backend/internal/platform/session"
	"recipe_backend/internal/shared/apperror"
)

const (
	msgInvalidBody  = "Invalid request body."
	msgListFailed   = "An unexpected error occurred while loading recipes."
	msgCreateFailed = "An unexpected error occurred during recipe creation."
)

// RecipeUsecase はレシピ操作のユースケースを定義します。
type RecipeUsecase interface {
	List(ctx context.Context, sess usecase.SessionReader) ([]entity.Recipe, error)
	Create(ctx context.Context, sess usecase.SessionReader, in usecase.CreateRecipeInput) (*entity.Recipe, error)
	RequireOwner(ctx context.Context, sess usecase.SessionReader) (uint, error)
}

// RecipeHandler handles /recipes.
type RecipeHandler struct {
	recipes  RecipeUsecase
	sessions *session.Manager
}

// NewRecipeHandler creates a RecipeHandler.
func NewRecipeHandler(recipes RecipeUsecase, sessions *session.Manager) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, sessions: sessions}
}

// List handles GET /recipes.
func (h *RecipeHandler) List(c *gin.Context) {
	recipes, err := h.recipes.List(c.Request.Context(), h.sessions.For(c))
	if err != nil {
		response.Error(c, err, msgListFailed)
		return
	}
	c.JSON(http.StatusOK, dto.NewRecipeListRes(recipes))
}

// Create handles POST /recipes.
// An anonymous caller gets 401 even when the body is malformed.
func (h *RecipeHandler) Create(c *gin.Context) {
	sess := h.sessions.For(c)

	var req dto.CreateRecipeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		if _, authErr := h.recipes.RequireOwner(c.Request.Context(), sess); apperror.IsAuthentication(authErr) {
			response.Error(c, authErr, msgCreateFailed)
			return
		}
		slog.Warn("recipe validation failed", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, apperror.NewValidationError(msgInvalidBody, err), msgCreateFailed)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), sess, usecase.CreateRecipeInput{
		Title:             req.Title,
		Ingredients:       req.Ingredients,
		Instructions:      req.Instructions,
		MinutesToComplete: req.MinutesToComplete,
	})
	if err != nil {
		slog.Warn("recipe creation failed", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, err, msgCreateFailed)
		return
	}

	slog.Info("recipe created", "recipe_id", recipe.ID, "user_id", recipe.UserID)
	c.JSON(http.StatusCreated, dto.NewRecipeRes(*recipe))
}
