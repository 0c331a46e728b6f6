// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/auth/transport/http/dto"
	"recipe_backend/internal/feature/auth/usecase"
	"recipe_backend/internal/platform/http/response"
	"recipe_backend/internal/platform/session"
	"recipe_backend/internal/shared/apperror"
)

const (
	msgInvalidBody        = "Invalid request body."
	msgSignupFailed       = "An unexpected error occurred during signup"
	msgInvalidCredentials = "Invalid username or password"
	msgNotLoggedIn        = "Not logged in"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Signup(ctx context.Context, sess usecase.Session, in usecase.SignupInput) (*entity.User, error)
	Login(ctx context.Context, sess usecase.Session, username, password string) (*entity.User, error)
	CheckSession(ctx context.Context, sess usecase.Session) (*entity.User, error)
	Logout(ctx context.Context, sess usecase.Session)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth     AuthUsecase
	sessions *session.Manager
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - 必須項目の欠落・エンティティ検証エラー時は400
// - ユーザー名重複時は422
// - 成功時はセッションを確立し、ユーザー情報と共に201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, apperror.NewValidationError(msgInvalidBody, err), msgSignupFailed)
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), h.sessions.For(c), usecase.SignupInput{
		Username: req.Username,
		Password: req.Password,
		Bio:      req.Bio,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		if apperror.IsConflict(err) {
			slog.Info("signup rejected: username taken", "username", req.Username, "remote_addr", c.ClientIP())
		} else {
			slog.Warn("signup failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		}
		response.Error(c, err, msgSignupFailed)
		return
	}

	slog.Info("user signup successful", "username", user.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewUserRes(user))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証失敗時はユーザー列挙を防ぐため、常に同じメッセージで401を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, apperror.NewAuthenticationError(msgInvalidCredentials, err), msgInvalidCredentials)
		return
	}

	user, err := h.auth.Login(c.Request.Context(), h.sessions.For(c), req.Username, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		response.Error(c, err, msgInvalidCredentials)
		return
	}

	slog.Info("user login successful", "username", user.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// CheckSession returns the logged-in user, or 401 {"message":"Not logged in"}.
func (h *AuthHandler) CheckSession(c *gin.Context) {
	user, err := h.auth.CheckSession(c.Request.Context(), h.sessions.For(c))
	if err != nil {
		if !errors.Is(err, usecase.ErrNotLoggedIn) {
			slog.Error("check_session failed", "error", err)
		}
		response.Message(c, http.StatusUnauthorized, msgNotLoggedIn)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// Logout clears the session and always answers 204 with an empty body.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), h.sessions.For(c))
	c.Status(http.StatusNoContent)
}
