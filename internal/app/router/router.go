// Package router mounts every HTTP route of the API.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"recipe_backend/internal/app/di"
	"recipe_backend/internal/platform/session"
)

// Options configures the middleware stack.
type Options struct {
	// AllowedOrigins enables CORS with credentials for the listed origins. Empty disables CORS.
	AllowedOrigins []string
	Session        session.CookieOptions
}

// NewRouter はミドルウェアと全ルートを登録したgin.Engineを生成します。
func NewRouter(opts Options, h *di.Handlers) *gin.Engine {
	r := gin.Default()

	// ブラウザのフロントエンドからCookie付きで呼ばれるためCORSを許可
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodHead, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 署名付きセッションCookie
	r.Use(session.Middleware(opts.Session))

	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)

	// 認証
	r.POST("/signup", h.Auth.Signup)
	r.GET("/check_session", h.Auth.CheckSession)
	r.POST("/login", h.Auth.Login)
	r.DELETE("/logout", h.Auth.Logout)

	// レシピ（ログイン必須。判定はユースケース側で行う）
	r.GET("/recipes", h.Recipes.List)
	r.POST("/recipes", h.Recipes.Create)

	return r
}
