package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/auth/usecase"
)

const (
	// CookieName is the name of the signed session cookie.
	CookieName = "recipe_session"

	tokenKey = "sid"
)

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// Middleware installs the signed cookie store for the request.
// An empty secret gets a random per-process key, so sessions do not survive a restart.
func Middleware(opts CookieOptions) gin.HandlerFunc {
	secret := []byte(opts.Secret)
	if len(secret) == 0 {
		slog.Warn("SESSION_SECRET not set; using a random key")
		secret = securecookie.GenerateRandomKey(32)
	}

	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(CookieName, store)
}

// Manager issues and resolves session tokens against a SessionRepository.
type Manager struct {
	repo usecase.SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewManager creates a Manager whose sessions last ttl.
func NewManager(repo usecase.SessionRepository, ttl time.Duration) *Manager {
	return &Manager{repo: repo, ttl: ttl, now: time.Now}
}

// For returns the session slot of the current request.
// Middleware must run before any handler calls For.
func (m *Manager) For(c *gin.Context) *Slot {
	return &Slot{m: m, cookie: sessions.Default(c)}
}

// Slot is the per-request view of the session: Anonymous until Establish succeeds.
type Slot struct {
	m      *Manager
	cookie sessions.Session
}

func (s *Slot) token() string {
	v, _ := s.cookie.Get(tokenKey).(string)
	return v
}

// Establish binds the request to userID with a fresh token.
// A token already held by the cookie is revoked first.
func (s *Slot) Establish(ctx context.Context, userID uint) error {
	if old := s.token(); old != "" {
		if err := s.m.repo.Delete(ctx, old); err != nil {
			slog.Warn("failed to revoke previous session", "error", err, "user_id", userID)
		}
	}

	sess := entity.NewSession(uuid.NewString(), userID, s.m.now(), s.m.ttl)
	if err := s.m.repo.Create(ctx, sess); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	s.cookie.Set(tokenKey, sess.ID)
	if err := s.cookie.Save(); err != nil {
		return fmt.Errorf("failed to save session cookie: %w", err)
	}
	return nil
}

// Clear returns the request to Anonymous. Clearing an anonymous slot is a no-op that still resets the cookie.
func (s *Slot) Clear(ctx context.Context) error {
	if tok := s.token(); tok != "" {
		if err := s.m.repo.Delete(ctx, tok); err != nil {
			slog.Warn("failed to delete session", "error", err)
		}
	}

	s.cookie.Clear()
	s.cookie.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := s.cookie.Save(); err != nil {
		return fmt.Errorf("failed to clear session cookie: %w", err)
	}
	return nil
}

// CurrentUserID returns the authenticated user, if any. Store failures are logged and read as Anonymous.
func (s *Slot) CurrentUserID(ctx context.Context) (uint, bool) {
	tok := s.token()
	if tok == "" {
		return 0, false
	}

	sess, err := s.m.repo.FindByID(ctx, tok)
	if err != nil {
		if !errors.Is(err, usecase.ErrSessionNotFound) {
			slog.Error("failed to load session", "error", err)
		}
		return 0, false
	}
	return sess.UserID, true
}
