package entity

import "time"

// Session maps an opaque session token to the user it authenticates.
// The token travels in the signed session cookie; the record lives server-side.
type Session struct {
	ID        string    // Opaque token (UUID)
	UserID    uint      // Authenticated user
	CreatedAt time.Time // Issue time
	ExpiresAt time.Time // Expiration time
}

// NewSession builds a session for userID that expires ttl after now.
func NewSession(id string, userID uint, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
