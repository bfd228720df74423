package models

import (
	"context"
	"time"
)

// Session is the authenticated caller of a request.
type Session struct {
	UserID    string
	Email     string
	Role      UserRole
	TokenID   string
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

type sessionKey struct{}

// WithSession stores s on ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored on ctx, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
