// Package session mints, verifies and rotates the signed session cookie that carries
// the upstream identity and token pair between requests.
package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/docdash/identity"
)

// Session is the server-side view of an authenticated browser.
type Session struct {
	ID           string
	User         identity.User
	AccessToken  string
	RefreshToken string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Claims is the JWT payload of the session cookie.
type Claims struct {
	jwt.RegisteredClaims
	User         identity.User `json:"user"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
}

func (s *Session) claims(issuer string) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   s.User.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
		User:         s.User,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
}

func fromClaims(c *Claims) *Session {
	s := &Session{
		ID:           c.ID,
		User:         c.User,
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
	}
	if c.IssuedAt != nil {
		s.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}

type contextKey struct{}

// WithSession attaches the request's session for handlers further down the chain.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
