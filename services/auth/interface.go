package auth

import (
	"context"
	"time"

	"ceygo/utils"
)

// Session is what a successful login hands back to the console.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService checks admin credentials and manages the sessions they open.
type AuthService interface {
	// Login verifies the credentials and opens a session. Any mismatch yields the same
	// Unauthorized error.
	Login(ctx context.Context, email, password string) (*Session, error)
	// Authenticate validates a bearer token and checks the session has not been revoked.
	Authenticate(ctx context.Context, token string) (*utils.SessionClaims, error)
	// Logout revokes the session the claims belong to.
	Logout(ctx context.Context, claims *utils.SessionClaims) error
}

// SessionStore tracks live session ids so tokens can be revoked before they expire.
type SessionStore interface {
	Create(ctx context.Context, id, subject string, ttl time.Duration) error
	Exists(ctx context.Context, id string) (bool, error)
	Revoke(ctx context.Context, id string) error
}
