package auth

import (
	"crypto/rand"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Credentials is the configured admin identity.
type Credentials struct {
	Email        string
	PasswordHash []byte
}

// NewCredentials prefers a bcrypt hash. A plaintext password is accepted for local setups
// and hashed once here, with a warning.
func NewCredentials(email, passwordHash, password string, logger *zap.Logger) (Credentials, error) {
	if email == "" {
		return Credentials{}, errors.New("ADMIN_EMAIL is not set")
	}
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return Credentials{}, fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
		}
		return Credentials{Email: email, PasswordHash: []byte(passwordHash)}, nil
	}
	if password == "" {
		return Credentials{}, errors.New("neither ADMIN_PASSWORD_HASH nor ADMIN_PASSWORD is set")
	}

	logger.Warn("ADMIN_PASSWORD is set in plaintext; configure ADMIN_PASSWORD_HASH instead")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return Credentials{Email: email, PasswordHash: hash}, nil
}

// ResolveSecret returns the token signing key. Outside production a missing secret is
// replaced by a random one, which invalidates sessions on every restart.
func ResolveSecret(secret string, production bool, logger *zap.Logger) ([]byte, error) {
	if secret != "" {
		if len(secret) < 32 {
			logger.Warn("JWT_SECRET is shorter than 32 bytes")
		}
		return []byte(secret), nil
	}
	if production {
		return nil, errors.New("JWT_SECRET must be set in production")
	}

	logger.Warn("JWT_SECRET not set; using a random per-process secret")
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate token secret: %w", err)
	}
	return key, nil
}
