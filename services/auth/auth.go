package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"ceygo/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid credentials"

// DefaultAuthService is the production implementation.
type DefaultAuthService struct {
	creds    Credentials
	secret   []byte
	ttl      time.Duration
	sessions SessionStore
	clock    utils.Clock
	logger   *zap.Logger
}

func NewDefaultAuthService(creds Credentials, secret []byte, ttl time.Duration, sessions SessionStore, clock utils.Clock, logger *zap.Logger) *DefaultAuthService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &DefaultAuthService{
		creds:    creds,
		secret:   secret,
		ttl:      ttl,
		sessions: sessions,
		clock:    clock,
		logger:   logger,
	}
}

func (s *DefaultAuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.creds.Email)) == 1
	// Always run bcrypt so a wrong email costs as much as a wrong password.
	passwordOK := bcrypt.CompareHashAndPassword(s.creds.PasswordHash, []byte(password)) == nil
	if !emailOK || !passwordOK {
		s.logger.Warn("Admin login rejected")
		return nil, utils.Unauthorized(invalidCredentials)
	}

	now := s.clock.Now()
	sessionID := uuid.NewString()
	token, err := utils.GenerateToken(s.secret, s.creds.Email, sessionID, now, s.ttl)
	if err != nil {
		return nil, utils.Internal("Failed to create session", err)
	}
	if err := s.sessions.Create(ctx, sessionID, s.creds.Email, s.ttl); err != nil {
		return nil, utils.Internal("Failed to create session", err)
	}

	s.logger.Info("Admin logged in", zap.String("sessionID", sessionID))
	return &Session{
		Token:     token,
		Email:     s.creds.Email,
		ExpiresAt: now.Add(s.ttl).UTC().Truncate(time.Second),
	}, nil
}

func (s *DefaultAuthService) Authenticate(ctx context.Context, token string) (*utils.SessionClaims, error) {
	claims, err := utils.ValidateToken(s.secret, token)
	if err != nil {
		return nil, utils.Unauthorized("Invalid or expired session")
	}
	live, err := s.sessions.Exists(ctx, claims.Id)
	if err != nil {
		return nil, utils.Internal("Failed to verify session", err)
	}
	if !live {
		return nil, utils.Unauthorized("Session has been revoked")
	}
	return claims, nil
}

func (s *DefaultAuthService) Logout(ctx context.Context, claims *utils.SessionClaims) error {
	if err := s.sessions.Revoke(ctx, claims.Id); err != nil {
		return utils.Internal("Failed to end session", fmt.Errorf("revoke %s: %w", claims.Id, err))
	}
	s.logger.Info("Admin logged out", zap.String("sessionID", claims.Id))
	return nil
}
