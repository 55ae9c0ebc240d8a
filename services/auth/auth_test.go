package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"ceygo/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@ceygo.lk"
	adminPassword = "correct horse battery staple"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newService(t *testing.T) *DefaultAuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	// Token validation reads the wall clock, so sessions must too.
	clock := utils.SystemClock{}
	return NewDefaultAuthService(
		Credentials{Email: adminEmail, PasswordHash: hash},
		testSecret,
		time.Hour,
		NewMemorySessionStore(clock),
		clock,
		zaptest.NewLogger(t),
	)
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.Status)
}

func TestLogin_IssuesUsableToken(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, adminEmail, session.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 2*time.Second)

	claims, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, adminEmail, claims.Subject)
	assert.NotEmpty(t, claims.Id)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	cases := []struct{ email, password string }{
		{adminEmail, "wrong"},
		{"someone@ceygo.lk", adminPassword},
		{"", ""},
	}
	for _, tc := range cases {
		session, err := svc.Login(ctx, tc.email, tc.password)
		assert.Nil(t, session)
		requireStatus(t, err, http.StatusUnauthorized)
		assert.Equal(t, "Invalid credentials", err.Error())
	}
}

func TestAuthenticate_RejectsForeignTokens(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "not-a-jwt")
	requireStatus(t, err, http.StatusUnauthorized)

	forged, err := utils.GenerateToken([]byte("another-secret-another-secret-xx"), adminEmail, "sid", time.Now(), time.Hour)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, forged)
	requireStatus(t, err, http.StatusUnauthorized)

	expired, err := utils.GenerateToken(testSecret, adminEmail, "sid", time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, expired)
	requireStatus(t, err, http.StatusUnauthorized)

	// Correctly signed but never issued by Login.
	unknown, err := utils.GenerateToken(testSecret, adminEmail, "sid", time.Now(), time.Hour)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, unknown)
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestLogout_RevokesSession(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	second, err := svc.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)

	claims, err := svc.Authenticate(ctx, first.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, claims))

	_, err = svc.Authenticate(ctx, first.Token)
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = svc.Authenticate(ctx, second.Token)
	assert.NoError(t, err, "other sessions stay open")
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	clock := &steppingClock{now: now}
	store := NewMemorySessionStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "s1", adminEmail, time.Minute))
	live, err := store.Exists(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, live)

	clock.now = now.Add(time.Minute)
	live, err = store.Exists(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, live)

	// Creating another session sweeps the expired one.
	require.NoError(t, store.Create(ctx, "s2", adminEmail, time.Minute))
	assert.NotContains(t, store.sessions, "s1")
}

type steppingClock struct{ now time.Time }

func (c *steppingClock) Now() time.Time { return c.now }

func TestNewCredentials(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := NewCredentials("", "", "secret", logger)
	assert.Error(t, err)
	_, err = NewCredentials(adminEmail, "", "", logger)
	assert.Error(t, err)
	_, err = NewCredentials(adminEmail, "not-a-hash", "", logger)
	assert.Error(t, err)

	creds, err := NewCredentials(adminEmail, "", "plain", logger)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(creds.PasswordHash, []byte("plain")))

	hash, err := bcrypt.GenerateFromPassword([]byte("hashed"), bcrypt.MinCost)
	require.NoError(t, err)
	creds, err = NewCredentials(adminEmail, string(hash), "ignored", logger)
	require.NoError(t, err)
	assert.Equal(t, hash, creds.PasswordHash)
}

func TestResolveSecret(t *testing.T) {
	logger := zaptest.NewLogger(t)

	key, err := ResolveSecret("configured-secret", true, logger)
	require.NoError(t, err)
	assert.Equal(t, []byte("configured-secret"), key)

	_, err = ResolveSecret("", true, logger)
	assert.Error(t, err)

	a, err := ResolveSecret("", false, logger)
	require.NoError(t, err)
	b, err := ResolveSecret("", false, logger)
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
