package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(nil, "ignored"))

	nf := NotFound("Driver not found")
	wrapped := Classify(nf, "Failed")
	assert.Same(t, nf, wrapped)

	raw := errors.New("connection reset")
	classified := Classify(raw, "Failed to fetch users")
	var appErr *AppError
	require.True(t, errors.As(classified, &appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "Failed to fetch users", appErr.Message)
	assert.ErrorIs(t, classified, raw)
}

func TestRespondError(t *testing.T) {
	SetLogger(zaptest.NewLogger(t))
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err     error
		status  int
		message string
		details bool
	}{
		{err: Conflict("Transfer already processed"), status: http.StatusConflict, message: "Transfer already processed"},
		{err: Internal("Failed to fetch stats", errors.New("deadline exceeded")), status: http.StatusInternalServerError, message: "Failed to fetch stats", details: true},
		{err: errors.New("boom"), status: http.StatusInternalServerError, message: "fallback", details: true},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

		RespondError(c, "fallback", tc.err)

		assert.Equal(t, tc.status, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.message, body.Error)
		assert.Equal(t, tc.details, body.Details != "")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	token, err := GenerateToken(secret, "admin@ceygo.lk", "sid-1", time.Now(), time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "admin@ceygo.lk", claims.Subject)
	assert.Equal(t, "sid-1", claims.Id)

	_, err = ValidateToken([]byte("different"), token)
	assert.Error(t, err)

	_, err = GenerateToken(nil, "admin@ceygo.lk", "sid-1", time.Now(), time.Minute)
	assert.Error(t, err)

	noSession, err := GenerateToken(secret, "admin@ceygo.lk", "", time.Now(), time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(secret, noSession)
	assert.Error(t, err)
}

func TestRunHealthChecks(t *testing.T) {
	SetLogger(zaptest.NewLogger(t))

	status := RunHealthChecks(context.Background(), map[string]HealthCheck{
		"store": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})
	assert.False(t, status.Healthy)
	assert.True(t, status.Checks["store"])
	assert.False(t, status.Checks["redis"])
	assert.Equal(t, status.Checks, GetHealthStatus().Checks)

	status = RunHealthChecks(context.Background(), map[string]HealthCheck{
		"store": func(context.Context) error { return nil },
	})
	assert.True(t, status.Healthy)
	assert.True(t, GetHealthStatus().Healthy)
}
