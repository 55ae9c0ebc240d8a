package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	t.Setenv("ACTIVITY_FEED_SIZE", "20")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("FIREBASE_PROJECT_ID", "ceygo-test")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")

	LoadConfig()

	assert.Equal(t, 20, AppConfig.ActivityFeedSize)
	assert.Equal(t, 90*time.Minute, AppConfig.SessionTTL)
	assert.Equal(t, "Asia/Colombo", AppConfig.BusinessTimezone)
	assert.Equal(t, "ceygo-test.appspot.com", AppConfig.FirebaseStorageBucket)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, AppConfig.TrustedProxies)
	assert.False(t, IsProduction())
}

func TestBusinessLocation(t *testing.T) {
	AppConfig.BusinessTimezone = "Asia/Colombo"
	loc := BusinessLocation()
	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 5*3600+30*60, offset)

	AppConfig.BusinessTimezone = "Mars/Olympus_Mons"
	assert.Equal(t, time.UTC, BusinessLocation())
}
