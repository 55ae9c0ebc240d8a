package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HealthCheck checks one dependency; nil means healthy.
type HealthCheck func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Checks    map[string]bool `json:"checks"`
	Healthy   bool            `json:"healthy"`
	CheckedAt time.Time       `json:"checkedAt"`
}

var (
	currentHealth = HealthStatus{Healthy: true, Checks: map[string]bool{}}
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// RunHealthChecks runs every check once and stores the result.
func RunHealthChecks(ctx context.Context, checks map[string]HealthCheck) HealthStatus {
	status := HealthStatus{Checks: make(map[string]bool, len(checks)), Healthy: true, CheckedAt: time.Now()}
	for name, check := range checks {
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check(cctx)
		cancel()
		status.Checks[name] = err == nil
		if err != nil {
			status.Healthy = false
			GetLogger().Warn("Health check failed", zap.String("check", name), zap.Error(err))
		}
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, interval time.Duration, checks map[string]HealthCheck) {
	go func() {
		RunHealthChecks(ctx, checks)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				RunHealthChecks(ctx, checks)
			}
		}
	}()
}
