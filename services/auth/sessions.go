package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ceygo/utils"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "admin_session:"

// RedisSessionStore keeps sessions in Redis with the token's lifetime as TTL.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Create(ctx context.Context, id, subject string, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKeyPrefix+id, subject, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to look up session: %w", err)
	}
	return n > 0, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// MemorySessionStore is the single-process fallback when Redis is not available.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	clock    utils.Clock
}

func NewMemorySessionStore(clock utils.Clock) *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]time.Time), clock: clock}
}

func (s *MemorySessionStore) Create(_ context.Context, id, _ string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for sid, exp := range s.sessions {
		if !now.Before(exp) {
			delete(s.sessions, sid)
		}
	}
	s.sessions[id] = now.Add(ttl)
	return nil
}

func (s *MemorySessionStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.sessions[id]
	return ok && s.clock.Now().Before(exp), nil
}

func (s *MemorySessionStore) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
