package redisstore

import (
	"context"
	"errors"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/crow-lk/dream-builders-hub/internal/repository"
)

// Sessions stores revoked session token ids in Redis. Entries expire with
// the token itself, so the set stays small.
type Sessions struct {
	client *redis.Client
	prefix string
}

var _ repository.SessionRepository = (*Sessions)(nil)

// NewSessions connects to Redis and returns a session store.
func NewSessions(addr, password string, db int) (*Sessions, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &Sessions{client: client, prefix: "dreamhouse:revoked:"}, nil
}

// RevokeToken marks a token id revoked until its natural expiry.
func (s *Sessions) RevokeToken(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.prefix+jti, "1", ttl).Err()
}

// IsTokenRevoked reports whether a token id has been revoked.
func (s *Sessions) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if err := s.client.Get(ctx, s.prefix+jti).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Close releases the Redis connection.
func (s *Sessions) Close() {
	_ = s.client.Close()
}

// MemorySessions is an in-process fallback used when Redis is not
// configured. Suitable for a single API instance only.
type MemorySessions struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

var _ repository.SessionRepository = (*MemorySessions)(nil)

// NewMemorySessions returns an empty in-memory revocation store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{revoked: make(map[string]time.Time)}
}

// RevokeToken records the token id until its expiry.
func (m *MemorySessions) RevokeToken(_ context.Context, jti string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = until
	return nil
}

// IsTokenRevoked reports whether the token id is currently revoked.
func (m *MemorySessions) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(m.revoked, jti)
		return false, nil
	}
	return true, nil
}
