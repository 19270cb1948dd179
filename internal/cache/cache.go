package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a short-TTL key store used to suppress duplicate events across
// process instances (e.g. a double-delivered /start)
type Cache interface {
	// SetNX records the key with a TTL and reports whether it was absent
	SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Close() error
}

// Redis backs the cache with a shared Redis instance so suppression holds
// across multiple bot processes
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the given address
func NewRedis(addr string) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *Redis) SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, 1, ttl).Result()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Memory is the single-process fallback when no Redis address is configured
type Memory struct {
	mu      sync.Mutex
	entries map[string]time.Time // key -> expiry
}

// NewMemory creates an in-process cache
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]time.Time)}
}

func (m *Memory) SetNX(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Lazy purge of expired keys
	for k, exp := range m.entries {
		if now.After(exp) {
			delete(m.entries, k)
		}
	}

	if exp, ok := m.entries[key]; ok && now.Before(exp) {
		return false, nil
	}
	m.entries[key] = now.Add(ttl)
	return true, nil
}

func (m *Memory) Close() error {
	return nil
}
