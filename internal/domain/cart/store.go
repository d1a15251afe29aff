// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Store persists full cart snapshots keyed by session ID. Every mutation
// writes the complete cart; a missing or unreadable snapshot rehydrates as an
// empty cart rather than surfacing an error to the shopper.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
}

// RedisStore stores cart snapshots in Redis, one key per session
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed cart store
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Load retrieves the cart snapshot for a session. A missing key or a corrupt
// snapshot yields a fresh empty cart.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for cart")
	}

	data, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return NewCart(sessionID), nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		logrus.WithField("session_id", sessionID).
			WithError(err).Warn("Corrupt cart snapshot, starting with empty cart")
		return NewCart(sessionID), nil
	}

	return &c, nil
}

// Save writes the full cart snapshot with the session TTL
func (s *RedisStore) Save(ctx context.Context, cart *Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	if err := s.client.Set(ctx, s.key(cart.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

// MemoryStore keeps cart snapshots in process memory. It backs tests and
// single-node development setups without Redis.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewMemoryStore creates an in-memory cart store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string][]byte),
	}
}

// Load retrieves the cart snapshot for a session, empty if absent
func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for cart")
	}

	s.mu.RLock()
	data, ok := s.carts[sessionID]
	s.mu.RUnlock()

	if !ok {
		return NewCart(sessionID), nil
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return NewCart(sessionID), nil
	}

	return &c, nil
}

// Save writes the full cart snapshot
func (s *MemoryStore) Save(ctx context.Context, cart *Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	s.mu.Lock()
	s.carts[cart.SessionID] = data
	s.mu.Unlock()

	return nil
}
