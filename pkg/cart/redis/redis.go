// Package redis stores cart snapshots in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/pkg/cart"
)

// Backend persists one cart under a per-session key.
type Backend struct {
	client  *redis.Client
	key     string
	baseTTL time.Duration
}

// New returns a backend for the given session. A zero ttl keeps the
// snapshot until it is overwritten; otherwise up to five minutes of
// jitter is added so carts created together do not expire together.
func New(client *redis.Client, sessionID string, ttl time.Duration) *Backend {
	return &Backend{
		client:  client,
		key:     storageKey(sessionID),
		baseTTL: ttl,
	}
}

// Load reads the snapshot.
func (b *Backend) Load(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

// Save overwrites the snapshot.
func (b *Backend) Save(ctx context.Context, data []byte) error {
	if err := b.client.Set(ctx, b.key, data, b.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (b *Backend) ttl() time.Duration {
	if b.baseTTL <= 0 {
		return 0
	}
	return b.baseTTL + time.Duration(rand.Intn(5))*time.Minute
}

func storageKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", cart.StorageKey, sessionID)
}
