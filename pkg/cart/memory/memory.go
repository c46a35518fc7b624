// Package memory implements an in-memory cart backend.
package memory

import (
	"context"
	"sync"

	"storefront/pkg/cart"
)

// Backend keeps the last saved snapshot in memory.
type Backend struct {
	mu    sync.RWMutex
	data  []byte
	saves int
}

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{}
}

// NewWith creates a backend already holding data.
func NewWith(data []byte) *Backend {
	return &Backend{data: append([]byte(nil), data...)}
}

// Load returns a copy of the stored snapshot.
func (b *Backend) Load(ctx context.Context) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return nil, cart.ErrNotFound
	}
	return append([]byte(nil), b.data...), nil
}

// Save replaces the stored snapshot.
func (b *Backend) Save(ctx context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append([]byte{}, data...)
	b.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (b *Backend) Saves() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.saves
}
