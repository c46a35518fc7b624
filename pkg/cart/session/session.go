// Package session keeps one cart Store per shopper session.
package session

import (
	"container/list"
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"storefront/pkg/cart"
	"storefront/pkg/logger"
)

// DefaultMaxOpen bounds how many sessions a Registry keeps in memory.
const DefaultMaxOpen = 10000

// ErrInvalidID is returned for session ids that are not UUIDs.
var ErrInvalidID = errors.New("invalid session id")

// BackendFactory returns the persistence backend for a session.
type BackendFactory func(sessionID string) cart.Backend

// Registry lazily creates and caches a Store per session id. At most
// maxOpen Stores are held; the least recently used one is dropped first
// and restored from its backend when it is asked for again.
type Registry struct {
	newBackend BackendFactory
	log        *logger.Logger
	maxOpen    int

	group singleflight.Group

	mu     sync.Mutex
	lru    *list.List
	stores map[string]*list.Element
}

type entry struct {
	id    string
	store *cart.Store
}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxOpen sets how many sessions are held in memory. Values below one
// are ignored.
func WithMaxOpen(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxOpen = n
		}
	}
}

// NewRegistry creates a Registry.
func NewRegistry(newBackend BackendFactory, log *logger.Logger, opts ...Option) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	r := &Registry{
		newBackend: newBackend,
		log:        log,
		maxOpen:    DefaultMaxOpen,
		lru:        list.New(),
		stores:     make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// Get returns the Store for id, restoring it from its backend on first use.
// Concurrent calls for the same id share one restore; the registry lock is
// not held while the backend is read.
func (r *Registry) Get(ctx context.Context, id string) (*cart.Store, error) {
	if err := uuid.Validate(id); err != nil {
		return nil, ErrInvalidID
	}
	if s, ok := r.lookup(id); ok {
		return s, nil
	}

	v, _, _ := r.group.Do(id, func() (any, error) {
		if s, ok := r.lookup(id); ok {
			return s, nil
		}
		// The restore outlives the first caller's cancellation since every
		// waiter shares its result.
		s := cart.New(context.WithoutCancel(ctx), r.newBackend(id), cart.WithLogger(r.log))
		r.insert(ctx, id, s)
		r.log.Debug(ctx, "cart session opened", "session", id, "items", len(s.Items()))
		return s, nil
	})
	return v.(*cart.Store), nil
}

// Len reports how many sessions are open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lru.Len()
}

func (r *Registry) lookup(id string) (*cart.Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	el, ok := r.stores[id]
	if !ok {
		return nil, false
	}
	r.lru.MoveToFront(el)
	return el.Value.(*entry).store, true
}

func (r *Registry) insert(ctx context.Context, id string, s *cart.Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[id] = r.lru.PushFront(&entry{id: id, store: s})
	for r.lru.Len() > r.maxOpen {
		oldest := r.lru.Back()
		e := oldest.Value.(*entry)
		r.lru.Remove(oldest)
		delete(r.stores, e.id)
		r.log.Debug(ctx, "cart session evicted", "session", e.id)
	}
}
