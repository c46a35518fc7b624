package cart

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"storefront/pkg/logger"
	"storefront/pkg/otel"
)

// Store is the authoritative cart for one shopper. Mutations are applied
// in call order; each one is saved to the backend and then announced to
// listeners before the call returns.
type Store struct {
	backend Backend
	log     *logger.Logger

	// writeMu serialises mutate, save and notify. Listeners run while it
	// is held, so they must not call mutating methods.
	writeMu sync.Mutex

	mu        sync.RWMutex
	items     []LineItem
	listeners []listenerEntry
	nextID    int
}

type listenerEntry struct {
	id int
	fn Listener
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report recovered failures.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Store and restores any snapshot held by backend. A
// missing or unreadable snapshot yields an empty cart.
func New(ctx context.Context, backend Backend, opts ...Option) *Store {
	s := &Store{backend: backend, log: logger.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) []LineItem {
	ctx, span := otel.AddSpan(ctx, "cart.restore")
	defer span.End()

	data, err := s.backend.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		s.log.Warn(ctx, "load cart snapshot", "error", err)
		return nil
	}
	items, err := Decode(data)
	if err != nil {
		s.log.Warn(ctx, "discard cart snapshot", "error", err)
		return nil
	}
	span.SetAttributes(attribute.Int("cart.items", len(items)))
	return items
}

// AddItem increments the quantity of the entry whose ID equals c.ID, or
// appends c with quantity 1 when there is none. The existing entry's other
// fields are kept. c.ID is not checked: an entry with an empty ID is held
// in memory but dropped by Decode, so it does not survive a restore.
//
// Every mutating method returns the state it produced, which may differ
// from a later Snapshot when other goroutines mutate the same Store.
func (s *Store) AddItem(ctx context.Context, c Candidate) Snapshot {
	return s.mutate(ctx, "cart.AddItem", func(items []LineItem) []LineItem {
		if i := indexOf(items, c.ID); i >= 0 {
			items[i].Quantity++
			return items
		}
		return append(items, c.lineItem(1))
	})
}

// RemoveItem deletes the entry with the given id, if any.
func (s *Store) RemoveItem(ctx context.Context, id string) Snapshot {
	return s.mutate(ctx, "cart.RemoveItem", func(items []LineItem) []LineItem {
		return remove(items, id)
	})
}

// UpdateQuantity sets the quantity of the entry with the given id. A
// quantity of zero or less removes the entry. Unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) Snapshot {
	return s.mutate(ctx, "cart.UpdateQuantity", func(items []LineItem) []LineItem {
		if quantity <= 0 {
			return remove(items, id)
		}
		if i := indexOf(items, id); i >= 0 {
			items[i].Quantity = quantity
		}
		return items
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) Snapshot {
	return s.mutate(ctx, "cart.Clear", func([]LineItem) []LineItem {
		return nil
	})
}

// Items returns a copy of the entries in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// TotalItems returns the sum of all quantities.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TotalItems(s.items)
}

// TotalPrice returns the sum of price times quantity across all entries.
// Currencies are not reconciled.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TotalPrice(s.items)
}

// Snapshot returns the current items together with derived totals.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotOf(s.items)
}

// Subscribe registers fn to be called after every mutation. Listeners run
// synchronously in subscription order. The returned func removes fn.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.listeners = slices.DeleteFunc(s.listeners, func(e listenerEntry) bool {
				return e.id == id
			})
		})
	}
}

func (s *Store) mutate(ctx context.Context, op string, apply func([]LineItem) []LineItem) Snapshot {
	ctx, span := otel.AddSpan(ctx, op)
	defer span.End()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.items = apply(slices.Clone(s.items))
	snap := snapshotOf(s.items)
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	span.SetAttributes(
		attribute.Int("cart.items", len(snap.Items)),
		attribute.Int("cart.total_items", snap.TotalItems),
	)

	s.persist(ctx, snap.Items)

	result := snap
	result.Items = slices.Clone(snap.Items)
	for _, l := range listeners {
		l.fn(snap)
	}
	return result
}

// persist writes items to the backend. Failures are logged only; the
// in-memory cart stays authoritative.
func (s *Store) persist(ctx context.Context, items []LineItem) {
	data, err := Encode(items)
	if err != nil {
		s.log.Error(ctx, "encode cart", "error", err)
		return
	}
	if err := s.backend.Save(ctx, data); err != nil {
		s.log.Warn(ctx, "save cart", "error", err)
	}
}

func snapshotOf(items []LineItem) Snapshot {
	cp := slices.Clone(items)
	if cp == nil {
		cp = []LineItem{}
	}
	return Snapshot{
		Items:      cp,
		TotalItems: TotalItems(cp),
		TotalPrice: TotalPrice(cp),
	}
}

func indexOf(items []LineItem, id string) int {
	return slices.IndexFunc(items, func(it LineItem) bool { return it.ID == id })
}

func remove(items []LineItem, id string) []LineItem {
	return slices.DeleteFunc(items, func(it LineItem) bool { return it.ID == id })
}
