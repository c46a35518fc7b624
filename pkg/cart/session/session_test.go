package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/cart"
	"storefront/pkg/cart/memory"
)

func TestRegistry_SameStorePerSession(t *testing.T) {
	ctx := context.Background()
	calls := 0
	r := NewRegistry(func(string) cart.Backend {
		calls++
		return memory.New()
	}, nil)

	id := NewID()
	a, err := r.Get(ctx, id)
	require.NoError(t, err)
	b, err := r.Get(ctx, id)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(func(string) cart.Backend { return memory.New() }, nil)

	a, err := r.Get(ctx, NewID())
	require.NoError(t, err)
	b, err := r.Get(ctx, NewID())
	require.NoError(t, err)

	a.AddItem(ctx, cart.NewCandidate("p1", "", "Mug", "mug", decimal.NewFromInt(5), "USD"))
	assert.Equal(t, 1, a.TotalItems())
	assert.Equal(t, 0, b.TotalItems())
}

func TestRegistry_RestoresFromBackend(t *testing.T) {
	ctx := context.Background()
	backends := map[string]*memory.Backend{}
	factory := func(id string) cart.Backend {
		if b, ok := backends[id]; ok {
			return b
		}
		b := memory.New()
		backends[id] = b
		return b
	}

	id := NewID()
	first, err := NewRegistry(factory, nil).Get(ctx, id)
	require.NoError(t, err)
	first.AddItem(ctx, cart.NewCandidate("p1", "", "Mug", "mug", decimal.NewFromInt(5), "USD"))

	second, err := NewRegistry(factory, nil).Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, second.TotalItems())
}

func TestRegistry_RejectsInvalidID(t *testing.T) {
	r := NewRegistry(func(string) cart.Backend { return memory.New() }, nil)

	_, err := r.Get(context.Background(), "../../etc")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.Zero(t, r.Len())
}

func TestRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	opened := map[string]int{}
	backends := map[string]*memory.Backend{}
	r := NewRegistry(func(id string) cart.Backend {
		opened[id]++
		if b, ok := backends[id]; ok {
			return b
		}
		b := memory.New()
		backends[id] = b
		return b
	}, nil, WithMaxOpen(2))

	a, b, c := NewID(), NewID(), NewID()
	storeA, err := r.Get(ctx, a)
	require.NoError(t, err)
	storeB, err := r.Get(ctx, b)
	require.NoError(t, err)
	storeB.AddItem(ctx, cart.NewCandidate("p1", "", "Mug", "mug", decimal.NewFromInt(5), "USD"))

	again, err := r.Get(ctx, a)
	require.NoError(t, err)
	assert.Same(t, storeA, again)

	_, err = r.Get(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	again, err = r.Get(ctx, a)
	require.NoError(t, err)
	assert.Same(t, storeA, again, "recently used session is kept")
	assert.Equal(t, 1, opened[a])

	reopened, err := r.Get(ctx, b)
	require.NoError(t, err)
	assert.NotSame(t, storeB, reopened)
	assert.Equal(t, 2, opened[b])
	assert.Equal(t, 1, reopened.TotalItems(), "evicted session is restored from its backend")
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_ConcurrentGetSharesRestore(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	r := NewRegistry(func(string) cart.Backend {
		calls.Add(1)
		return memory.New()
	}, nil)

	id := NewID()
	const callers = 50
	got := make([]*cart.Store, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := r.Get(ctx, id)
			assert.NoError(t, err)
			got[i] = s
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, s := range got {
		assert.Same(t, got[0], s)
	}
	assert.Equal(t, 1, r.Len())
}

// blockingBackend holds Load until release is closed.
type blockingBackend struct {
	loading chan struct{}
	release chan struct{}
}

func (b *blockingBackend) Load(context.Context) ([]byte, error) {
	close(b.loading)
	<-b.release
	return nil, cart.ErrNotFound
}

func (b *blockingBackend) Save(context.Context, []byte) error { return nil }

func TestRegistry_SlowRestoreDoesNotBlockOtherSessions(t *testing.T) {
	ctx := context.Background()
	slowID := NewID()
	slow := &blockingBackend{loading: make(chan struct{}), release: make(chan struct{})}
	r := NewRegistry(func(id string) cart.Backend {
		if id == slowID {
			return slow
		}
		return memory.New()
	}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := r.Get(ctx, slowID)
		assert.NoError(t, err)
	}()
	<-slow.loading

	fast := make(chan error, 1)
	go func() {
		_, err := r.Get(ctx, NewID())
		fast <- err
	}()
	select {
	case err := <-fast:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Get for another session waited on a slow restore")
	}

	close(slow.release)
	<-done
	assert.Equal(t, 2, r.Len())
}
