package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"storefront/pkg/cart"
)

func setupTestDB(t *testing.T) *sql.DB {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestBackend_SaveLoad(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	b := New(db, uuid.NewString())

	_, err := b.Load(ctx)
	assert.ErrorIs(t, err, cart.ErrNotFound)

	require.NoError(t, b.Save(ctx, []byte("first")))
	require.NoError(t, b.Save(ctx, []byte("second")))

	data, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, Migrate(db))
}

func TestBackend_SessionsAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a := cart.New(ctx, New(db, "a"))
	a.AddItem(ctx, cart.NewCandidate("p1", "v1", "Shirt", "shirt", decimal.NewFromInt(30), "USD"))

	b := cart.New(ctx, New(db, "b"))
	assert.Empty(t, b.Items())

	restored := cart.New(ctx, New(db, "a"))
	require.Len(t, restored.Items(), 1)
	assert.Equal(t, "v1", restored.Items()[0].ID)
}
