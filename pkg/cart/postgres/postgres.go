package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"storefront/pkg/cart"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Backend persists one cart snapshot as a row of cart_storage.
type Backend struct {
	db  *sql.DB
	key string
}

// New creates a PostgreSQL backend for the given session. The cart_storage
// table must exist; see Migrate.
func New(db *sql.DB, sessionID string) *Backend {
	return &Backend{db: db, key: cart.StorageKey + ":" + sessionID}
}

// Migrate applies the embedded schema migrations.
func Migrate(db *sql.DB) error {
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

// Load reads the snapshot row.
func (b *Backend) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx, "SELECT value FROM cart_storage WHERE key=$1", b.key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, cart.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select cart snapshot: %w", err)
	}
	return data, nil
}

// Save upserts the snapshot row.
func (b *Backend) Save(ctx context.Context, data []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO cart_storage (key,value,updated_at) VALUES ($1,$2,now())
		 ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`,
		b.key, data)
	if err != nil {
		return fmt.Errorf("upsert cart snapshot: %w", err)
	}
	return nil
}
