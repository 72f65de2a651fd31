package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PGQuerier is the subset of pgxpool.Pool the postgres store needs.
// Narrowed so tests can inject pgxmock.
type PGQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is a durable store backed by the storefront_kv table.
type Postgres struct {
	db PGQuerier
}

// NewPostgres creates a postgres-backed durable store.
func NewPostgres(db PGQuerier) *Postgres {
	if db == nil {
		panic("storage: pg querier cannot be nil")
	}
	return &Postgres{db: db}
}

// Get retrieves a value by key.
func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := p.db.QueryRow(ctx, `SELECT value FROM storefront_kv WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("storage: pg get %s: %w", key, err)
	}
	return value, nil
}

// Set upserts a value.
func (p *Postgres) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO storefront_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := p.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("storage: pg set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM storefront_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("storage: pg delete %s: %w", key, err)
	}
	return nil
}

var _ Durable = (*Postgres)(nil)
