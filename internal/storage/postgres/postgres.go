// Package postgres is a [storage.Backend] backed by PostgreSQL. Documents are
// kept as JSONB rows in a single table. JSONB normalises whitespace and key
// order, so Load returns equivalent JSON rather than the exact bytes saved.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MrWong99/dikte/internal/storage"
)

const ddlDocuments = `
CREATE TABLE IF NOT EXISTS dikte_documents (
    name       TEXT         PRIMARY KEY,
    data       JSONB        NOT NULL,
    updated_at TIMESTAMPTZ  NOT NULL DEFAULT now()
);`

// Migrate creates the tables the backend needs. It is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range []string{ddlDocuments} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
	}
	return nil
}

// Backend stores documents in dikte_documents.
type Backend struct {
	pool *pgxpool.Pool
}

var _ storage.Backend = (*Backend)(nil)

// Open connects to the database at dsn, verifies the connection and runs
// [Migrate].
func Open(ctx context.Context, dsn string) (*Backend, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres store: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: ping: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: migrate: %w", err)
	}
	return &Backend{pool: pool}, nil
}

func (b *Backend) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := b.pool.QueryRow(ctx,
		`SELECT data::text FROM dikte_documents WHERE name = $1`, name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("postgres store: load %s: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres store: load %s: %w", name, err)
	}
	return data, nil
}

// Save upserts the document. data must be valid JSON.
func (b *Backend) Save(ctx context.Context, name string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("postgres store: save %s: document is not valid JSON", name)
	}
	_, err := b.pool.Exec(ctx, `
INSERT INTO dikte_documents (name, data, updated_at) VALUES ($1, $2::jsonb, now())
ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		name, string(data))
	if err != nil {
		return fmt.Errorf("postgres store: save %s: %w", name, err)
	}
	return nil
}

// UpdatedAt returns when name was last saved.
func (b *Backend) UpdatedAt(ctx context.Context, name string) (time.Time, error) {
	var t time.Time
	err := b.pool.QueryRow(ctx,
		`SELECT updated_at FROM dikte_documents WHERE name = $1`, name).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, fmt.Errorf("postgres store: updated_at %s: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("postgres store: updated_at %s: %w", name, err)
	}
	return t, nil
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

// Close releases the pool. It always returns nil.
func (b *Backend) Close() error {
	b.pool.Close()
	return nil
}
