// Package sqlite is a [storage.Backend] backed by a single SQLite database
// file, using the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MrWong99/dikte/internal/storage"
)

const ddlDocuments = `
CREATE TABLE IF NOT EXISTS documents (
    name       TEXT    PRIMARY KEY,
    data       BLOB    NOT NULL,
    updated_at INTEGER NOT NULL
);`

// Backend stores documents in the "documents" table.
type Backend struct {
	db  *sql.DB
	now func() time.Time
}

var _ storage.Backend = (*Backend)(nil)

// Open opens (creating if necessary) the database at path and ensures the
// schema exists.
func Open(ctx context.Context, path string) (*Backend, error) {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	dsn := "file:" + path + "?" + q.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open: %w", err)
	}
	// SQLite serialises writers anyway; one connection avoids SQLITE_BUSY
	// between our own goroutines.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, ddlDocuments); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: migrate: %w", err)
	}
	return &Backend{db: db, now: time.Now}, nil
}

func (b *Backend) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite store: load %s: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite store: load %s: %w", name, err)
	}
	return data, nil
}

func (b *Backend) Save(ctx context.Context, name string, data []byte) error {
	_, err := b.db.ExecContext(ctx, `
INSERT INTO documents (name, data, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name, data, b.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlite store: save %s: %w", name, err)
	}
	return nil
}

// UpdatedAt returns when name was last saved.
func (b *Backend) UpdatedAt(ctx context.Context, name string) (time.Time, error) {
	var ms int64
	err := b.db.QueryRowContext(ctx,
		`SELECT updated_at FROM documents WHERE name = ?`, name).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("sqlite store: updated_at %s: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite store: updated_at %s: %w", name, err)
	}
	return time.UnixMilli(ms), nil
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

func (b *Backend) Close() error {
	return b.db.Close()
}
