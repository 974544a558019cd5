// Package storage persists dikte's JSON documents (the correction store, the
// user profile and the transcript history).
//
// A [Backend] stores opaque byte blobs under a document name. The engine
// owns serialisation; backends only move bytes. Three implementations ship:
// [FileBackend] (one JSON file per document, the default), the sqlite
// sub-package (single-file database) and the postgres sub-package (shared
// server). [Memory] is used by tests.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/MrWong99/dikte/internal/observe"
)

// Document names.
const (
	DocCorrections = "corrections"
	DocProfile     = "user_profile"
	DocHistory     = "history"
)

// ErrNotFound is returned by [Backend.Load] when no document with the given
// name has been saved yet.
var ErrNotFound = errors.New("storage: document not found")

// Backend stores named documents.
//
// Implementations must be safe for concurrent use. Save replaces the whole
// document atomically: a concurrent Load sees either the old or the new
// bytes, never a mix.
type Backend interface {
	// Load returns the stored bytes for name, or an error wrapping
	// [ErrNotFound] if it does not exist.
	Load(ctx context.Context, name string) ([]byte, error)

	// Save stores data under name, replacing any previous version.
	Save(ctx context.Context, name string, data []byte) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases resources held by the backend.
	Close() error
}

// Instrumented wraps a [Backend] and records every Load and Save on
// [observe.Metrics]. A missing document is not counted as an error.
type Instrumented struct {
	Backend
	kind    string
	metrics *observe.Metrics
}

var _ Backend = (*Instrumented)(nil)

// Instrument returns b wrapped with metrics under the given backend kind
// ("file", "sqlite", "postgres"). A nil m returns b unchanged.
func Instrument(b Backend, kind string, m *observe.Metrics) Backend {
	if m == nil {
		return b
	}
	return &Instrumented{Backend: b, kind: kind, metrics: m}
}

func (i *Instrumented) Load(ctx context.Context, name string) ([]byte, error) {
	start := time.Now()
	data, err := i.Backend.Load(ctx, name)
	recErr := err
	if errors.Is(err, ErrNotFound) {
		recErr = nil
	}
	i.metrics.RecordStorage(ctx, i.kind, "load", time.Since(start).Seconds(), recErr)
	return data, err
}

func (i *Instrumented) Save(ctx context.Context, name string, data []byte) error {
	start := time.Now()
	err := i.Backend.Save(ctx, name, data)
	i.metrics.RecordStorage(ctx, i.kind, "save", time.Since(start).Seconds(), err)
	return err
}
