// Package engine owns dikte's state and runs the correction loop.
//
// An [Engine] holds the correction store, the profile tracker and the
// transcript history, normalises raw transcripts through a
// [transcript.Pipeline] and learns from the edits users make. Every
// mutating operation persists the affected documents through a
// [storage.Backend] on a best-effort basis: persistence failures are logged
// and never surface to the caller of ProcessTranscript or LearnFromEdit.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/dikte/internal/correction"
	"github.com/MrWong99/dikte/internal/feedback"
	"github.com/MrWong99/dikte/internal/observe"
	"github.com/MrWong99/dikte/internal/profile"
	"github.com/MrWong99/dikte/internal/storage"
	"github.com/MrWong99/dikte/internal/transcript"
	"github.com/MrWong99/dikte/internal/transcript/phonetic"
)

// DefaultMaintenanceInterval is the number of observed transcripts between
// two maintenance passes (status recalculation and deprecated cleanup).
const DefaultMaintenanceInterval = 100

// DefaultLanguage is used when a call does not name a language.
const DefaultLanguage = "tr"

// Option configures an [Engine].
type Option func(*Engine)

// WithBackend sets where documents are persisted. Default: an in-memory
// backend, i.e. nothing survives the process.
func WithBackend(b storage.Backend) Option {
	return func(e *Engine) {
		if b != nil {
			e.backend = b
		}
	}
}

// WithPipeline sets the normalisation pipeline. Default:
// transcript.NewPipeline() with [transcript.DefaultOptions].
func WithPipeline(p *transcript.Pipeline) Option {
	return func(e *Engine) {
		if p != nil {
			e.pipeline.Store(p)
		}
	}
}

// WithJournal sets where LearnFromEdit records are appended. Default:
// [feedback.Discard].
func WithJournal(j feedback.Journal) Option {
	return func(e *Engine) {
		if j != nil {
			e.journal = j
		}
	}
}

// WithMetrics enables metric recording.
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock replaces the wall clock for the engine and its correction store.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLanguage sets the language used when a call passes "" and for
// learning from edits. Default: [DefaultLanguage].
func WithLanguage(lang string) Option {
	return func(e *Engine) {
		if lang != "" {
			e.language = lang
		}
	}
}

// WithMaintenanceInterval sets how many transcripts pass between
// maintenance runs. Zero disables maintenance.
func WithMaintenanceInterval(n uint32) Option {
	return func(e *Engine) { e.maintenanceEvery = n }
}

// WithIDGenerator replaces the history ID source. Default: random UUIDs.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// Engine is safe for concurrent use.
type Engine struct {
	store   *correction.Store
	profile *profile.Tracker
	history *History
	matcher *phonetic.Matcher

	pipeline atomic.Pointer[transcript.Pipeline]
	backend  storage.Backend
	journal  feedback.Journal
	metrics  *observe.Metrics
	log      *slog.Logger

	language         string
	maintenanceEvery uint32
	now              func() time.Time
	newID            func() string

	// saveMu orders snapshots with their writes so an older snapshot never
	// lands after a newer one. It also guards held.
	saveMu sync.Mutex
	// held names documents the backend failed to read. They are not written
	// until a later Load reads them or an explicit replacement releases them.
	held map[string]bool
}

// New creates an engine with empty state. Call [Engine.Load] to restore
// persisted documents.
func New(opts ...Option) *Engine {
	e := &Engine{
		profile:          profile.NewTracker(),
		history:          &History{},
		matcher:          phonetic.New(),
		backend:          storage.NewMemory(),
		journal:          feedback.Discard{},
		log:              slog.Default(),
		language:         DefaultLanguage,
		maintenanceEvery: DefaultMaintenanceInterval,
		now:              time.Now,
		newID:            uuid.NewString,
		held:             make(map[string]bool),
	}
	for _, o := range opts {
		o(e)
	}
	if e.pipeline.Load() == nil {
		e.pipeline.Store(transcript.NewPipeline(transcript.WithLogger(e.log)))
	}
	e.store = correction.NewStore(correction.WithClock(e.now), correction.WithLogger(e.log))
	return e
}

// Pipeline returns the pipeline currently in use.
func (e *Engine) Pipeline() *transcript.Pipeline { return e.pipeline.Load() }

// SetPipeline swaps the pipeline. In-flight calls finish with the old one.
func (e *Engine) SetPipeline(p *transcript.Pipeline) {
	if p != nil {
		e.pipeline.Store(p)
	}
}

// Language returns the engine's default language.
func (e *Engine) Language() string { return e.language }

// Backend returns the persistence backend.
func (e *Engine) Backend() storage.Backend { return e.backend }

// ── Persistence ──────────────────────────────────────────────────────────────

// Load restores all documents from the backend. A missing document leaves
// the defaults in place. A document that fails to decode is logged and
// skipped. A document the backend cannot read is logged, left at its
// defaults and held: saves skip it so the stored copy is not overwritten
// until a later Load reads it or Import, Reset or ClearHistory replaces it.
// Load only fails when ctx is done.
func (e *Engine) Load(ctx context.Context) error {
	migrated := false

	if data, ok := e.loadDoc(ctx, storage.DocCorrections); ok {
		doc, err := correction.Decode(data)
		if err != nil {
			e.log.Warn("corrections document unreadable, starting empty", "err", err)
		} else {
			migrated = correction.Migrate(&doc)
			e.store.Restore(doc)
		}
	}

	if data, ok := e.loadDoc(ctx, storage.DocProfile); ok {
		p, err := profile.Decode(data)
		if err != nil {
			e.log.Warn("profile document unreadable, starting empty", "err", err)
		} else {
			e.profile.Restore(p)
		}
	}

	if data, ok := e.loadDoc(ctx, storage.DocHistory); ok {
		entries, err := decodeHistory(data)
		if err != nil {
			e.log.Warn("history document unreadable, starting empty", "err", err)
		} else {
			e.history.Restore(entries)
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("engine: load: %w", err)
	}
	e.log.InfoContext(ctx, "engine state loaded",
		"corrections", e.store.Len(),
		"history", e.history.Len(),
		"migrated", migrated,
		"held", e.Held(),
	)
	if migrated {
		e.persist(ctx, storage.DocCorrections)
	}
	return nil
}

// loadDoc reads one document. It reports false for a missing document and
// for a backend failure; the latter also holds the document.
func (e *Engine) loadDoc(ctx context.Context, name string) ([]byte, bool) {
	data, err := e.backend.Load(ctx, name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		e.release(name)
		return nil, false
	case err != nil:
		e.log.WarnContext(ctx, "document load failed, keeping defaults and holding writes",
			"doc", name, "err", err)
		e.saveMu.Lock()
		e.held[name] = true
		e.saveMu.Unlock()
		return nil, false
	}
	e.release(name)
	return data, true
}

// release lets saves write the named documents again.
func (e *Engine) release(names ...string) {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	for _, name := range names {
		delete(e.held, name)
	}
}

// Held returns the documents that saves currently skip because the backend
// failed to read them, sorted by name.
func (e *Engine) Held() []string {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	names := make([]string, 0, len(e.held))
	for name := range e.held {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Save writes every document that is not held to the backend.
func (e *Engine) Save(ctx context.Context) error {
	return e.save(ctx, storage.DocCorrections, storage.DocProfile, storage.DocHistory)
}

// save snapshots the named documents and writes them concurrently. Held
// documents are skipped.
func (e *Engine) save(ctx context.Context, names ...string) error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	docs := make(map[string]any, len(names))
	for _, name := range names {
		if e.held[name] {
			e.log.DebugContext(ctx, "skipping held document", "doc", name)
			continue
		}
		switch name {
		case storage.DocCorrections:
			docs[name] = e.store.Snapshot()
		case storage.DocProfile:
			docs[name] = e.profile.Snapshot()
		case storage.DocHistory:
			docs[name] = e.history.Entries()
		default:
			return fmt.Errorf("engine: save: unknown document %q", name)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, doc := range docs {
		g.Go(func() error {
			data, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("engine: encode %s: %w", name, err)
			}
			if err := e.backend.Save(gctx, name, data); err != nil {
				return fmt.Errorf("engine: save %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// persist is the best-effort variant of save used after mutations.
func (e *Engine) persist(ctx context.Context, names ...string) {
	if err := e.save(ctx, names...); err != nil {
		observe.LoggerFrom(ctx, e.log).Warn("persist failed", "docs", names, "err", err)
	}
}

// ── Read-only views ──────────────────────────────────────────────────────────

// Corrections returns every stored correction with its current confidence.
func (e *Engine) Corrections() []correction.View { return e.store.Views() }

// Profile returns a copy of the user profile.
func (e *Engine) Profile() profile.Profile { return e.profile.Snapshot() }

// Ngrams returns the tracked n-grams, most frequent first.
func (e *Engine) Ngrams() []profile.NgramEntry { return e.profile.Snapshot().Ngrams }

// History returns the processed transcripts, newest first.
func (e *Engine) History() []HistoryEntry { return e.history.Entries() }

// ClearHistory drops all history entries. A held history document is
// released and overwritten.
func (e *Engine) ClearHistory(ctx context.Context) {
	e.history.Clear()
	e.release(storage.DocHistory)
	e.persist(ctx, storage.DocHistory)
}

// DomainInfo classifies the current history and explains the result.
func (e *Engine) DomainInfo() profile.DomainInfo {
	d, scores := profile.DetectDomain(e.history.Texts())
	return profile.Info(d, scores)
}
