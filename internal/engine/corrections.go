package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrWong99/dikte/internal/correction"
	"github.com/MrWong99/dikte/internal/storage"
)

// Validation errors returned by [Engine.AddCorrection].
var (
	ErrEmptyWord      = errors.New("engine: word must not be empty")
	ErrSelfCorrection = errors.New("engine: correction maps a word onto itself")
)

// Errors returned by [Engine.PromoteError].
var (
	ErrCorrectionNotFound = errors.New("engine: correction not found")
	ErrNotPromotable      = errors.New("engine: only Pending or Confirmed corrections can be promoted")
)

// AddCorrection records a user-entered correction. Both words are trimmed;
// the record is created (or reinforced) exactly as if the pair had been
// learned from an edit.
func (e *Engine) AddCorrection(ctx context.Context, wrong, right string) error {
	wrong, right = strings.TrimSpace(wrong), strings.TrimSpace(right)
	if wrong == "" || right == "" {
		return ErrEmptyWord
	}
	if strings.EqualFold(wrong, right) {
		return ErrSelfCorrection
	}
	if !e.store.Add(wrong, right) {
		return fmt.Errorf("engine: add correction %q: rejected", wrong)
	}
	if e.metrics != nil {
		e.metrics.RecordLearned(ctx, "manual", 1)
	}
	e.persist(ctx, storage.DocCorrections)
	return nil
}

// RemoveCorrection deletes the correction for wrong and reports whether it
// existed.
func (e *Engine) RemoveCorrection(ctx context.Context, wrong string) bool {
	return e.mutate(ctx, e.store.Remove(wrong))
}

// PromoteCorrection makes a Pending or Confirmed correction Active.
func (e *Engine) PromoteCorrection(ctx context.Context, wrong string) bool {
	return e.mutate(ctx, e.store.Promote(wrong))
}

// PromoteError explains why [Engine.PromoteCorrection] would not act on
// wrong. It wraps [ErrCorrectionNotFound] for an unknown key and
// [ErrNotPromotable] for an Active or Deprecated record, and returns nil
// when the record can still be promoted.
func (e *Engine) PromoteError(wrong string) error {
	v, ok := e.Correction(wrong)
	if !ok {
		return fmt.Errorf("%w: %q", ErrCorrectionNotFound, wrong)
	}
	switch v.Status {
	case correction.StatusActive:
		return fmt.Errorf("%w: %q is already Active", ErrNotPromotable, v.Wrong)
	case correction.StatusDeprecated:
		return fmt.Errorf("%w: %q is Deprecated", ErrNotPromotable, v.Wrong)
	}
	return nil
}

// Correction returns the stored correction for wrong, matched
// case-insensitively.
func (e *Engine) Correction(wrong string) (correction.View, bool) {
	r, ok := e.store.Get(wrong)
	if !ok {
		return correction.View{}, false
	}
	return correction.View{Record: r, Confidence: correction.Confidence(r, e.now())}, true
}

// DemoteCorrection deprecates a correction.
func (e *Engine) DemoteCorrection(ctx context.Context, wrong string) bool {
	return e.mutate(ctx, e.store.Demote(wrong))
}

// ReportRevert records that the user undid the automatic application of
// wrong → right.
func (e *Engine) ReportRevert(ctx context.Context, wrong, right string) bool {
	return e.mutate(ctx, e.store.ReportRevert(wrong, right))
}

func (e *Engine) mutate(ctx context.Context, changed bool) bool {
	if changed {
		e.persist(ctx, storage.DocCorrections)
	}
	return changed
}

// Export serialises the correction store.
func (e *Engine) Export() ([]byte, error) {
	return e.store.Export()
}

// Import replaces the correction store with an exported document,
// migrating older schema versions, and returns how many records the
// document held. A malformed document leaves the store untouched. A
// successful import releases a held corrections document.
func (e *Engine) Import(ctx context.Context, data []byte) (int, error) {
	n, err := e.store.Import(data)
	if err != nil {
		return 0, fmt.Errorf("engine: %w", err)
	}
	e.log.InfoContext(ctx, "corrections imported", "records", n, "kept", e.store.Len())
	e.release(storage.DocCorrections)
	e.persist(ctx, storage.DocCorrections)
	return n, nil
}

// Reset clears all corrections and the profile, releasing them if held.
// History is kept; see [Engine.ClearHistory].
func (e *Engine) Reset(ctx context.Context) {
	e.store.Reset()
	e.profile.Reset()
	e.log.InfoContext(ctx, "corrections and profile reset")
	e.release(storage.DocCorrections, storage.DocProfile)
	e.persist(ctx, storage.DocCorrections, storage.DocProfile)
}

// Suggestion is a known term that resembles a queried word.
type Suggestion struct {
	Term     string  `json:"term"`
	Score    float64 `json:"score"`
	Phonetic bool    `json:"phonetic"`
}

// DefaultSuggestLimit is the number of suggestions returned when the caller
// passes a non-positive limit.
const DefaultSuggestLimit = 5

// Suggest ranks the right-hand sides of live corrections and the user's
// frequent words by similarity to word.
func (e *Engine) Suggest(word string, limit int) []Suggestion {
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	var vocab []string
	for _, r := range e.store.All() {
		if r.Status != correction.StatusDeprecated {
			vocab = append(vocab, r.Right)
		}
	}
	vocab = append(vocab, e.profile.Snapshot().FrequentWords...)

	ranked := e.matcher.Rank(word, vocab, limit)
	out := make([]Suggestion, len(ranked))
	for i, c := range ranked {
		out[i] = Suggestion{Term: c.Term, Score: c.Score, Phonetic: c.Phonetic}
	}
	return out
}
