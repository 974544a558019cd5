package correction

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// Option configures a [Store].
type Option func(*Store)

// WithClock replaces the wall clock. Tests use it to simulate elapsed days.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for lifecycle events. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Store holds all correction records, keyed case-insensitively by the
// mistaken token. Records keep insertion order.
//
// All methods are safe for concurrent use. Readers (All, Views, ActiveMap)
// share the lock; every mutation takes it exclusively.
type Store struct {
	mu      sync.RWMutex
	records []Record
	now     func() time.Time
	log     *slog.Logger
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now: time.Now,
		log: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now returns the store's notion of the current time.
func (s *Store) Now() time.Time { return s.now() }

// indexOf returns the position of the record for the lowercase key, or -1.
// The caller must hold s.mu.
func (s *Store) indexOf(key string) int {
	return slices.IndexFunc(s.records, func(r Record) bool {
		return strings.ToLower(r.Wrong) == key
	})
}

// isSelfCorrection reports whether the pair would map a word onto itself.
func isSelfCorrection(wrong, right string) bool {
	return strings.ToLower(wrong) == strings.ToLower(right)
}

// Add records one observation of wrong being corrected to right. An
// existing record takes the new right-hand side, gains one count and is
// confirmed once it reaches [MinConfirmations]. A new record starts
// Pending with a count of one.
//
// Empty keys and self-corrections are rejected; Add then returns false.
func (s *Store) Add(wrong, right string) bool {
	return s.add(wrong, right, SourceDiff, 1, true)
}

// AddStem records a stem-level correction inferred from an inflected pair.
// New records start at count zero so that they need one more confirmation
// than direct corrections. Existing records keep their right-hand side.
func (s *Store) AddStem(wrong, right string) bool {
	return s.add(wrong, right, SourceStemInferred, 0, false)
}

func (s *Store) add(wrong, right string, src Source, initial uint32, replaceRight bool) bool {
	if wrong == "" || right == "" || isSelfCorrection(wrong, right) {
		return false
	}
	key := strings.ToLower(wrong)
	now := s.now().UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(key); i >= 0 {
		r := &s.records[i]
		if replaceRight {
			r.Right = right
		}
		r.Count++
		r.LastSeen = now
		if replaceRight && r.Count >= MinConfirmations && r.Status == StatusPending {
			r.Status = StatusConfirmed
		}
		return true
	}

	s.records = append(s.records, Record{
		Wrong:     key,
		Right:     right,
		Count:     initial,
		FirstSeen: now,
		LastSeen:  now,
		Status:    StatusPending,
		Source:    src,
	})
	return true
}

// Remove deletes the record for wrong and reports whether one existed.
func (s *Store) Remove(wrong string) bool {
	key := strings.ToLower(wrong)

	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.records)
	s.records = slices.DeleteFunc(s.records, func(r Record) bool {
		return strings.ToLower(r.Wrong) == key
	})
	return len(s.records) < before
}

// ReportRevert counts a user undoing the application of wrong → right.
// Both sides must match the stored record.
func (s *Store) ReportRevert(wrong, right string) bool {
	kw, kr := strings.ToLower(wrong), strings.ToLower(right)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		r := &s.records[i]
		if strings.ToLower(r.Wrong) == kw && strings.ToLower(r.Right) == kr {
			r.RevertCount++
			s.log.Info("correction reverted", "wrong", r.Wrong, "right", r.Right, "revert_count", r.RevertCount)
			return true
		}
	}
	return false
}

// Promote forces a Pending or Confirmed record to Active and marks it as
// manual. Active and Deprecated records are left alone.
func (s *Store) Promote(wrong string) bool {
	key := strings.ToLower(wrong)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(key)
	if i < 0 {
		return false
	}
	r := &s.records[i]
	if r.Status != StatusPending && r.Status != StatusConfirmed {
		return false
	}
	r.Status = StatusActive
	r.Source = SourceManual
	s.log.Info("correction promoted", "wrong", r.Wrong)
	return true
}

// Demote forces a record to Deprecated.
func (s *Store) Demote(wrong string) bool {
	key := strings.ToLower(wrong)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(key)
	if i < 0 {
		return false
	}
	s.records[i].Status = StatusDeprecated
	s.log.Info("correction demoted", "wrong", s.records[i].Wrong)
	return true
}

// Get returns the record for wrong.
func (s *Store) Get(wrong string) (Record, bool) {
	key := strings.ToLower(wrong)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(key); i >= 0 {
		return s.records[i], true
	}
	return Record{}, false
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// All returns a copy of every record in insertion order.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Views returns every record with its current confidence.
func (s *Store) Views() []View {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]View, len(s.records))
	for i, r := range s.records {
		out[i] = View{Record: r, Confidence: Confidence(r, now)}
	}
	return out
}

// ActiveMap returns the corrections eligible for automatic application:
// Active records whose confidence is at least [AutoApplyThreshold].
func (s *Store) ActiveMap() map[string]string {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	m := make(map[string]string)
	for _, r := range s.records {
		if isSelfCorrection(r.Wrong, r.Right) {
			continue
		}
		if r.Status == StatusActive && Confidence(r, now) >= AutoApplyThreshold {
			m[r.Wrong] = r.Right
		}
	}
	return m
}

// RecalculateAll advances every record by one round of the status rules
// and returns how many records changed status.
func (s *Store) RecalculateAll() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for i := range s.records {
		r := &s.records[i]
		next := nextStatus(*r, Confidence(*r, now))
		if next != r.Status {
			s.log.Debug("correction status changed", "wrong", r.Wrong, "from", r.Status, "to", next)
			r.Status = next
			changed++
		}
	}
	return changed
}

// CleanupDeprecated deletes deprecated records not seen for longer than
// [DeprecatedRetention] and returns how many were removed.
func (s *Store) CleanupDeprecated() int {
	cutoff := s.now().Add(-DeprecatedRetention).UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.records)
	s.records = slices.DeleteFunc(s.records, func(r Record) bool {
		if r.Status == StatusDeprecated && r.LastSeen < cutoff {
			s.log.Info("deprecated correction purged", "wrong", r.Wrong, "right", r.Right)
			return true
		}
		return false
	})
	return before - len(s.records)
}

// Reset removes every record.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}
