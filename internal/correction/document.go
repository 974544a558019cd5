package correction

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// SchemaVersion is the version written by this package. Documents with a
// lower version are upgraded by [Migrate] when loaded or imported.
const SchemaVersion = 2

// Document is the persisted and exported form of a [Store].
type Document struct {
	Corrections []Record `json:"corrections"`
	Version     uint32   `json:"version"`
}

// Snapshot returns a deep copy of the store as a current-version document.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Document{
		Corrections: slices.Clone(s.records),
		Version:     SchemaVersion,
	}
}

// Restore replaces the store's contents with doc after migrating it.
// Records that violate the store invariants (empty key, self-correction,
// duplicate key) are dropped.
func (s *Store) Restore(doc Document) {
	Migrate(&doc)
	records := sanitize(doc.Corrections)

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
}

// Export serialises the store as indented JSON.
func (s *Store) Export() ([]byte, error) {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("correction: export: %w", err)
	}
	return data, nil
}

// Import replaces the store's contents with an exported document and
// returns the number of records it contained. On a parse error the store
// is left untouched.
func (s *Store) Import(data []byte) (int, error) {
	doc, err := Decode(data)
	if err != nil {
		return 0, fmt.Errorf("correction: import: %w", err)
	}
	n := len(doc.Corrections)
	s.Restore(doc)
	return n, nil
}

// Decode parses a serialised document without migrating it.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Migrate upgrades doc in place to [SchemaVersion]. Version 1 documents
// lacked first_seen, source and a meaningful status:
//
//   - first_seen is backfilled from last_seen,
//   - source defaults to "diff",
//   - Pending records are promoted by count (≥ 3 Active, ≥ 1 Confirmed).
//
// It reports whether anything changed.
func Migrate(doc *Document) bool {
	if doc.Version >= SchemaVersion {
		return false
	}
	for i := range doc.Corrections {
		r := &doc.Corrections[i]
		if r.FirstSeen == 0 {
			r.FirstSeen = r.LastSeen
		}
		if r.Source == SourceUnknown {
			r.Source = SourceDiff
		}
		if r.Status == StatusPending {
			switch {
			case r.Count >= MinConfirmations:
				r.Status = StatusActive
			case r.Count >= 1:
				r.Status = StatusConfirmed
			}
		}
	}
	doc.Version = SchemaVersion
	return true
}

// sanitize lowercases keys and drops records that break the invariants.
// The first record for a key wins.
func sanitize(in []Record) []Record {
	out := make([]Record, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, r := range in {
		r.Wrong = strings.ToLower(strings.TrimSpace(r.Wrong))
		if r.Wrong == "" || r.Right == "" || isSelfCorrection(r.Wrong, r.Right) {
			continue
		}
		if _, dup := seen[r.Wrong]; dup {
			continue
		}
		seen[r.Wrong] = struct{}{}
		out = append(out, r)
	}
	return out
}
