// Package feedback keeps an append-only journal of the edits users make to
// transcripts. Each call to the engine's LearnFromEdit appends one JSON line
// holding the original and edited text and the pairs that were learned from
// it, so a correction store can be audited or rebuilt from scratch.
package feedback

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/MrWong99/dikte/internal/learning"
)

// Journal receives edit records.
type Journal interface {
	Append(ctx context.Context, rec Record) error
}

// Record is a single journal entry.
type Record struct {
	Timestamp time.Time       `json:"timestamp"`
	Original  string          `json:"original"`
	Edited    string          `json:"edited"`
	Direct    []learning.Pair `json:"direct,omitempty"`
	Stem      []learning.Pair `json:"stem,omitempty"`
}

// Compile-time interface checks.
var (
	_ Journal = (*FileStore)(nil)
	_ Journal = Discard{}
)

// FileStore persists records as JSON lines in a local file.
// Safe for concurrent use.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore that writes to path. The file is created
// on first append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the journal file path.
func (s *FileStore) Path() string { return s.path }

// Append writes rec as one line. A zero Timestamp is set to the current UTC
// time.
func (s *FileStore) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("feedback: marshal: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("feedback: open file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("feedback: write: %w", err)
	}
	return nil
}

// ReadAll returns every record in the journal, oldest first. A missing file
// yields no records and no error. A malformed line aborts with an error
// naming its line number.
func (s *FileStore) ReadAll() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("feedback: open file: %w", err)
	}
	defer f.Close()

	var out []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("feedback: line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("feedback: read: %w", err)
	}
	return out, nil
}

// Discard is a [Journal] that drops every record.
type Discard struct{}

func (Discard) Append(context.Context, Record) error { return nil }
