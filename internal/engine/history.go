package engine

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
)

// MaxHistory bounds the number of processed transcripts kept.
const MaxHistory = 500

// HistoryEntry is one processed transcript. Timestamp is Unix milliseconds.
type HistoryEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Language  string `json:"language"`
	Timestamp int64  `json:"timestamp"`
}

// History is a bounded list of entries, newest first. Safe for concurrent
// use.
type History struct {
	mu      sync.RWMutex
	entries []HistoryEntry
}

// Add inserts e at the front, dropping the oldest entries beyond
// [MaxHistory].
func (h *History) Add(e HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = slices.Insert(h.entries, 0, e)
	if len(h.entries) > MaxHistory {
		h.entries = h.entries[:MaxHistory]
	}
}

// Entries returns a copy of the history, newest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.entries)
}

// Texts returns the entry texts, newest first.
func (h *History) Texts() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.Text
	}
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

func (h *History) Clear() {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()
}

// Restore replaces the history, keeping at most [MaxHistory] entries.
func (h *History) Restore(entries []HistoryEntry) {
	if len(entries) > MaxHistory {
		entries = entries[:MaxHistory]
	}
	h.mu.Lock()
	h.entries = slices.Clone(entries)
	h.mu.Unlock()
}

func decodeHistory(data []byte) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("engine: decode history: %w", err)
	}
	return entries, nil
}
