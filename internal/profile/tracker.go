package profile

import (
	"sync"

	"github.com/MrWong99/dikte/internal/locale"
)

// Tracker owns a [Profile] and serialises access to it. It is safe for
// concurrent use.
type Tracker struct {
	mu sync.RWMutex
	p  Profile
}

// NewTracker returns a tracker holding an empty profile.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Snapshot returns a deep copy of the current profile.
func (t *Tracker) Snapshot() Profile {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.p.Clone()
}

// Restore replaces the profile.
func (t *Tracker) Restore(p Profile) {
	p = p.Clone()
	t.mu.Lock()
	t.p = p
	t.mu.Unlock()
}

// Reset clears the profile.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.p = Profile{}
	t.mu.Unlock()
}

// Update runs fn with exclusive access to the profile.
func (t *Tracker) Update(fn func(p *Profile)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.p)
}

// Observe records one finished transcript and returns the new
// transcription total.
func (t *Tracker) Observe(loc locale.Locale, text string) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.MergeNgrams(text)
	t.p.MergeFrequentWords(loc, text)
	return t.p.TotalTranscriptions
}

// CountCorrection increments the learned-edit total.
func (t *Tracker) CountCorrection() {
	t.mu.Lock()
	t.p.TotalCorrections++
	t.mu.Unlock()
}

// Classify re-detects the domain from texts, newest first, stores it and
// returns it with its scores.
func (t *Tracker) Classify(texts []string) (Domain, Scores) {
	d, scores := DetectDomain(texts)
	t.mu.Lock()
	t.p.Domain = d
	t.mu.Unlock()
	return d, scores
}

// Domain returns the stored domain.
func (t *Tracker) Domain() Domain {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.p.Domain
}
