// Package correction implements the learned vocabulary-correction store.
//
// A [Record] maps a lowercase mistaken token to the token the user wanted.
// Each record carries lifecycle metadata (observation count, revert count,
// first/last seen timestamps) from which a decaying confidence score is
// derived. Status moves Pending → Confirmed → Active and may fall back from
// Active to Confirmed or drop to Deprecated; the transitions are a pure
// function of count, revert count and elapsed time, re-evaluated by
// [Store.RecalculateAll]. Only Active records with sufficient confidence
// are handed to the normalisation pipeline via [Store.ActiveMap].
//
// The [Store] is an explicitly owned, concurrency-safe value. Persistence is
// the caller's job: [Store.Snapshot] produces a deep copy that can be
// serialised without holding any lock.
package correction

import "fmt"

// Status is the lifecycle stage of a correction.
type Status int

const (
	// StatusPending records have been observed but not often enough to trust.
	StatusPending Status = iota
	// StatusConfirmed records reached the confirmation count.
	StatusConfirmed
	// StatusActive records are applied automatically.
	StatusActive
	// StatusDeprecated records are no longer applied and are eventually purged.
	StatusDeprecated
)

var statusNames = [...]string{"Pending", "Confirmed", "Active", "Deprecated"}

// String returns the external name of the status.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus resolves an external status name. It is case-sensitive.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return StatusPending, false
}

// MarshalText implements [encoding.TextMarshaler].
func (s Status) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(statusNames) {
		return nil, fmt.Errorf("correction: invalid status %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]. Unknown names decode
// as Pending so that documents written by newer versions still load.
func (s *Status) UnmarshalText(b []byte) error {
	st, _ := ParseStatus(string(b))
	*s = st
	return nil
}

// Source records how a correction was first learned.
type Source int

const (
	// SourceUnknown is only seen on documents that predate the field; the
	// schema migration rewrites it to SourceDiff.
	SourceUnknown Source = iota
	// SourceDiff: learned from a user edit or from the pipeline's own changes.
	SourceDiff
	// SourceStemInferred: generalised from an inflected pair to its stems.
	SourceStemInferred
	// SourceManual: added or promoted explicitly by the user.
	SourceManual
)

var sourceNames = [...]string{"", "diff", "stem_inferred", "manual"}

func (s Source) String() string {
	if s < 0 || int(s) >= len(sourceNames) {
		return fmt.Sprintf("Source(%d)", int(s))
	}
	return sourceNames[s]
}

// MarshalText implements [encoding.TextMarshaler].
func (s Source) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(sourceNames) {
		return nil, fmt.Errorf("correction: invalid source %d", int(s))
	}
	return []byte(sourceNames[s]), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Source) UnmarshalText(b []byte) error {
	*s = SourceUnknown
	for i, n := range sourceNames {
		if n == string(b) {
			*s = Source(i)
			break
		}
	}
	return nil
}

// Record is one learned correction. Timestamps are Unix milliseconds.
type Record struct {
	Wrong       string `json:"wrong"`
	Right       string `json:"right"`
	Count       uint32 `json:"count"`
	FirstSeen   int64  `json:"first_seen"`
	LastSeen    int64  `json:"last_seen"`
	RevertCount uint32 `json:"revert_count"`
	Status      Status `json:"status"`
	Source      Source `json:"source"`
}

// View is a record paired with its confidence at the time of the call.
type View struct {
	Record
	Confidence float64 `json:"confidence"`
}
