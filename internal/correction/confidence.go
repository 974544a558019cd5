package correction

import (
	"math"
	"time"
)

const (
	// MinConfirmations is the observation count that confirms a pending record.
	MinConfirmations = 3

	// AutoApplyThreshold is the confidence at or above which a record is
	// applied automatically.
	AutoApplyThreshold = 0.5

	// DeprecationThreshold is the confidence below which a record is retired.
	DeprecationThreshold = 0.1

	// DeprecatedRetention is how long a deprecated record survives before
	// [Store.CleanupDeprecated] removes it.
	DeprecatedRetention = 90 * 24 * time.Hour

	// decayPerDay is the exponential decay rate of confidence per day since
	// the record was last observed.
	decayPerDay = 0.01
)

// Confidence scores r at time now:
//
//	max(0, count − 2·reverts) · e^(−0.01·days since last seen)
//
// A record that has never been seen (LastSeen == 0) does not decay.
func Confidence(r Record, now time.Time) float64 {
	base := float64(r.Count) - 2*float64(r.RevertCount)
	if base <= 0 {
		return 0
	}
	var days float64
	if r.LastSeen > 0 {
		days = float64(now.UnixMilli()-r.LastSeen) / float64((24 * time.Hour).Milliseconds())
		if days < 0 {
			days = 0
		}
	}
	return base * math.Exp(-decayPerDay*days)
}

// nextStatus applies one round of the status rules to r.
func nextStatus(r Record, conf float64) Status {
	switch r.Status {
	case StatusPending:
		if r.Count >= MinConfirmations || r.Source == SourceManual {
			return StatusConfirmed
		}
	case StatusConfirmed:
		if conf >= AutoApplyThreshold {
			return StatusActive
		}
		if conf < DeprecationThreshold && r.Count > 0 {
			return StatusDeprecated
		}
	case StatusActive:
		if conf < DeprecationThreshold {
			return StatusDeprecated
		}
		if conf < AutoApplyThreshold {
			return StatusConfirmed
		}
	}
	return r.Status
}
