package domain

import (
	"time"

	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
)

// Frequency is the repetition unit of a recurrence rule.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// IsValid checks if the frequency is supported.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	default:
		return false
	}
}

// RecurrenceRule describes how a template event repeats. It is consumed
// only at materialization time and is never itself a schedulable interval.
//
// Exactly one bound is meaningful: when both Count and Until are set,
// Count wins.
type RecurrenceRule struct {
	Frequency   Frequency
	Interval    int
	Count       int        // 0 means unset
	Until       *time.Time // nil means unset
	ByWeekdays  []time.Weekday
	ByMonthDays []int
}

// Validate rejects malformed rules before any expansion happens. A rule
// with neither Count nor Until would materialize unboundedly and is a
// caller error.
func (r RecurrenceRule) Validate() error {
	if !r.Frequency.IsValid() {
		return sharedDomain.InvalidRequestf("unsupported recurrence frequency %q", string(r.Frequency))
	}
	if r.Interval < 1 {
		return sharedDomain.InvalidRequestf("recurrence interval must be positive, got %d", r.Interval)
	}
	if r.Count < 0 {
		return sharedDomain.InvalidRequestf("recurrence count cannot be negative, got %d", r.Count)
	}
	if r.Count == 0 && r.Until == nil {
		return sharedDomain.InvalidRequestf("recurrence rule requires a count or an end date")
	}
	for _, d := range r.ByMonthDays {
		if d < 1 || d > 31 {
			return sharedDomain.InvalidRequestf("day of month %d out of range", d)
		}
	}
	return nil
}
