package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is one grid-aligned cell of a subject's day: exactly one
// granularity long, starting on a grid boundary anchored at local
// midnight. Computed on demand, never persisted.
type TimeSlot struct {
	Interval         Interval
	Available        bool
	OccupyingEventID *uuid.UUID
}

// Start returns the slot's start instant, the key slots are intersected on.
func (s TimeSlot) Start() time.Time {
	return s.Interval.Start
}

// SchedulingSuggestion is a ranked candidate meeting window.
type SchedulingSuggestion struct {
	Interval           Interval
	Score              int
	AvailableAttendees int
	TotalAttendees     int
}

// suggestion score tiers by lead time from now to window start.
const (
	scoreNearTerm  = 100 // 1-4 hours out
	scoreSameDay   = 80  // 4-24 hours out
	scoreThreeDays = 60  // 24-72 hours out
	scoreFarOut    = 40  // beyond 72 hours
)

// ScoreByLeadTime applies the four-tier heuristic rewarding near-term but
// reasonably advance-noticed windows.
func ScoreByLeadTime(now, windowStart time.Time) int {
	lead := windowStart.Sub(now)
	switch {
	case lead <= 4*time.Hour:
		return scoreNearTerm
	case lead <= 24*time.Hour:
		return scoreSameDay
	case lead <= 72*time.Hour:
		return scoreThreeDays
	default:
		return scoreFarOut
	}
}
