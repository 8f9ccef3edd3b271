package services

import (
	"sort"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
)

// WindowAggregator merges contiguous jointly-free slots into candidate
// meeting windows of at least the requested duration and ranks them.
type WindowAggregator struct {
	policy Policy
	now    func() time.Time
}

// NewWindowAggregator creates a window aggregator.
func NewWindowAggregator(policy Policy) *WindowAggregator {
	return &WindowAggregator{
		policy: policy,
		now:    time.Now,
	}
}

// WithClock overrides the aggregator's clock. Used in tests.
func (w *WindowAggregator) WithClock(now func() time.Time) *WindowAggregator {
	w.now = now
	return w
}

// Suggest emits ranked suggestions from a jointly-free slot sequence.
// Runs shorter than the requested duration produce nothing: a partial
// window is never silently rounded up.
func (w *WindowAggregator) Suggest(slots []domain.TimeSlot, duration time.Duration, attendeeCount int) []domain.SchedulingSuggestion {
	required := int((duration + w.policy.SlotGranularity - 1) / w.policy.SlotGranularity)
	if required < 1 || len(slots) == 0 {
		return []domain.SchedulingSuggestion{}
	}

	now := w.now()
	suggestions := make([]domain.SchedulingSuggestion, 0)

	for _, run := range contiguousRuns(slots) {
		if len(run) < required {
			continue
		}
		// One candidate per qualifying sub-window start, sliding by one
		// grid step.
		for offset := 0; offset+required <= len(run); offset++ {
			window := domain.Interval{
				Start: run[offset].Interval.Start,
				End:   run[offset+required-1].Interval.End,
			}
			suggestions = append(suggestions, domain.SchedulingSuggestion{
				Interval:           window,
				Score:              domain.ScoreByLeadTime(now, window.Start),
				AvailableAttendees: attendeeCount,
				TotalAttendees:     attendeeCount,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Interval.Start.Before(suggestions[j].Interval.Start)
	})

	if len(suggestions) > w.policy.MaxSuggestions {
		suggestions = suggestions[:w.policy.MaxSuggestions]
	}
	return suggestions
}

// contiguousRuns groups maximal runs of temporally adjacent slots:
// slot i+1 starts exactly where slot i ends.
func contiguousRuns(slots []domain.TimeSlot) [][]domain.TimeSlot {
	runs := make([][]domain.TimeSlot, 0)
	var current []domain.TimeSlot

	for _, slot := range slots {
		if len(current) > 0 && !current[len(current)-1].Interval.End.Equal(slot.Interval.Start) {
			runs = append(runs, current)
			current = nil
		}
		current = append(current, slot)
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}
	return runs
}
