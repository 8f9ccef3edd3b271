package services

import (
	"context"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
)

// SlotGenerator turns a subject's availability window and existing events
// into a grid-aligned sequence of free/busy slots for one day.
//
// Every generator in a deployment shares the same grid anchor (local
// midnight) and granularity; the multi-party intersection combines slots
// by start instant and silently produces garbage if anchors diverge.
type SlotGenerator struct {
	resolver *AvailabilityResolver
	index    *ConflictIndex
	policy   Policy
}

// NewSlotGenerator creates a slot generator.
func NewSlotGenerator(resolver *AvailabilityResolver, index *ConflictIndex, policy Policy) *SlotGenerator {
	return &SlotGenerator{
		resolver: resolver,
		index:    index,
		policy:   policy,
	}
}

// GenerateDay computes the subject's slot sequence for one calendar day.
// A day with no declared availability yields an empty sequence: no slots
// to offer, as opposed to a day of busy ones. The result is deterministic
// for unchanged store contents.
func (g *SlotGenerator) GenerateDay(ctx context.Context, subject sharedDomain.SubjectID, date time.Time) ([]domain.TimeSlot, error) {
	window, ok, err := g.resolver.Resolve(ctx, subject, date)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.TimeSlot{}, nil
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	day := domain.Interval{Start: midnight, End: midnight.Add(24 * time.Hour)}

	events, err := g.index.Occupying(ctx, subject, day)
	if err != nil {
		return nil, err
	}

	step := g.policy.SlotGranularity
	slots := make([]domain.TimeSlot, 0, int(window.Duration()/step))

	for start := alignUp(window.Start, midnight, step); !start.Add(step).After(window.End); start = start.Add(step) {
		cell := domain.Interval{Start: start, End: start.Add(step)}

		slot := domain.TimeSlot{Interval: cell, Available: true}
		for _, event := range events {
			if event.Interval().Overlaps(cell) {
				id := event.ID()
				slot.Available = false
				slot.OccupyingEventID = &id
				break
			}
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// alignUp rounds t up to the next grid boundary relative to the anchor.
func alignUp(t, anchor time.Time, step time.Duration) time.Time {
	offset := t.Sub(anchor)
	if rem := offset % step; rem != 0 {
		offset += step - rem
	}
	return anchor.Add(offset)
}
