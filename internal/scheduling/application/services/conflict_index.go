package services

import (
	"context"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
)

// ConflictIndex answers "what occupies this subject's time in this range".
// Users and rooms are addressed uniformly; only confirmed and tentative
// events count, cancelled ones never do.
type ConflictIndex struct {
	events domain.EventRepository
}

// NewConflictIndex creates a conflict index over the event store.
func NewConflictIndex(events domain.EventRepository) *ConflictIndex {
	return &ConflictIndex{events: events}
}

// Occupying returns the events blocking the subject within the interval,
// ordered by start time. The repository already filters by participant
// and status; the index re-applies the overlap predicate so slot-boundary
// semantics cannot drift between backends.
func (ci *ConflictIndex) Occupying(ctx context.Context, subject sharedDomain.SubjectID, interval domain.Interval) ([]*domain.CalendarEvent, error) {
	candidates, err := ci.events.FindOccupying(ctx, subject, interval)
	if err != nil {
		return nil, err
	}

	occupying := make([]*domain.CalendarEvent, 0, len(candidates))
	for _, event := range candidates {
		if event.OccupiesTime() && event.Interval().Overlaps(interval) && event.Involves(subject) {
			occupying = append(occupying, event)
		}
	}
	return occupying, nil
}
