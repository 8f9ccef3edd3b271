package services

import (
	"context"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
)

// AvailabilityResolver expands a subject's declarative weekly availability
// into a concrete working window for one calendar day.
type AvailabilityResolver struct {
	directory    domain.SubjectDirectory
	availability domain.AvailabilityRepository
	policy       Policy
}

// NewAvailabilityResolver creates an availability resolver.
func NewAvailabilityResolver(
	directory domain.SubjectDirectory,
	availability domain.AvailabilityRepository,
	policy Policy,
) *AvailabilityResolver {
	return &AvailabilityResolver{
		directory:    directory,
		availability: availability,
		policy:       policy,
	}
}

// Resolve returns the subject's base free interval on the given date.
// The boolean is false when the subject has declared no availability for
// that weekday; callers must treat that as fully unavailable, never as
// "always free". Unknown subjects fail with a not-found error.
func (r *AvailabilityResolver) Resolve(ctx context.Context, subjectID sharedDomain.SubjectID, date time.Time) (domain.Interval, bool, error) {
	subject, err := r.directory.Lookup(ctx, subjectID)
	if err != nil {
		return domain.Interval{}, false, err
	}

	// Rooms have no weekly records; their window comes from policy.
	if subject.Kind == domain.SubjectKindRoom {
		midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		return domain.Interval{
			Start: midnight.Add(r.policy.RoomDayStart),
			End:   midnight.Add(r.policy.RoomDayEnd),
		}, true, nil
	}

	record, err := r.availability.FindByUserAndWeekday(ctx, subjectID, date.Weekday())
	if err != nil {
		return domain.Interval{}, false, err
	}
	if record == nil {
		return domain.Interval{}, false, nil
	}

	window, ok := record.WindowOn(date)
	if !ok {
		return domain.Interval{}, false, nil
	}
	return window, true, nil
}
