package queries

import (
	"context"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/application/services"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
)

// FindAvailableSlotsQuery asks for ranked meeting windows that fit every
// attendee inside the search range.
type FindAvailableSlotsQuery struct {
	AttendeeIDs     []uuid.UUID
	DurationMinutes int
	RangeStart      time.Time
	RangeEnd        time.Time
}

// QueryName identifies the query type.
func (q FindAvailableSlotsQuery) QueryName() string { return "scheduling.find_available_slots" }

// FindAvailableSlotsHandler handles the FindAvailableSlotsQuery.
type FindAvailableSlotsHandler struct {
	intersector *services.MultiPartyIntersector
	aggregator  *services.WindowAggregator
}

// NewFindAvailableSlotsHandler creates a new FindAvailableSlotsHandler.
func NewFindAvailableSlotsHandler(
	intersector *services.MultiPartyIntersector,
	aggregator *services.WindowAggregator,
) *FindAvailableSlotsHandler {
	return &FindAvailableSlotsHandler{
		intersector: intersector,
		aggregator:  aggregator,
	}
}

// Handle executes the FindAvailableSlotsQuery: intersect the attendees'
// free slots across the range, then aggregate and rank the windows long
// enough for the requested duration.
func (h *FindAvailableSlotsHandler) Handle(ctx context.Context, query FindAvailableSlotsQuery) ([]domain.SchedulingSuggestion, error) {
	if query.DurationMinutes <= 0 {
		return nil, sharedDomain.InvalidRequestf("meeting duration must be positive, got %d minutes", query.DurationMinutes)
	}

	attendees := make([]sharedDomain.SubjectID, 0, len(query.AttendeeIDs))
	for _, id := range query.AttendeeIDs {
		attendees = append(attendees, sharedDomain.NewSubjectID(id))
	}

	joint, err := h.intersector.IntersectRange(ctx, attendees, query.RangeStart, query.RangeEnd)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(query.DurationMinutes) * time.Minute
	return h.aggregator.Suggest(joint, duration, len(attendees)), nil
}
