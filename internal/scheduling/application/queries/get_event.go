package queries

import (
	"context"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
)

// GetEventQuery fetches one calendar event by id.
type GetEventQuery struct {
	EventID uuid.UUID
}

// QueryName identifies the query type.
func (q GetEventQuery) QueryName() string { return "scheduling.get_event" }

// GetEventHandler handles the GetEventQuery.
type GetEventHandler struct {
	events domain.EventRepository
}

// NewGetEventHandler creates a new GetEventHandler.
func NewGetEventHandler(events domain.EventRepository) *GetEventHandler {
	return &GetEventHandler{events: events}
}

// Handle executes the GetEventQuery.
func (h *GetEventHandler) Handle(ctx context.Context, query GetEventQuery) (*domain.CalendarEvent, error) {
	event, err := h.events.FindByID(ctx, query.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, sharedDomain.NotFoundf("event %s", query.EventID)
	}
	return event, nil
}
