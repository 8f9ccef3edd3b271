package queries

import (
	"context"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/application/services"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
)

// ListRoomBookingsQuery lists the occupying bookings on a room within a
// time range.
type ListRoomBookingsQuery struct {
	RoomID     uuid.UUID
	RangeStart time.Time
	RangeEnd   time.Time
}

// QueryName identifies the query type.
func (q ListRoomBookingsQuery) QueryName() string { return "scheduling.list_room_bookings" }

// ListRoomBookingsHandler handles the ListRoomBookingsQuery.
type ListRoomBookingsHandler struct {
	rooms domain.RoomRepository
	index *services.ConflictIndex
}

// NewListRoomBookingsHandler creates a new ListRoomBookingsHandler.
func NewListRoomBookingsHandler(rooms domain.RoomRepository, index *services.ConflictIndex) *ListRoomBookingsHandler {
	return &ListRoomBookingsHandler{
		rooms: rooms,
		index: index,
	}
}

// Handle executes the ListRoomBookingsQuery. Cancelled bookings are never
// included; they no longer occupy the room.
func (h *ListRoomBookingsHandler) Handle(ctx context.Context, query ListRoomBookingsQuery) ([]*domain.CalendarEvent, error) {
	interval, err := domain.NewInterval(query.RangeStart, query.RangeEnd)
	if err != nil {
		return nil, err
	}

	roomID := sharedDomain.NewSubjectID(query.RoomID)
	room, err := h.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, sharedDomain.NotFoundf("room %s", roomID)
	}

	return h.index.Occupying(ctx, room.SubjectID(), interval)
}
