package queries_test

import (
	"context"
	"testing"

	"github.com/atlasops/atlas/internal/scheduling/application/queries"
	"github.com/atlasops/atlas/internal/scheduling/application/services"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListRoomBookingsHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("lists occupying bookings on the room", func(t *testing.T) {
		room, err := domain.NewMeetingRoom("Aurora", 8, domain.BookingRules{})
		require.NoError(t, err)
		subject := room.SubjectID()

		requester := sharedDomain.NewSubjectID(uuid.New())
		booking, err := domain.NewCalendarEvent(
			"Booking: Aurora", requester, []sharedDomain.SubjectID{requester}, &subject,
			domain.Interval{Start: at(monday, 14, 0), End: at(monday, 15, 0)},
			domain.StatusConfirmed,
		)
		require.NoError(t, err)

		rooms := &mockRoomRepo{}
		rooms.On("FindByID", mock.Anything, subject).Return(room, nil)

		events := &mockEventRepo{}
		events.On("FindOccupying", mock.Anything, subject, mock.Anything).
			Return([]*domain.CalendarEvent{booking}, nil)

		handler := queries.NewListRoomBookingsHandler(rooms, services.NewConflictIndex(events))

		bookings, err := handler.Handle(ctx, queries.ListRoomBookingsQuery{
			RoomID:     room.ID(),
			RangeStart: monday,
			RangeEnd:   monday.AddDate(0, 0, 1),
		})
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, booking.ID(), bookings[0].ID())
	})

	t.Run("unknown room is not found", func(t *testing.T) {
		rooms := &mockRoomRepo{}
		rooms.On("FindByID", mock.Anything, mock.Anything).Return(nil, nil)

		handler := queries.NewListRoomBookingsHandler(rooms, services.NewConflictIndex(&mockEventRepo{}))

		_, err := handler.Handle(ctx, queries.ListRoomBookingsQuery{
			RoomID:     uuid.New(),
			RangeStart: monday,
			RangeEnd:   monday.AddDate(0, 0, 1),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
	})
}
