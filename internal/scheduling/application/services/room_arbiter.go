package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
)

// RoomBookingArbiter arbitrates exclusive access to bookable rooms.
//
// The check-then-reserve sequence is serialized twice: a per-room mutex
// keeps concurrent requests in this process from interleaving, and
// EventRepository.SaveRoomBooking re-checks the overlap inside the store
// transaction so concurrent writers from other processes lose with a
// conflict instead of double-booking.
type RoomBookingArbiter struct {
	rooms  domain.RoomRepository
	events domain.EventRepository
	index  *ConflictIndex
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewRoomBookingArbiter creates a room booking arbiter.
func NewRoomBookingArbiter(
	rooms domain.RoomRepository,
	events domain.EventRepository,
	index *ConflictIndex,
	logger *slog.Logger,
) *RoomBookingArbiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomBookingArbiter{
		rooms:  rooms,
		events: events,
		index:  index,
		logger: logger,
		now:    time.Now,
		locks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

// WithClock overrides the arbiter's clock. Used in tests.
func (a *RoomBookingArbiter) WithClock(now func() time.Time) *RoomBookingArbiter {
	a.now = now
	return a
}

// Book reserves the room for the interval on behalf of the requester.
// Any overlapping confirmed or tentative booking on the room rejects the
// request with a conflict; touching boundaries do not.
func (a *RoomBookingArbiter) Book(
	ctx context.Context,
	roomID sharedDomain.SubjectID,
	interval domain.Interval,
	requestedBy sharedDomain.SubjectID,
) (*domain.CalendarEvent, error) {
	if _, err := domain.NewInterval(interval.Start, interval.End); err != nil {
		return nil, err
	}

	room, err := a.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, sharedDomain.NotFoundf("room %s", roomID)
	}

	if err := room.ValidateBooking(interval, a.now()); err != nil {
		return nil, err
	}

	lock := a.roomLock(roomID.UUID())
	lock.Lock()
	defer lock.Unlock()

	occupying, err := a.index.Occupying(ctx, room.SubjectID(), interval)
	if err != nil {
		return nil, err
	}
	if len(occupying) > 0 {
		a.logger.Debug("room booking rejected",
			"room_id", roomID.String(),
			"interval", interval.String(),
			"conflicts", len(occupying),
		)
		return nil, sharedDomain.Conflictf("room %s is already booked during %s", room.Name(), interval)
	}

	subject := room.SubjectID()
	booking, err := domain.NewCalendarEvent(
		fmt.Sprintf("Booking: %s", room.Name()),
		requestedBy,
		[]sharedDomain.SubjectID{requestedBy},
		&subject,
		interval,
		room.BookingStatus(),
	)
	if err != nil {
		return nil, err
	}

	if err := a.events.SaveRoomBooking(ctx, booking, subject); err != nil {
		return nil, err
	}

	booking.AddDomainEvent(domain.NewRoomBooked(booking, roomID, requestedBy))
	a.logger.Info("room booked",
		"room_id", roomID.String(),
		"booking_id", booking.ID().String(),
		"interval", interval.String(),
	)
	return booking, nil
}

func (a *RoomBookingArbiter) roomLock(roomID uuid.UUID) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	lock, ok := a.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[roomID] = lock
	}
	return lock
}
