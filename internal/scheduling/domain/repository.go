package domain

import (
	"context"
	"time"

	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
)

// EventRepository defines persistence for calendar events.
type EventRepository interface {
	Save(ctx context.Context, event *CalendarEvent) error

	// SaveAll persists a batch of events atomically.
	SaveAll(ctx context.Context, events []*CalendarEvent) error

	FindByID(ctx context.Context, id uuid.UUID) (*CalendarEvent, error)

	// FindOccupying returns the confirmed and tentative events involving
	// the subject whose intervals overlap the given range. Cancelled
	// events are never returned.
	FindOccupying(ctx context.Context, subject sharedDomain.SubjectID, interval Interval) ([]*CalendarEvent, error)

	FindBySeries(ctx context.Context, seriesID uuid.UUID) ([]*CalendarEvent, error)

	// SaveRoomBooking persists a room booking, serializing the overlap
	// re-check and the insert against concurrent bookings on the same
	// room. Returns a conflict error when another occupying event on the
	// room overlaps the booking's interval.
	SaveRoomBooking(ctx context.Context, booking *CalendarEvent, room sharedDomain.SubjectID) error
}

// AvailabilityRepository defines persistence for weekly availability records.
type AvailabilityRepository interface {
	// FindByUserAndWeekday returns (nil, nil) when no record exists.
	FindByUserAndWeekday(ctx context.Context, user sharedDomain.SubjectID, weekday time.Weekday) (*WeeklyAvailability, error)

	FindByUser(ctx context.Context, user sharedDomain.SubjectID) ([]*WeeklyAvailability, error)

	// Save upserts the single record for the entity's (user, weekday).
	Save(ctx context.Context, record *WeeklyAvailability) error
}

// RoomRepository defines persistence for meeting rooms.
type RoomRepository interface {
	FindByID(ctx context.Context, id sharedDomain.SubjectID) (*MeetingRoom, error)
	List(ctx context.Context) ([]*MeetingRoom, error)
	Save(ctx context.Context, room *MeetingRoom) error
}

// SubjectKind distinguishes the two kinds of calendar subjects.
type SubjectKind string

const (
	SubjectKindUser SubjectKind = "user"
	SubjectKindRoom SubjectKind = "room"
)

// Subject is the identity system's view of a calendar subject.
type Subject struct {
	ID          sharedDomain.SubjectID
	Kind        SubjectKind
	DisplayName string
	// TimeZone is the IANA zone all of this subject's stored times are
	// normalized to.
	TimeZone string
}

// SubjectDirectory resolves subject ids against the surrounding identity
// and membership system. Lookup returns a not-found error for unknown ids.
type SubjectDirectory interface {
	Lookup(ctx context.Context, id sharedDomain.SubjectID) (*Subject, error)
}
