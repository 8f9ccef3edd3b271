package domain

import (
	"errors"
	"strings"
	"time"

	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrRoomEmptyName       = errors.New("room name cannot be empty")
	ErrRoomInvalidCapacity = errors.New("room capacity must be positive")
)

// BookingRules constrain how far ahead and how long a room can be booked.
// Zero values disable the corresponding rule.
type BookingRules struct {
	MaxDuration      time.Duration
	MinAdvance       time.Duration
	MaxAdvance       time.Duration
	RequiresApproval bool
}

// MeetingRoom is a bookable physical resource. Bookings against it are
// calendar events carrying the room's subject id, so the conflict index
// treats rooms exactly like users.
type MeetingRoom struct {
	sharedDomain.BaseEntity
	name     string
	capacity int
	rules    BookingRules
}

// NewMeetingRoom creates a meeting room.
func NewMeetingRoom(name string, capacity int, rules BookingRules) (*MeetingRoom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRoomEmptyName
	}
	if capacity <= 0 {
		return nil, ErrRoomInvalidCapacity
	}

	return &MeetingRoom{
		BaseEntity: sharedDomain.NewBaseEntity(),
		name:       name,
		capacity:   capacity,
		rules:      rules,
	}, nil
}

// Getters
func (r *MeetingRoom) Name() string        { return r.name }
func (r *MeetingRoom) Capacity() int       { return r.capacity }
func (r *MeetingRoom) Rules() BookingRules { return r.rules }

// SubjectID returns the room's identity as a conflict-index subject.
func (r *MeetingRoom) SubjectID() sharedDomain.SubjectID {
	return sharedDomain.NewSubjectID(r.ID())
}

// ValidateBooking enforces the room's booking rules against a requested
// interval, relative to now. The conflict check happens separately.
func (r *MeetingRoom) ValidateBooking(interval Interval, now time.Time) error {
	if r.rules.MaxDuration > 0 && interval.Duration() > r.rules.MaxDuration {
		return sharedDomain.InvalidRequestf("booking of %s exceeds room limit of %s",
			interval.Duration(), r.rules.MaxDuration)
	}
	if r.rules.MinAdvance > 0 && interval.Start.Sub(now) < r.rules.MinAdvance {
		return sharedDomain.InvalidRequestf("room requires at least %s advance notice", r.rules.MinAdvance)
	}
	if r.rules.MaxAdvance > 0 && interval.Start.Sub(now) > r.rules.MaxAdvance {
		return sharedDomain.InvalidRequestf("room cannot be booked more than %s ahead", r.rules.MaxAdvance)
	}
	return nil
}

// BookingStatus returns the status a fresh booking on this room receives:
// tentative when the room requires approval, confirmed otherwise.
func (r *MeetingRoom) BookingStatus() EventStatus {
	if r.rules.RequiresApproval {
		return StatusTentative
	}
	return StatusConfirmed
}

// RehydrateMeetingRoom recreates a room from persisted state.
func RehydrateMeetingRoom(
	id uuid.UUID,
	name string,
	capacity int,
	rules BookingRules,
	createdAt, updatedAt time.Time,
) *MeetingRoom {
	return &MeetingRoom{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		name:       name,
		capacity:   capacity,
		rules:      rules,
	}
}
