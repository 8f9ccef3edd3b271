package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrInvalidWindow = errors.New("availability window end must be after start")
	ErrWindowTooWide = errors.New("availability window must fit within one day")
)

// WeeklyAvailability is a user's declared working window for one weekday.
// At most one record exists per (user, weekday); no record means the user
// is fully unavailable that day, never the reverse.
type WeeklyAvailability struct {
	sharedDomain.BaseEntity
	userID      sharedDomain.SubjectID
	weekday     time.Weekday
	windowStart time.Duration // offset from local midnight
	windowEnd   time.Duration
	available   bool
}

// NewWeeklyAvailability creates an availability record for one weekday.
func NewWeeklyAvailability(
	userID sharedDomain.SubjectID,
	weekday time.Weekday,
	windowStart, windowEnd time.Duration,
	available bool,
) (*WeeklyAvailability, error) {
	if windowEnd <= windowStart {
		return nil, ErrInvalidWindow
	}
	if windowStart < 0 || windowEnd > 24*time.Hour {
		return nil, ErrWindowTooWide
	}

	return &WeeklyAvailability{
		BaseEntity:  sharedDomain.NewBaseEntity(),
		userID:      userID,
		weekday:     weekday,
		windowStart: windowStart,
		windowEnd:   windowEnd,
		available:   available,
	}, nil
}

// Getters
func (a *WeeklyAvailability) UserID() sharedDomain.SubjectID { return a.userID }
func (a *WeeklyAvailability) Weekday() time.Weekday          { return a.weekday }
func (a *WeeklyAvailability) WindowStart() time.Duration     { return a.windowStart }
func (a *WeeklyAvailability) WindowEnd() time.Duration       { return a.windowEnd }
func (a *WeeklyAvailability) IsAvailable() bool              { return a.available }

// SetWindow updates the declared working window.
func (a *WeeklyAvailability) SetWindow(start, end time.Duration) error {
	if end <= start {
		return ErrInvalidWindow
	}
	if start < 0 || end > 24*time.Hour {
		return ErrWindowTooWide
	}
	a.windowStart = start
	a.windowEnd = end
	a.Touch()
	return nil
}

// SetAvailable toggles the availability flag.
func (a *WeeklyAvailability) SetAvailable(available bool) {
	if a.available != available {
		a.available = available
		a.Touch()
	}
}

// WindowOn maps the declared window onto a concrete calendar date.
// The second return is false when the record is marked unavailable.
func (a *WeeklyAvailability) WindowOn(date time.Time) (Interval, bool) {
	if !a.available {
		return Interval{}, false
	}
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return Interval{
		Start: midnight.Add(a.windowStart),
		End:   midnight.Add(a.windowEnd),
	}, true
}

// RehydrateWeeklyAvailability recreates a record from persisted state.
func RehydrateWeeklyAvailability(
	id uuid.UUID,
	userID sharedDomain.SubjectID,
	weekday time.Weekday,
	windowStart, windowEnd time.Duration,
	available bool,
	createdAt, updatedAt time.Time,
) *WeeklyAvailability {
	return &WeeklyAvailability{
		BaseEntity:  sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		userID:      userID,
		weekday:     weekday,
		windowStart: windowStart,
		windowEnd:   windowEnd,
		available:   available,
	}
}
