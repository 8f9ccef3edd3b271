package domain

import (
	"errors"
	"strings"
	"time"

	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEventEmptyTitle  = errors.New("event title cannot be empty")
	ErrEventNoAttendees = errors.New("event requires at least one attendee")
	ErrEventCancelled   = errors.New("event is already cancelled")
	ErrInvalidStatus    = errors.New("invalid event status")
)

// EventStatus is the lifecycle state of a calendar event.
type EventStatus string

const (
	StatusConfirmed EventStatus = "confirmed"
	StatusTentative EventStatus = "tentative"
	StatusCancelled EventStatus = "cancelled"
)

// IsValid checks if the status is supported.
func (s EventStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusTentative, StatusCancelled:
		return true
	default:
		return false
	}
}

// CalendarEvent is an occupied stretch of time on one or more subjects'
// calendars. The interval is immutable once created; a reschedule at this
// layer is a cancel plus a new event.
type CalendarEvent struct {
	sharedDomain.BaseAggregateRoot
	title     string
	organizer sharedDomain.SubjectID
	attendees []sharedDomain.SubjectID
	roomID    *sharedDomain.SubjectID
	interval  Interval
	status    EventStatus
	seriesID  *uuid.UUID
}

// NewCalendarEvent creates a calendar event with the given participants.
func NewCalendarEvent(
	title string,
	organizer sharedDomain.SubjectID,
	attendees []sharedDomain.SubjectID,
	roomID *sharedDomain.SubjectID,
	interval Interval,
	status EventStatus,
) (*CalendarEvent, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEventEmptyTitle
	}
	if len(attendees) == 0 {
		return nil, ErrEventNoAttendees
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if _, err := NewInterval(interval.Start, interval.End); err != nil {
		return nil, err
	}

	return &CalendarEvent{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		title:             title,
		organizer:         organizer,
		attendees:         attendees,
		roomID:            roomID,
		interval:          interval,
		status:            status,
	}, nil
}

// Getters
func (e *CalendarEvent) Title() string                       { return e.title }
func (e *CalendarEvent) Organizer() sharedDomain.SubjectID   { return e.organizer }
func (e *CalendarEvent) Attendees() []sharedDomain.SubjectID { return e.attendees }
func (e *CalendarEvent) RoomID() *sharedDomain.SubjectID     { return e.roomID }
func (e *CalendarEvent) Interval() Interval                  { return e.interval }
func (e *CalendarEvent) Status() EventStatus                 { return e.status }
func (e *CalendarEvent) SeriesID() *uuid.UUID                { return e.seriesID }

// OccupiesTime reports whether the event blocks its interval for conflict
// purposes. Confirmed and tentative events occupy time; cancelled never does.
func (e *CalendarEvent) OccupiesTime() bool {
	return e.status == StatusConfirmed || e.status == StatusTentative
}

// Involves reports whether the subject participates in this event, either
// as an attendee, the organizer, or the booked room.
func (e *CalendarEvent) Involves(subject sharedDomain.SubjectID) bool {
	if e.organizer == subject {
		return true
	}
	for _, a := range e.attendees {
		if a == subject {
			return true
		}
	}
	return e.roomID != nil && *e.roomID == subject
}

// AssignSeries ties the event to a recurring series.
func (e *CalendarEvent) AssignSeries(seriesID uuid.UUID) {
	e.seriesID = &seriesID
}

// Confirm promotes a tentative event to confirmed.
func (e *CalendarEvent) Confirm() error {
	if e.status == StatusCancelled {
		return ErrEventCancelled
	}
	if e.status != StatusConfirmed {
		e.status = StatusConfirmed
		e.Touch()
	}
	return nil
}

// Cancel marks the event cancelled so it stops occupying time.
func (e *CalendarEvent) Cancel() error {
	if e.status == StatusCancelled {
		return ErrEventCancelled
	}
	e.status = StatusCancelled
	e.Touch()
	e.AddDomainEvent(NewEventCancelled(e))
	return nil
}

// RehydrateCalendarEvent recreates an event from persisted state.
func RehydrateCalendarEvent(
	id uuid.UUID,
	title string,
	organizer sharedDomain.SubjectID,
	attendees []sharedDomain.SubjectID,
	roomID *sharedDomain.SubjectID,
	interval Interval,
	status EventStatus,
	seriesID *uuid.UUID,
	createdAt, updatedAt time.Time,
) *CalendarEvent {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)

	return &CalendarEvent{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(baseEntity),
		title:             title,
		organizer:         organizer,
		attendees:         attendees,
		roomID:            roomID,
		interval:          interval,
		status:            status,
		seriesID:          seriesID,
	}
}
