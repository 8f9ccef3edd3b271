package domain

import (
	"time"

	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	EventAggregateType        = "CalendarEvent"
	AvailabilityAggregateType = "WeeklyAvailability"

	RoutingKeyRoomBooked         = "calendar.room.booked"
	RoutingKeyMeetingScheduled   = "calendar.meeting.scheduled"
	RoutingKeyEventCancelled     = "calendar.event.cancelled"
	RoutingKeyAvailabilitySet    = "calendar.availability.set"
	RoutingKeySeriesMaterialized = "calendar.series.materialized"
)

// RoomBooked is emitted when a room reservation commits.
type RoomBooked struct {
	sharedDomain.BaseEvent
	RoomID      uuid.UUID `json:"room_id"`
	RequestedBy uuid.UUID `json:"requested_by"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
}

// NewRoomBooked creates a RoomBooked event.
func NewRoomBooked(booking *CalendarEvent, roomID, requestedBy sharedDomain.SubjectID) RoomBooked {
	return RoomBooked{
		BaseEvent:   sharedDomain.NewBaseEvent(booking.ID(), EventAggregateType, RoutingKeyRoomBooked),
		RoomID:      roomID.UUID(),
		RequestedBy: requestedBy.UUID(),
		StartTime:   booking.Interval().Start,
		EndTime:     booking.Interval().End,
		Status:      string(booking.Status()),
	}
}

// MeetingScheduled is emitted when a meeting event is created.
type MeetingScheduled struct {
	sharedDomain.BaseEvent
	Title         string    `json:"title"`
	AttendeeCount int       `json:"attendee_count"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

// NewMeetingScheduled creates a MeetingScheduled event.
func NewMeetingScheduled(event *CalendarEvent) MeetingScheduled {
	return MeetingScheduled{
		BaseEvent:     sharedDomain.NewBaseEvent(event.ID(), EventAggregateType, RoutingKeyMeetingScheduled),
		Title:         event.Title(),
		AttendeeCount: len(event.Attendees()),
		StartTime:     event.Interval().Start,
		EndTime:       event.Interval().End,
	}
}

// EventCancelled is emitted when an event stops occupying time.
type EventCancelled struct {
	sharedDomain.BaseEvent
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// NewEventCancelled creates an EventCancelled event.
func NewEventCancelled(event *CalendarEvent) EventCancelled {
	return EventCancelled{
		BaseEvent: sharedDomain.NewBaseEvent(event.ID(), EventAggregateType, RoutingKeyEventCancelled),
		StartTime: event.Interval().Start,
		EndTime:   event.Interval().End,
	}
}

// AvailabilitySet is emitted when a user changes a weekly availability record.
type AvailabilitySet struct {
	sharedDomain.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	Weekday   int       `json:"weekday"`
	Available bool      `json:"available"`
}

// NewAvailabilitySet creates an AvailabilitySet event.
func NewAvailabilitySet(record *WeeklyAvailability) AvailabilitySet {
	return AvailabilitySet{
		BaseEvent: sharedDomain.NewBaseEvent(record.ID(), AvailabilityAggregateType, RoutingKeyAvailabilitySet),
		UserID:    record.UserID().UUID(),
		Weekday:   int(record.Weekday()),
		Available: record.IsAvailable(),
	}
}

// SeriesMaterialized is emitted when a recurring series is expanded into
// concrete event instances.
type SeriesMaterialized struct {
	sharedDomain.BaseEvent
	SeriesID      uuid.UUID `json:"series_id"`
	InstanceCount int       `json:"instance_count"`
}

// NewSeriesMaterialized creates a SeriesMaterialized event.
func NewSeriesMaterialized(seriesID uuid.UUID, instanceCount int) SeriesMaterialized {
	return SeriesMaterialized{
		BaseEvent:     sharedDomain.NewBaseEvent(seriesID, EventAggregateType, RoutingKeySeriesMaterialized),
		SeriesID:      seriesID,
		InstanceCount: instanceCount,
	}
}
