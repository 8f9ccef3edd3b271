package services

import "time"

// Policy carries the scheduling engine's tunable rules. These were implicit
// constants in earlier versions of the product; every caller now passes
// them explicitly so tenants can differ.
type Policy struct {
	// SlotGranularity is the grid quantum all slot boundaries align to.
	// The grid is anchored at local midnight of the day being queried.
	SlotGranularity time.Duration

	// BusinessDays are the weekdays considered when searching for
	// meeting windows.
	BusinessDays []time.Weekday

	// MaxSuggestions caps the ranked suggestion list.
	MaxSuggestions int

	// SearchFanout bounds concurrent per-attendee slot computations.
	SearchFanout int

	// RoomDayStart and RoomDayEnd define the bookable window of rooms,
	// which carry no weekly availability records.
	RoomDayStart time.Duration
	RoomDayEnd   time.Duration

	// MaxRecurrenceInstances is a safety cap on series materialization.
	MaxRecurrenceInstances int
}

// DefaultPolicy returns the reference policy: 30-minute grid, Monday
// through Friday, 8:00-20:00 room hours, ten suggestions.
func DefaultPolicy() Policy {
	return Policy{
		SlotGranularity: 30 * time.Minute,
		BusinessDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		MaxSuggestions:         10,
		SearchFanout:           8,
		RoomDayStart:           8 * time.Hour,
		RoomDayEnd:             20 * time.Hour,
		MaxRecurrenceInstances: 366,
	}
}

// IsBusinessDay reports whether the policy allows scheduling on the
// given weekday.
func (p Policy) IsBusinessDay(day time.Weekday) bool {
	for _, d := range p.BusinessDays {
		if d == day {
			return true
		}
	}
	return false
}
