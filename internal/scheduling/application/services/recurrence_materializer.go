package services

import (
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

// RecurrenceMaterializer expands a recurrence rule into bounded concrete
// event instances. Expansion is pure: the same template, rule, and bound
// always yield the same instance intervals.
type RecurrenceMaterializer struct {
	policy Policy
}

// NewRecurrenceMaterializer creates a recurrence materializer.
func NewRecurrenceMaterializer(policy Policy) *RecurrenceMaterializer {
	return &RecurrenceMaterializer{policy: policy}
}

// Materialize produces one calendar event per occurrence, carrying the
// template's fields with recalculated intervals and a shared series id.
// When both count and end date are set, count wins. A rule with neither
// bound is rejected before any expansion happens.
func (m *RecurrenceMaterializer) Materialize(template *domain.CalendarEvent, rule domain.RecurrenceRule) ([]*domain.CalendarEvent, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	opt := rrule.ROption{
		Freq:     frequencyToRRule(rule.Frequency),
		Interval: rule.Interval,
		Dtstart:  template.Interval().Start,
	}
	if rule.Count > 0 {
		opt.Count = rule.Count
	} else if rule.Until != nil {
		opt.Until = *rule.Until
	}
	for _, day := range rule.ByWeekdays {
		opt.Byweekday = append(opt.Byweekday, weekdayToRRule(day))
	}
	opt.Bymonthday = rule.ByMonthDays

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, sharedDomain.InvalidRequestf("build recurrence rule: %v", err)
	}

	occurrences := r.All()
	if len(occurrences) > m.policy.MaxRecurrenceInstances {
		occurrences = occurrences[:m.policy.MaxRecurrenceInstances]
	}

	seriesID := uuid.New()
	duration := template.Interval().Duration()
	instances := make([]*domain.CalendarEvent, 0, len(occurrences))

	for _, start := range occurrences {
		instance, err := domain.NewCalendarEvent(
			template.Title(),
			template.Organizer(),
			template.Attendees(),
			template.RoomID(),
			domain.Interval{Start: start, End: start.Add(duration)},
			template.Status(),
		)
		if err != nil {
			return nil, err
		}
		instance.AssignSeries(seriesID)
		instances = append(instances, instance)
	}

	return instances, nil
}

func frequencyToRRule(f domain.Frequency) rrule.Frequency {
	switch f {
	case domain.FrequencyDaily:
		return rrule.DAILY
	case domain.FrequencyWeekly:
		return rrule.WEEKLY
	case domain.FrequencyMonthly:
		return rrule.MONTHLY
	default:
		return rrule.YEARLY
	}
}

func weekdayToRRule(d time.Weekday) rrule.Weekday {
	switch d {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}
