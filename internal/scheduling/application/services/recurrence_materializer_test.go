package services_test

import (
	"testing"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/application/services"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesTemplate(t *testing.T) *domain.CalendarEvent {
	t.Helper()
	organizer := newSubject()
	event, err := domain.NewCalendarEvent(
		"sprint planning",
		organizer,
		[]sharedDomain.SubjectID{organizer, newSubject()},
		nil,
		span(monday, 9, 0, 10, 0),
		domain.StatusConfirmed,
	)
	require.NoError(t, err)
	return event
}

func TestRecurrenceMaterializer_Materialize(t *testing.T) {
	policy := services.DefaultPolicy()
	materializer := services.NewRecurrenceMaterializer(policy)

	t.Run("daily count expands to consecutive days", func(t *testing.T) {
		template := seriesTemplate(t)
		rule := domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Interval: 1, Count: 5}

		instances, err := materializer.Materialize(template, rule)
		require.NoError(t, err)
		require.Len(t, instances, 5)

		for i, instance := range instances {
			day := monday.AddDate(0, 0, i)
			assert.Equal(t, at(day, 9, 0), instance.Interval().Start)
			assert.Equal(t, time.Hour, instance.Interval().Duration())
			assert.Equal(t, template.Title(), instance.Title())
			assert.Equal(t, template.Status(), instance.Status())
			require.NotNil(t, instance.SeriesID())
			assert.Equal(t, *instances[0].SeriesID(), *instance.SeriesID())
		}
	})

	t.Run("until bound is inclusive", func(t *testing.T) {
		template := seriesTemplate(t)
		until := at(monday.AddDate(0, 0, 2), 9, 0)
		rule := domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Interval: 1, Until: &until}

		instances, err := materializer.Materialize(template, rule)
		require.NoError(t, err)
		assert.Len(t, instances, 3)
	})

	t.Run("count wins when both bounds are set", func(t *testing.T) {
		template := seriesTemplate(t)
		until := at(monday.AddDate(0, 1, 0), 9, 0)
		rule := domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Interval: 1, Count: 3, Until: &until}

		instances, err := materializer.Materialize(template, rule)
		require.NoError(t, err)
		assert.Len(t, instances, 3)
	})

	t.Run("unbounded rule is rejected", func(t *testing.T) {
		template := seriesTemplate(t)
		rule := domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Interval: 1}

		_, err := materializer.Materialize(template, rule)
		require.Error(t, err)
		assert.ErrorIs(t, err, sharedDomain.ErrInvalidRequest)
	})

	t.Run("weekly on selected weekdays", func(t *testing.T) {
		template := seriesTemplate(t)
		rule := domain.RecurrenceRule{
			Frequency:  domain.FrequencyWeekly,
			Interval:   1,
			Count:      4,
			ByWeekdays: []time.Weekday{time.Monday, time.Wednesday},
		}

		instances, err := materializer.Materialize(template, rule)
		require.NoError(t, err)
		require.Len(t, instances, 4)

		assert.Equal(t, time.Monday, instances[0].Interval().Start.Weekday())
		assert.Equal(t, time.Wednesday, instances[1].Interval().Start.Weekday())
		assert.Equal(t, time.Monday, instances[2].Interval().Start.Weekday())
		assert.Equal(t, time.Wednesday, instances[3].Interval().Start.Weekday())
	})

	t.Run("every other week", func(t *testing.T) {
		template := seriesTemplate(t)
		rule := domain.RecurrenceRule{Frequency: domain.FrequencyWeekly, Interval: 2, Count: 3}

		instances, err := materializer.Materialize(template, rule)
		require.NoError(t, err)
		require.Len(t, instances, 3)

		assert.Equal(t, at(monday, 9, 0), instances[0].Interval().Start)
		assert.Equal(t, at(monday.AddDate(0, 0, 14), 9, 0), instances[1].Interval().Start)
		assert.Equal(t, at(monday.AddDate(0, 0, 28), 9, 0), instances[2].Interval().Start)
	})

	t.Run("instance count is capped", func(t *testing.T) {
		capped := policy
		capped.MaxRecurrenceInstances = 10
		materializer := services.NewRecurrenceMaterializer(capped)

		template := seriesTemplate(t)
		rule := domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Interval: 1, Count: 50}

		instances, err := materializer.Materialize(template, rule)
		require.NoError(t, err)
		assert.Len(t, instances, 10)
	})

	t.Run("expansion is deterministic", func(t *testing.T) {
		template := seriesTemplate(t)
		rule := domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Interval: 1, Count: 7}

		first, err := materializer.Materialize(template, rule)
		require.NoError(t, err)
		second, err := materializer.Materialize(template, rule)
		require.NoError(t, err)

		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].Interval(), second[i].Interval())
		}
	})
}
