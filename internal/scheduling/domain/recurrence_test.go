package domain_test

import (
	"testing"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/stretchr/testify/assert"
)

func TestRecurrenceRule_Validate(t *testing.T) {
	until := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	t.Run("count bound", func(t *testing.T) {
		rule := domain.RecurrenceRule{Frequency: domain.FrequencyWeekly, Interval: 1, Count: 10}
		assert.NoError(t, rule.Validate())
	})

	t.Run("until bound", func(t *testing.T) {
		rule := domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Interval: 2, Until: &until}
		assert.NoError(t, rule.Validate())
	})

	t.Run("no bound rejected", func(t *testing.T) {
		rule := domain.RecurrenceRule{Frequency: domain.FrequencyMonthly, Interval: 1}
		assert.ErrorIs(t, rule.Validate(), sharedDomain.ErrInvalidRequest)
	})

	t.Run("unknown frequency rejected", func(t *testing.T) {
		rule := domain.RecurrenceRule{Frequency: "hourly", Interval: 1, Count: 3}
		assert.ErrorIs(t, rule.Validate(), sharedDomain.ErrInvalidRequest)
	})

	t.Run("zero interval rejected", func(t *testing.T) {
		rule := domain.RecurrenceRule{Frequency: domain.FrequencyWeekly, Interval: 0, Count: 3}
		assert.ErrorIs(t, rule.Validate(), sharedDomain.ErrInvalidRequest)
	})

	t.Run("month day out of range rejected", func(t *testing.T) {
		rule := domain.RecurrenceRule{
			Frequency: domain.FrequencyMonthly, Interval: 1, Count: 3,
			ByMonthDays: []int{32},
		}
		assert.ErrorIs(t, rule.Validate(), sharedDomain.ErrInvalidRequest)
	})
}
