package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/application/queries"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFindAvailableSlotsHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("suggests windows inside the joint overlap", func(t *testing.T) {
		aliceID := uuid.New()
		bobID := uuid.New()
		alice := sharedDomain.NewSubjectID(aliceID)
		bob := sharedDomain.NewSubjectID(bobID)

		directory := &mockSubjectDirectory{}
		for _, s := range []sharedDomain.SubjectID{alice, bob} {
			directory.On("Lookup", mock.Anything, s).
				Return(&domain.Subject{ID: s, Kind: domain.SubjectKindUser, TimeZone: "UTC"}, nil)
		}

		recordA, err := domain.NewWeeklyAvailability(alice, time.Monday, 9*time.Hour, 12*time.Hour, true)
		require.NoError(t, err)
		recordB, err := domain.NewWeeklyAvailability(bob, time.Monday, 10*time.Hour, 11*time.Hour, true)
		require.NoError(t, err)

		availability := &mockAvailabilityRepo{}
		availability.On("FindByUserAndWeekday", mock.Anything, alice, time.Monday).Return(recordA, nil)
		availability.On("FindByUserAndWeekday", mock.Anything, bob, time.Monday).Return(recordB, nil)

		events := &mockEventRepo{}
		events.On("FindOccupying", mock.Anything, mock.Anything, mock.Anything).
			Return([]*domain.CalendarEvent{}, nil)

		_, intersector, aggregator := newPipeline(directory, availability, events)
		handler := queries.NewFindAvailableSlotsHandler(intersector, aggregator)

		suggestions, err := handler.Handle(ctx, queries.FindAvailableSlotsQuery{
			AttendeeIDs:     []uuid.UUID{aliceID, bobID},
			DurationMinutes: 30,
			RangeStart:      monday,
			RangeEnd:        monday.AddDate(0, 0, 1),
		})
		require.NoError(t, err)
		require.Len(t, suggestions, 2)

		assert.Equal(t, at(monday, 10, 0), suggestions[0].Interval.Start)
		assert.Equal(t, at(monday, 10, 30), suggestions[1].Interval.Start)
		for _, s := range suggestions {
			assert.Equal(t, 2, s.AvailableAttendees)
			assert.Equal(t, 2, s.TotalAttendees)
			assert.Positive(t, s.Score)
		}
	})

	t.Run("no joint overlap yields no suggestions", func(t *testing.T) {
		aliceID := uuid.New()
		bobID := uuid.New()
		alice := sharedDomain.NewSubjectID(aliceID)
		bob := sharedDomain.NewSubjectID(bobID)

		directory := &mockSubjectDirectory{}
		for _, s := range []sharedDomain.SubjectID{alice, bob} {
			directory.On("Lookup", mock.Anything, s).
				Return(&domain.Subject{ID: s, Kind: domain.SubjectKindUser, TimeZone: "UTC"}, nil)
		}

		recordA, err := domain.NewWeeklyAvailability(alice, time.Monday, 9*time.Hour, 10*time.Hour, true)
		require.NoError(t, err)
		recordB, err := domain.NewWeeklyAvailability(bob, time.Monday, 14*time.Hour, 15*time.Hour, true)
		require.NoError(t, err)

		availability := &mockAvailabilityRepo{}
		availability.On("FindByUserAndWeekday", mock.Anything, alice, time.Monday).Return(recordA, nil)
		availability.On("FindByUserAndWeekday", mock.Anything, bob, time.Monday).Return(recordB, nil)

		events := &mockEventRepo{}
		events.On("FindOccupying", mock.Anything, mock.Anything, mock.Anything).
			Return([]*domain.CalendarEvent{}, nil)

		_, intersector, aggregator := newPipeline(directory, availability, events)
		handler := queries.NewFindAvailableSlotsHandler(intersector, aggregator)

		suggestions, err := handler.Handle(ctx, queries.FindAvailableSlotsQuery{
			AttendeeIDs:     []uuid.UUID{aliceID, bobID},
			DurationMinutes: 30,
			RangeStart:      monday,
			RangeEnd:        monday.AddDate(0, 0, 1),
		})
		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		_, intersector, aggregator := newPipeline(&mockSubjectDirectory{}, &mockAvailabilityRepo{}, &mockEventRepo{})
		handler := queries.NewFindAvailableSlotsHandler(intersector, aggregator)

		_, err := handler.Handle(ctx, queries.FindAvailableSlotsQuery{
			AttendeeIDs:     []uuid.UUID{uuid.New()},
			DurationMinutes: 0,
			RangeStart:      monday,
			RangeEnd:        monday.AddDate(0, 0, 1),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, sharedDomain.ErrInvalidRequest)
	})
}
