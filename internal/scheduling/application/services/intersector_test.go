package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/application/services"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMultiPartyIntersector_IntersectRange(t *testing.T) {
	ctx := context.Background()
	policy := services.DefaultPolicy()

	t.Run("keeps only slots free for every attendee", func(t *testing.T) {
		alice := newSubject()
		bob := newSubject()

		directory := &mockSubjectDirectory{}
		directory.expectUser(alice)
		directory.expectUser(bob)

		availability := &mockAvailabilityRepo{}
		availability.On("FindByUserAndWeekday", mock.Anything, alice, time.Monday).
			Return(mustWeekly(t, alice, time.Monday, 9*time.Hour, 12*time.Hour), nil)
		availability.On("FindByUserAndWeekday", mock.Anything, bob, time.Monday).
			Return(mustWeekly(t, bob, time.Monday, 10*time.Hour, 11*time.Hour), nil)

		events := &mockEventRepo{}
		events.On("FindOccupying", mock.Anything, mock.Anything, mock.Anything).
			Return([]*domain.CalendarEvent{}, nil)

		generator := newGenerator(directory, availability, events, policy)
		intersector := services.NewMultiPartyIntersector(generator, policy)

		joint, err := intersector.IntersectRange(ctx,
			[]sharedDomain.SubjectID{alice, bob}, monday, monday.AddDate(0, 0, 1))
		require.NoError(t, err)

		require.Len(t, joint, 2)
		assert.Equal(t, at(monday, 10, 0), joint[0].Start())
		assert.Equal(t, at(monday, 10, 30), joint[1].Start())
		for _, slot := range joint {
			assert.True(t, slot.Available)
			assert.Nil(t, slot.OccupyingEventID)
		}
	})

	t.Run("one attendee's event removes the slot for all", func(t *testing.T) {
		alice := newSubject()
		bob := newSubject()

		directory := &mockSubjectDirectory{}
		directory.expectUser(alice)
		directory.expectUser(bob)

		availability := &mockAvailabilityRepo{}
		availability.On("FindByUserAndWeekday", mock.Anything, alice, time.Monday).
			Return(mustWeekly(t, alice, time.Monday, 9*time.Hour, 10*time.Hour), nil)
		availability.On("FindByUserAndWeekday", mock.Anything, bob, time.Monday).
			Return(mustWeekly(t, bob, time.Monday, 9*time.Hour, 10*time.Hour), nil)

		busy := occupyingEvent(t, bob, span(monday, 9, 0, 9, 30))
		events := &mockEventRepo{}
		events.On("FindOccupying", mock.Anything, alice, mock.Anything).
			Return([]*domain.CalendarEvent{}, nil)
		events.On("FindOccupying", mock.Anything, bob, mock.Anything).
			Return([]*domain.CalendarEvent{busy}, nil)

		generator := newGenerator(directory, availability, events, policy)
		intersector := services.NewMultiPartyIntersector(generator, policy)

		joint, err := intersector.IntersectRange(ctx,
			[]sharedDomain.SubjectID{alice, bob}, monday, monday.AddDate(0, 0, 1))
		require.NoError(t, err)

		require.Len(t, joint, 1)
		assert.Equal(t, at(monday, 9, 30), joint[0].Start())
	})

	t.Run("non-business days are skipped", func(t *testing.T) {
		alice := newSubject()

		directory := &mockSubjectDirectory{}
		directory.expectUser(alice)

		availability := &mockAvailabilityRepo{}
		availability.On("FindByUserAndWeekday", mock.Anything, alice, mock.Anything).
			Return(mustWeekly(t, alice, time.Saturday, 9*time.Hour, 17*time.Hour), nil)

		events := &mockEventRepo{}
		generator := newGenerator(directory, availability, events, policy)
		intersector := services.NewMultiPartyIntersector(generator, policy)

		// 2026-03-07 is a Saturday; the range covers the weekend only.
		saturday := monday.AddDate(0, 0, 5)
		joint, err := intersector.IntersectRange(ctx,
			[]sharedDomain.SubjectID{alice}, saturday, saturday.AddDate(0, 0, 2))
		require.NoError(t, err)
		assert.Empty(t, joint)
		availability.AssertNotCalled(t, "FindByUserAndWeekday", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("slots outside the search range are dropped", func(t *testing.T) {
		alice := newSubject()

		directory := &mockSubjectDirectory{}
		directory.expectUser(alice)

		availability := &mockAvailabilityRepo{}
		availability.On("FindByUserAndWeekday", mock.Anything, alice, time.Monday).
			Return(mustWeekly(t, alice, time.Monday, 9*time.Hour, 12*time.Hour), nil)

		events := &mockEventRepo{}
		events.On("FindOccupying", mock.Anything, mock.Anything, mock.Anything).
			Return([]*domain.CalendarEvent{}, nil)

		generator := newGenerator(directory, availability, events, policy)
		intersector := services.NewMultiPartyIntersector(generator, policy)

		joint, err := intersector.IntersectRange(ctx,
			[]sharedDomain.SubjectID{alice}, at(monday, 10, 0), at(monday, 11, 0))
		require.NoError(t, err)

		require.Len(t, joint, 2)
		assert.Equal(t, at(monday, 10, 0), joint[0].Start())
		assert.Equal(t, at(monday, 10, 30), joint[1].Start())
	})

	t.Run("rejects empty attendee list", func(t *testing.T) {
		generator := newGenerator(&mockSubjectDirectory{}, &mockAvailabilityRepo{}, &mockEventRepo{}, policy)
		intersector := services.NewMultiPartyIntersector(generator, policy)

		_, err := intersector.IntersectRange(ctx, nil, monday, monday.AddDate(0, 0, 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, sharedDomain.ErrInvalidRequest)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		generator := newGenerator(&mockSubjectDirectory{}, &mockAvailabilityRepo{}, &mockEventRepo{}, policy)
		intersector := services.NewMultiPartyIntersector(generator, policy)

		_, err := intersector.IntersectRange(ctx,
			[]sharedDomain.SubjectID{newSubject()}, monday.AddDate(0, 0, 1), monday)
		require.Error(t, err)
		assert.ErrorIs(t, err, sharedDomain.ErrInvalidRequest)
	})
}
