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

func TestGetSubjectAvailabilityHandler_Handle(t *testing.T) {
	ctx := context.Background()

	userID := uuid.New()
	user := sharedDomain.NewSubjectID(userID)

	directory := &mockSubjectDirectory{}
	directory.On("Lookup", mock.Anything, user).
		Return(&domain.Subject{ID: user, Kind: domain.SubjectKindUser, TimeZone: "UTC"}, nil)

	record, err := domain.NewWeeklyAvailability(user, time.Monday, 9*time.Hour, 11*time.Hour, true)
	require.NoError(t, err)

	availability := &mockAvailabilityRepo{}
	availability.On("FindByUserAndWeekday", mock.Anything, user, time.Monday).Return(record, nil)

	events := &mockEventRepo{}
	events.On("FindOccupying", mock.Anything, user, mock.Anything).
		Return([]*domain.CalendarEvent{}, nil)

	generator, _, _ := newPipeline(directory, availability, events)
	handler := queries.NewGetSubjectAvailabilityHandler(generator)

	slots, err := handler.Handle(ctx, queries.GetSubjectAvailabilityQuery{
		SubjectID: userID,
		Date:      monday,
	})
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, at(monday, 9, 0), slots[0].Start())
	assert.Equal(t, at(monday, 11, 0), slots[3].Interval.End)
}
