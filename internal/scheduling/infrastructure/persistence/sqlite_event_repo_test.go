package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/atlasops/atlas/db"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory SQLite database with the schema applied.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.ApplySQLite(context.Background(), sqlDB))
	return sqlDB
}

func testInterval(t *testing.T, start time.Time, d time.Duration) domain.Interval {
	t.Helper()
	interval, err := domain.NewInterval(start, start.Add(d))
	require.NoError(t, err)
	return interval
}

func testEvent(t *testing.T, title string, interval domain.Interval, status domain.EventStatus) *domain.CalendarEvent {
	t.Helper()
	organizer := sharedDomain.NewSubjectID(uuid.New())
	event, err := domain.NewCalendarEvent(
		title,
		organizer,
		[]sharedDomain.SubjectID{organizer, sharedDomain.NewSubjectID(uuid.New())},
		nil,
		interval,
		status,
	)
	require.NoError(t, err)
	return event
}

var tuesday9 = time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)

func TestSQLiteEventRepository_SaveAndFindByID(t *testing.T) {
	sqlDB := setupTestDB(t)
	repo := NewSQLiteEventRepository(sqlDB)
	ctx := context.Background()

	event := testEvent(t, "architecture sync", testInterval(t, tuesday9, time.Hour), domain.StatusConfirmed)
	require.NoError(t, repo.Save(ctx, event))

	found, err := repo.FindByID(ctx, event.ID())
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, event.ID(), found.ID())
	assert.Equal(t, "architecture sync", found.Title())
	assert.Equal(t, domain.StatusConfirmed, found.Status())
	assert.True(t, found.Interval().Start.Equal(tuesday9))
	assert.True(t, found.Interval().End.Equal(tuesday9.Add(time.Hour)))
	assert.Equal(t, event.Organizer(), found.Organizer())
	assert.ElementsMatch(t, event.Attendees(), found.Attendees())
	assert.Nil(t, found.RoomID())
	assert.Nil(t, found.SeriesID())
}

func TestSQLiteEventRepository_FindByID_Unknown(t *testing.T) {
	sqlDB := setupTestDB(t)
	repo := NewSQLiteEventRepository(sqlDB)

	found, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSQLiteEventRepository_Save_UpdatesExisting(t *testing.T) {
	sqlDB := setupTestDB(t)
	repo := NewSQLiteEventRepository(sqlDB)
	ctx := context.Background()

	event := testEvent(t, "standup", testInterval(t, tuesday9, 30*time.Minute), domain.StatusTentative)
	require.NoError(t, repo.Save(ctx, event))

	require.NoError(t, event.Confirm())
	require.NoError(t, repo.Save(ctx, event))

	found, err := repo.FindByID(ctx, event.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.StatusConfirmed, found.Status())
}

func TestSQLiteEventRepository_FindOccupying(t *testing.T) {
	sqlDB := setupTestDB(t)
	repo := NewSQLiteEventRepository(sqlDB)
	ctx := context.Background()

	organizer := sharedDomain.NewSubjectID(uuid.New())
	newEvent := func(title string, interval domain.Interval, status domain.EventStatus) *domain.CalendarEvent {
		event, err := domain.NewCalendarEvent(title, organizer,
			[]sharedDomain.SubjectID{organizer}, nil, interval, status)
		require.NoError(t, err)
		return event
	}

	confirmed := newEvent("review", testInterval(t, tuesday9, time.Hour), domain.StatusConfirmed)
	tentative := newEvent("maybe", testInterval(t, tuesday9.Add(2*time.Hour), time.Hour), domain.StatusTentative)
	cancelled := newEvent("dropped", testInterval(t, tuesday9.Add(30*time.Minute), time.Hour), domain.StatusConfirmed)
	require.NoError(t, cancelled.Cancel())
	adjacent := newEvent("after", testInterval(t, tuesday9.Add(time.Hour), time.Hour), domain.StatusConfirmed)

	for _, event := range []*domain.CalendarEvent{confirmed, tentative, cancelled, adjacent} {
		require.NoError(t, repo.Save(ctx, event))
	}

	t.Run("returns confirmed and tentative overlaps ordered by start", func(t *testing.T) {
		found, err := repo.FindOccupying(ctx, organizer, testInterval(t, tuesday9, 4*time.Hour))
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, confirmed.ID(), found[0].ID())
		assert.Equal(t, adjacent.ID(), found[1].ID())
		assert.Equal(t, tentative.ID(), found[2].ID())
	})

	t.Run("cancelled events never occupy", func(t *testing.T) {
		found, err := repo.FindOccupying(ctx, organizer, testInterval(t, tuesday9.Add(30*time.Minute), 15*time.Minute))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, confirmed.ID(), found[0].ID())
	})

	t.Run("touching boundaries do not overlap", func(t *testing.T) {
		found, err := repo.FindOccupying(ctx, organizer, testInterval(t, tuesday9.Add(-time.Hour), time.Hour))
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("uninvolved subject sees nothing", func(t *testing.T) {
		found, err := repo.FindOccupying(ctx, sharedDomain.NewSubjectID(uuid.New()), testInterval(t, tuesday9, 4*time.Hour))
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestSQLiteEventRepository_FindOccupying_MatchesAttendee(t *testing.T) {
	sqlDB := setupTestDB(t)
	repo := NewSQLiteEventRepository(sqlDB)
	ctx := context.Background()

	attendee := sharedDomain.NewSubjectID(uuid.New())
	organizer := sharedDomain.NewSubjectID(uuid.New())
	event, err := domain.NewCalendarEvent("pairing", organizer,
		[]sharedDomain.SubjectID{attendee}, nil,
		testInterval(t, tuesday9, time.Hour), domain.StatusConfirmed)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, event))

	found, err := repo.FindOccupying(ctx, attendee, testInterval(t, tuesday9, time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, event.ID(), found[0].ID())
}

func TestSQLiteEventRepository_FindBySeries(t *testing.T) {
	sqlDB := setupTestDB(t)
	repo := NewSQLiteEventRepository(sqlDB)
	ctx := context.Background()

	seriesID := uuid.New()
	instances := make([]*domain.CalendarEvent, 0, 3)
	for week := 0; week < 3; week++ {
		instance := testEvent(t, "retro",
			testInterval(t, tuesday9.AddDate(0, 0, 7*week), time.Hour),
			domain.StatusConfirmed)
		instance.AssignSeries(seriesID)
		instances = append(instances, instance)
	}
	require.NoError(t, repo.SaveAll(ctx, instances))

	found, err := repo.FindBySeries(ctx, seriesID)
	require.NoError(t, err)
	require.Len(t, found, 3)
	for i, instance := range instances {
		assert.Equal(t, instance.ID(), found[i].ID())
		require.NotNil(t, found[i].SeriesID())
		assert.Equal(t, seriesID, *found[i].SeriesID())
	}
}

func TestSQLiteEventRepository_SaveRoomBooking(t *testing.T) {
	sqlDB := setupTestDB(t)
	repo := NewSQLiteEventRepository(sqlDB)
	ctx := context.Background()

	room, err := domain.NewMeetingRoom("Borealis", 6, domain.BookingRules{
		MaxDuration: 4 * time.Hour,
		MaxAdvance:  90 * 24 * time.Hour,
	})
	require.NoError(t, err)
	roomSubject := room.SubjectID()

	newBooking := func(interval domain.Interval) *domain.CalendarEvent {
		requester := sharedDomain.NewSubjectID(uuid.New())
		booking, err := domain.NewCalendarEvent("Booking: Borealis", requester,
			[]sharedDomain.SubjectID{requester}, &roomSubject, interval, domain.StatusConfirmed)
		require.NoError(t, err)
		return booking
	}

	first := newBooking(testInterval(t, tuesday9, time.Hour))
	require.NoError(t, repo.SaveRoomBooking(ctx, first, roomSubject))

	t.Run("overlapping booking is rejected", func(t *testing.T) {
		overlap := newBooking(testInterval(t, tuesday9.Add(30*time.Minute), time.Hour))
		err := repo.SaveRoomBooking(ctx, overlap, roomSubject)
		require.ErrorIs(t, err, sharedDomain.ErrConflict)

		found, findErr := repo.FindByID(ctx, overlap.ID())
		require.NoError(t, findErr)
		assert.Nil(t, found, "rejected booking must not be persisted")
	})

	t.Run("back to back booking succeeds", func(t *testing.T) {
		next := newBooking(testInterval(t, tuesday9.Add(time.Hour), time.Hour))
		require.NoError(t, repo.SaveRoomBooking(ctx, next, roomSubject))
	})

	t.Run("sub-second overhang is still a conflict", func(t *testing.T) {
		// Ends half a second past 14:00, so a booking starting at 14:00
		// overlaps by 500ms.
		overhang := newBooking(testInterval(t, tuesday9.Add(4*time.Hour), time.Hour+500*time.Millisecond))
		require.NoError(t, repo.SaveRoomBooking(ctx, overhang, roomSubject))

		occupying, err := repo.FindOccupying(ctx, roomSubject, testInterval(t, tuesday9.Add(5*time.Hour), time.Hour))
		require.NoError(t, err)
		require.Len(t, occupying, 1)
		assert.Equal(t, overhang.ID(), occupying[0].ID())

		late := newBooking(testInterval(t, tuesday9.Add(5*time.Hour), time.Hour))
		err = repo.SaveRoomBooking(ctx, late, roomSubject)
		require.ErrorIs(t, err, sharedDomain.ErrConflict)

		found, findErr := repo.FindByID(ctx, late.ID())
		require.NoError(t, findErr)
		assert.Nil(t, found, "rejected booking must not be persisted")
	})
}
