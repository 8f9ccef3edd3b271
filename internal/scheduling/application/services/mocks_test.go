package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// monday is a fixed reference Monday all slot tests anchor on.
var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func newSubject() sharedDomain.SubjectID {
	return sharedDomain.NewSubjectID(uuid.New())
}

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func span(day time.Time, fromHour, fromMinute, toHour, toMinute int) domain.Interval {
	return domain.Interval{
		Start: at(day, fromHour, fromMinute),
		End:   at(day, toHour, toMinute),
	}
}

func mustWeekly(t interface{ Fatalf(string, ...any) }, user sharedDomain.SubjectID, weekday time.Weekday, start, end time.Duration) *domain.WeeklyAvailability {
	record, err := domain.NewWeeklyAvailability(user, weekday, start, end, true)
	if err != nil {
		t.Fatalf("build availability record: %v", err)
	}
	return record
}

type mockSubjectDirectory struct {
	mock.Mock
}

func (m *mockSubjectDirectory) Lookup(ctx context.Context, id sharedDomain.SubjectID) (*domain.Subject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subject), args.Error(1)
}

func (m *mockSubjectDirectory) expectUser(id sharedDomain.SubjectID) {
	m.On("Lookup", mock.Anything, id).
		Return(&domain.Subject{ID: id, Kind: domain.SubjectKindUser, TimeZone: "UTC"}, nil)
}

type mockAvailabilityRepo struct {
	mock.Mock
}

func (m *mockAvailabilityRepo) FindByUserAndWeekday(ctx context.Context, user sharedDomain.SubjectID, weekday time.Weekday) (*domain.WeeklyAvailability, error) {
	args := m.Called(ctx, user, weekday)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeeklyAvailability), args.Error(1)
}

func (m *mockAvailabilityRepo) FindByUser(ctx context.Context, user sharedDomain.SubjectID) ([]*domain.WeeklyAvailability, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WeeklyAvailability), args.Error(1)
}

func (m *mockAvailabilityRepo) Save(ctx context.Context, record *domain.WeeklyAvailability) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) Save(ctx context.Context, event *domain.CalendarEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventRepo) SaveAll(ctx context.Context, events []*domain.CalendarEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *mockEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarEvent), args.Error(1)
}

func (m *mockEventRepo) FindOccupying(ctx context.Context, subject sharedDomain.SubjectID, interval domain.Interval) ([]*domain.CalendarEvent, error) {
	args := m.Called(ctx, subject, interval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CalendarEvent), args.Error(1)
}

func (m *mockEventRepo) FindBySeries(ctx context.Context, seriesID uuid.UUID) ([]*domain.CalendarEvent, error) {
	args := m.Called(ctx, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CalendarEvent), args.Error(1)
}

func (m *mockEventRepo) SaveRoomBooking(ctx context.Context, booking *domain.CalendarEvent, room sharedDomain.SubjectID) error {
	args := m.Called(ctx, booking, room)
	return args.Error(0)
}

type mockRoomRepo struct {
	mock.Mock
}

func (m *mockRoomRepo) FindByID(ctx context.Context, id sharedDomain.SubjectID) (*domain.MeetingRoom, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MeetingRoom), args.Error(1)
}

func (m *mockRoomRepo) List(ctx context.Context) ([]*domain.MeetingRoom, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MeetingRoom), args.Error(1)
}

func (m *mockRoomRepo) Save(ctx context.Context, room *domain.MeetingRoom) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

// memoryEventStore is a thread-safe in-memory event store for exercising
// booking serialization without a database. SaveRoomBooking re-checks the
// overlap under the store lock, mirroring the transactional backends.
type memoryEventStore struct {
	mu     sync.Mutex
	events []*domain.CalendarEvent
}

func newMemoryEventStore() *memoryEventStore {
	return &memoryEventStore{}
}

func (s *memoryEventStore) Save(_ context.Context, event *domain.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *memoryEventStore) SaveAll(_ context.Context, events []*domain.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

func (s *memoryEventStore) FindByID(_ context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, event := range s.events {
		if event.ID() == id {
			return event, nil
		}
	}
	return nil, sharedDomain.NotFoundf("event %s", id)
}

func (s *memoryEventStore) FindOccupying(_ context.Context, subject sharedDomain.SubjectID, interval domain.Interval) ([]*domain.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.occupyingLocked(subject, interval), nil
}

func (s *memoryEventStore) FindBySeries(_ context.Context, seriesID uuid.UUID) ([]*domain.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches := make([]*domain.CalendarEvent, 0)
	for _, event := range s.events {
		if event.SeriesID() != nil && *event.SeriesID() == seriesID {
			matches = append(matches, event)
		}
	}
	return matches, nil
}

func (s *memoryEventStore) SaveRoomBooking(_ context.Context, booking *domain.CalendarEvent, room sharedDomain.SubjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.occupyingLocked(room, booking.Interval())) > 0 {
		return sharedDomain.Conflictf("room %s is already booked during %s", room, booking.Interval())
	}
	s.events = append(s.events, booking)
	return nil
}

func (s *memoryEventStore) occupyingLocked(subject sharedDomain.SubjectID, interval domain.Interval) []*domain.CalendarEvent {
	matches := make([]*domain.CalendarEvent, 0)
	for _, event := range s.events {
		if event.OccupiesTime() && event.Involves(subject) && event.Interval().Overlaps(interval) {
			matches = append(matches, event)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Interval().Start.Before(matches[j].Interval().Start)
	})
	return matches
}
