package queries_test

import (
	"context"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/application/services"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
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

// newPipeline wires the read-side services over mocked stores.
func newPipeline(
	directory *mockSubjectDirectory,
	availability *mockAvailabilityRepo,
	events *mockEventRepo,
) (*services.SlotGenerator, *services.MultiPartyIntersector, *services.WindowAggregator) {
	policy := services.DefaultPolicy()
	resolver := services.NewAvailabilityResolver(directory, availability, policy)
	generator := services.NewSlotGenerator(resolver, services.NewConflictIndex(events), policy)
	intersector := services.NewMultiPartyIntersector(generator, policy)
	aggregator := services.NewWindowAggregator(policy)
	return generator, intersector, aggregator
}
