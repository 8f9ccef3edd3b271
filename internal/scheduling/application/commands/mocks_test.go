package commands_test

import (
	"context"
	"sync"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func newSubjectUUID() uuid.UUID { return uuid.New() }

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
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

// fakeUnitOfWork tracks lifecycle calls without a real transaction.
type fakeUnitOfWork struct {
	mu         sync.Mutex
	begun      int
	committed  int
	rolledBack int
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.begun++
	return ctx, nil
}

func (u *fakeUnitOfWork) Commit(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.committed++
	return nil
}

func (u *fakeUnitOfWork) Rollback(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rolledBack++
	return nil
}

// capturePublisher records published routing keys in order.
type capturePublisher struct {
	mu          sync.Mutex
	routingKeys []string
	payloads    [][]byte
}

func (p *capturePublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routingKeys = append(p.routingKeys, routingKey)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.routingKeys...)
}
