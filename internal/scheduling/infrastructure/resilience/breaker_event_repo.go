package resilience

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// BreakerEventRepository decorates an event repository with a circuit
// breaker. When the backing store fails repeatedly, callers get a fast
// unavailable error instead of piling up on a dead connection.
type BreakerEventRepository struct {
	inner   domain.EventRepository
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerEventRepository creates a circuit-breaking decorator. The
// breaker opens after five consecutive failures and probes again after
// thirty seconds.
func NewBreakerEventRepository(inner domain.EventRepository) *BreakerEventRepository {
	settings := gobreaker.Settings{
		Name:    "event-store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &BreakerEventRepository{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (r *BreakerEventRepository) execute(fn func() (any, error)) (any, error) {
	result, err := r.breaker.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, sharedDomain.Unavailablef("event store circuit open")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, sharedDomain.Unavailablef("event store timed out: %v", err)
		}
		var netErr net.Error
		if errors.As(err, &netErr) {
			return nil, sharedDomain.Unavailablef("event store unreachable: %v", err)
		}
		return nil, err
	}
	return result, nil
}

// Save persists an event through the breaker.
func (r *BreakerEventRepository) Save(ctx context.Context, event *domain.CalendarEvent) error {
	_, err := r.execute(func() (any, error) {
		return nil, r.inner.Save(ctx, event)
	})
	return err
}

// SaveAll persists a batch of events through the breaker.
func (r *BreakerEventRepository) SaveAll(ctx context.Context, events []*domain.CalendarEvent) error {
	_, err := r.execute(func() (any, error) {
		return nil, r.inner.SaveAll(ctx, events)
	})
	return err
}

// FindByID retrieves an event through the breaker.
func (r *BreakerEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	result, err := r.execute(func() (any, error) {
		return r.inner.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	event, _ := result.(*domain.CalendarEvent)
	return event, nil
}

// FindOccupying queries occupying events through the breaker.
func (r *BreakerEventRepository) FindOccupying(ctx context.Context, subject sharedDomain.SubjectID, interval domain.Interval) ([]*domain.CalendarEvent, error) {
	result, err := r.execute(func() (any, error) {
		return r.inner.FindOccupying(ctx, subject, interval)
	})
	if err != nil {
		return nil, err
	}
	events, _ := result.([]*domain.CalendarEvent)
	return events, nil
}

// FindBySeries queries series instances through the breaker.
func (r *BreakerEventRepository) FindBySeries(ctx context.Context, seriesID uuid.UUID) ([]*domain.CalendarEvent, error) {
	result, err := r.execute(func() (any, error) {
		return r.inner.FindBySeries(ctx, seriesID)
	})
	if err != nil {
		return nil, err
	}
	events, _ := result.([]*domain.CalendarEvent)
	return events, nil
}

// SaveRoomBooking persists a room booking through the breaker. Booking
// conflicts are domain outcomes, not store failures, and must not trip it.
func (r *BreakerEventRepository) SaveRoomBooking(ctx context.Context, booking *domain.CalendarEvent, room sharedDomain.SubjectID) error {
	result, err := r.execute(func() (any, error) {
		err := r.inner.SaveRoomBooking(ctx, booking, room)
		if errors.Is(err, sharedDomain.ErrConflict) || errors.Is(err, sharedDomain.ErrNotFound) {
			// Surface without counting against the breaker.
			return err, nil
		}
		return nil, err
	})
	if err != nil {
		return err
	}
	if domainErr, ok := result.(error); ok {
		return domainErr
	}
	return nil
}
