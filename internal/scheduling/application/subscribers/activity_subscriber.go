// Package subscribers contains the event consumers of the scheduling
// context.
package subscribers

import (
	"context"
	"log/slog"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	"github.com/atlasops/atlas/internal/shared/infrastructure/eventbus"
	"github.com/atlasops/atlas/pkg/observability"
)

// ActivitySubscriber records scheduling activity from the event stream:
// a per-routing-key counter and a structured log line per event. In local
// mode this is the only place all calendar mutations surface in one feed.
type ActivitySubscriber struct {
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewActivitySubscriber creates a new activity subscriber.
func NewActivitySubscriber(metrics observability.Metrics, logger *slog.Logger) *ActivitySubscriber {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivitySubscriber{
		metrics: metrics,
		logger:  logger,
	}
}

// EventTypes returns the event types this subscriber handles.
func (s *ActivitySubscriber) EventTypes() []string {
	return []string{
		domain.RoutingKeyRoomBooked,
		domain.RoutingKeyMeetingScheduled,
		domain.RoutingKeyEventCancelled,
		domain.RoutingKeyAvailabilitySet,
		domain.RoutingKeySeriesMaterialized,
	}
}

// Handle processes an event.
func (s *ActivitySubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	s.metrics.Counter("scheduling.events", 1, observability.T("routing_key", event.RoutingKey))

	s.logger.InfoContext(ctx, "scheduling activity",
		"routing_key", event.RoutingKey,
		"aggregate_type", event.AggregateType,
		"aggregate_id", event.AggregateID,
		"occurred_at", event.OccurredAt,
	)
	return nil
}
