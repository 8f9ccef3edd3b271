package eventbus

import (
	"context"
	"encoding/json"

	"github.com/atlasops/atlas/internal/shared/domain"
)

// NewEnvelope wraps a domain event in the wire envelope consumers decode.
// The event's own fields travel as the payload; identity and routing
// metadata live on the envelope so consumers can dispatch without knowing
// the concrete event type.
func NewEnvelope(event domain.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ConsumedEvent{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
	})
}

// PublishDomainEvent envelopes the event and publishes it under its
// routing key.
func PublishDomainEvent(ctx context.Context, publisher Publisher, event domain.DomainEvent) error {
	body, err := NewEnvelope(event)
	if err != nil {
		return err
	}
	return publisher.Publish(ctx, event.RoutingKey(), body)
}

// PublishAll envelopes and publishes a batch of domain events, typically
// an aggregate's pending events after a successful commit. Publishing is
// best-effort per event; the first failure aborts the rest.
func PublishAll(ctx context.Context, publisher Publisher, events []domain.DomainEvent) error {
	for _, event := range events {
		if err := PublishDomainEvent(ctx, publisher, event); err != nil {
			return err
		}
	}
	return nil
}
