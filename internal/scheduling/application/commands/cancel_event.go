package commands

import (
	"context"
	"log/slog"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedApplication "github.com/atlasops/atlas/internal/shared/application"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/atlasops/atlas/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// CancelEventCommand cancels a calendar event so it stops occupying time.
type CancelEventCommand struct {
	EventID uuid.UUID
}

// CommandName identifies the command type.
func (c CancelEventCommand) CommandName() string { return "scheduling.cancel_event" }

// CancelEventHandler handles the CancelEventCommand.
type CancelEventHandler struct {
	events    domain.EventRepository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewCancelEventHandler creates a new CancelEventHandler.
func NewCancelEventHandler(
	events domain.EventRepository,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *CancelEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CancelEventHandler{
		events:    events,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the CancelEventCommand. Cancelling an already cancelled
// event is a conflict, not a silent no-op.
func (h *CancelEventHandler) Handle(ctx context.Context, cmd CancelEventCommand) error {
	var event *domain.CalendarEvent

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		found, err := h.events.FindByID(txCtx, cmd.EventID)
		if err != nil {
			return err
		}
		if found == nil {
			return sharedDomain.NotFoundf("event %s", cmd.EventID)
		}

		if err := found.Cancel(); err != nil {
			return sharedDomain.Conflictf("cancel event %s: %v", cmd.EventID, err)
		}

		event = found
		return h.events.Save(txCtx, found)
	})
	if err != nil {
		return err
	}

	if err := eventbus.PublishAll(ctx, h.publisher, event.DomainEvents()); err != nil {
		h.logger.Warn("failed to publish cancellation events",
			"event_id", cmd.EventID.String(),
			"error", err,
		)
	}
	event.ClearDomainEvents()

	return nil
}
