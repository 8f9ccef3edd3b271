package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/application/services"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedApplication "github.com/atlasops/atlas/internal/shared/application"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/atlasops/atlas/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// CreateRecurringEventCommand materializes a recurring series from a
// template occurrence and a recurrence rule.
type CreateRecurringEventCommand struct {
	Title       string
	OrganizerID uuid.UUID
	AttendeeIDs []uuid.UUID
	StartTime   time.Time
	EndTime     time.Time
	Rule        domain.RecurrenceRule
}

// CommandName identifies the command type.
func (c CreateRecurringEventCommand) CommandName() string {
	return "scheduling.create_recurring_event"
}

// CreateRecurringEventResult contains the result of materializing a series.
type CreateRecurringEventResult struct {
	SeriesID      uuid.UUID
	InstanceCount int
}

// CreateRecurringEventHandler handles the CreateRecurringEventCommand.
type CreateRecurringEventHandler struct {
	events       domain.EventRepository
	materializer *services.RecurrenceMaterializer
	uow          sharedApplication.UnitOfWork
	publisher    eventbus.Publisher
	logger       *slog.Logger
}

// NewCreateRecurringEventHandler creates a new CreateRecurringEventHandler.
func NewCreateRecurringEventHandler(
	events domain.EventRepository,
	materializer *services.RecurrenceMaterializer,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *CreateRecurringEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateRecurringEventHandler{
		events:       events,
		materializer: materializer,
		uow:          uow,
		publisher:    publisher,
		logger:       logger,
	}
}

// Handle executes the CreateRecurringEventCommand. The whole series is
// persisted in one unit of work: either every instance lands or none do.
func (h *CreateRecurringEventHandler) Handle(ctx context.Context, cmd CreateRecurringEventCommand) (*CreateRecurringEventResult, error) {
	interval, err := domain.NewInterval(cmd.StartTime, cmd.EndTime)
	if err != nil {
		return nil, err
	}

	organizer := sharedDomain.NewSubjectID(cmd.OrganizerID)
	attendees := make([]sharedDomain.SubjectID, 0, len(cmd.AttendeeIDs))
	for _, id := range cmd.AttendeeIDs {
		attendees = append(attendees, sharedDomain.NewSubjectID(id))
	}

	template, err := domain.NewCalendarEvent(cmd.Title, organizer, attendees, nil, interval, domain.StatusConfirmed)
	if err != nil {
		return nil, err
	}

	instances, err := h.materializer.Materialize(template, cmd.Rule)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, sharedDomain.InvalidRequestf("recurrence rule produces no occurrences")
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.events.SaveAll(txCtx, instances)
	})
	if err != nil {
		return nil, err
	}

	seriesID := *instances[0].SeriesID()
	event := domain.NewSeriesMaterialized(seriesID, len(instances))
	if err := eventbus.PublishDomainEvent(ctx, h.publisher, event); err != nil {
		h.logger.Warn("failed to publish series event",
			"series_id", seriesID.String(),
			"error", err,
		)
	}

	return &CreateRecurringEventResult{
		SeriesID:      seriesID,
		InstanceCount: len(instances),
	}, nil
}
