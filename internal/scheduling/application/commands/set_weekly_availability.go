package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedApplication "github.com/atlasops/atlas/internal/shared/application"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/atlasops/atlas/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// SetWeeklyAvailabilityCommand declares a user's working window for one
// weekday. Window offsets are measured from local midnight.
type SetWeeklyAvailabilityCommand struct {
	UserID      uuid.UUID
	Weekday     time.Weekday
	WindowStart time.Duration
	WindowEnd   time.Duration
	Available   bool
}

// CommandName identifies the command type.
func (c SetWeeklyAvailabilityCommand) CommandName() string {
	return "scheduling.set_weekly_availability"
}

// SetWeeklyAvailabilityResult contains the result of setting availability.
type SetWeeklyAvailabilityResult struct {
	RecordID uuid.UUID
}

// SetWeeklyAvailabilityHandler handles the SetWeeklyAvailabilityCommand.
type SetWeeklyAvailabilityHandler struct {
	availability domain.AvailabilityRepository
	uow          sharedApplication.UnitOfWork
	publisher    eventbus.Publisher
	logger       *slog.Logger
}

// NewSetWeeklyAvailabilityHandler creates a new SetWeeklyAvailabilityHandler.
func NewSetWeeklyAvailabilityHandler(
	availability domain.AvailabilityRepository,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *SetWeeklyAvailabilityHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SetWeeklyAvailabilityHandler{
		availability: availability,
		uow:          uow,
		publisher:    publisher,
		logger:       logger,
	}
}

// Handle executes the SetWeeklyAvailabilityCommand. The record for the
// (user, weekday) pair is created on first use and updated afterwards,
// preserving the single-record invariant.
func (h *SetWeeklyAvailabilityHandler) Handle(ctx context.Context, cmd SetWeeklyAvailabilityCommand) (*SetWeeklyAvailabilityResult, error) {
	userID := sharedDomain.NewSubjectID(cmd.UserID)

	var record *domain.WeeklyAvailability

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		existing, err := h.availability.FindByUserAndWeekday(txCtx, userID, cmd.Weekday)
		if err != nil {
			return err
		}

		if existing == nil {
			record, err = domain.NewWeeklyAvailability(userID, cmd.Weekday, cmd.WindowStart, cmd.WindowEnd, cmd.Available)
			if err != nil {
				return err
			}
		} else {
			record = existing
			if err := record.SetWindow(cmd.WindowStart, cmd.WindowEnd); err != nil {
				return err
			}
			record.SetAvailable(cmd.Available)
		}

		return h.availability.Save(txCtx, record)
	})
	if err != nil {
		return nil, err
	}

	event := domain.NewAvailabilitySet(record)
	if err := eventbus.PublishDomainEvent(ctx, h.publisher, event); err != nil {
		h.logger.Warn("failed to publish availability event",
			"user_id", cmd.UserID.String(),
			"error", err,
		)
	}

	return &SetWeeklyAvailabilityResult{RecordID: record.ID()}, nil
}
