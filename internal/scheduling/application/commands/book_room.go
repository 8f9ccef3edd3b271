package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/application/services"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"github.com/atlasops/atlas/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// BookRoomCommand contains the data needed to reserve a room.
type BookRoomCommand struct {
	RoomID      uuid.UUID
	RequestedBy uuid.UUID
	StartTime   time.Time
	EndTime     time.Time
}

// CommandName identifies the command type.
func (c BookRoomCommand) CommandName() string { return "scheduling.book_room" }

// BookRoomResult contains the result of a room booking.
type BookRoomResult struct {
	BookingID uuid.UUID
	Status    domain.EventStatus
}

// BookRoomHandler handles the BookRoomCommand.
type BookRoomHandler struct {
	arbiter   *services.RoomBookingArbiter
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewBookRoomHandler creates a new BookRoomHandler.
func NewBookRoomHandler(arbiter *services.RoomBookingArbiter, publisher eventbus.Publisher, logger *slog.Logger) *BookRoomHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookRoomHandler{
		arbiter:   arbiter,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the BookRoomCommand. The arbiter serializes the
// check-then-reserve sequence; this handler only shapes the request and
// publishes the resulting events.
func (h *BookRoomHandler) Handle(ctx context.Context, cmd BookRoomCommand) (*BookRoomResult, error) {
	interval, err := domain.NewInterval(cmd.StartTime, cmd.EndTime)
	if err != nil {
		return nil, err
	}

	booking, err := h.arbiter.Book(ctx,
		sharedDomain.NewSubjectID(cmd.RoomID),
		interval,
		sharedDomain.NewSubjectID(cmd.RequestedBy),
	)
	if err != nil {
		return nil, err
	}

	// The reservation has committed; delivery failures must not fail
	// the command.
	if err := eventbus.PublishAll(ctx, h.publisher, booking.DomainEvents()); err != nil {
		h.logger.Warn("failed to publish booking events",
			"booking_id", booking.ID().String(),
			"error", err,
		)
	}
	booking.ClearDomainEvents()

	return &BookRoomResult{
		BookingID: booking.ID(),
		Status:    booking.Status(),
	}, nil
}
