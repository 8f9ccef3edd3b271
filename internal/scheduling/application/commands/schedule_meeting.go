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

// ScheduleMeetingCommand contains the data needed to put a meeting on
// every attendee's calendar.
type ScheduleMeetingCommand struct {
	Title       string
	OrganizerID uuid.UUID
	AttendeeIDs []uuid.UUID
	StartTime   time.Time
	EndTime     time.Time
	Tentative   bool
}

// CommandName identifies the command type.
func (c ScheduleMeetingCommand) CommandName() string { return "scheduling.schedule_meeting" }

// ScheduleMeetingResult contains the result of scheduling a meeting.
type ScheduleMeetingResult struct {
	EventID uuid.UUID
}

// ScheduleMeetingHandler handles the ScheduleMeetingCommand.
type ScheduleMeetingHandler struct {
	events    domain.EventRepository
	index     *services.ConflictIndex
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewScheduleMeetingHandler creates a new ScheduleMeetingHandler.
func NewScheduleMeetingHandler(
	events domain.EventRepository,
	index *services.ConflictIndex,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *ScheduleMeetingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleMeetingHandler{
		events:    events,
		index:     index,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the ScheduleMeetingCommand. Every attendee's calendar is
// checked before the write; any occupying event on any attendee rejects
// the meeting with a conflict.
func (h *ScheduleMeetingHandler) Handle(ctx context.Context, cmd ScheduleMeetingCommand) (*ScheduleMeetingResult, error) {
	interval, err := domain.NewInterval(cmd.StartTime, cmd.EndTime)
	if err != nil {
		return nil, err
	}

	organizer := sharedDomain.NewSubjectID(cmd.OrganizerID)
	attendees := make([]sharedDomain.SubjectID, 0, len(cmd.AttendeeIDs))
	for _, id := range cmd.AttendeeIDs {
		attendees = append(attendees, sharedDomain.NewSubjectID(id))
	}

	status := domain.StatusConfirmed
	if cmd.Tentative {
		status = domain.StatusTentative
	}

	meeting, err := domain.NewCalendarEvent(cmd.Title, organizer, attendees, nil, interval, status)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		for _, attendee := range attendees {
			occupying, err := h.index.Occupying(txCtx, attendee, interval)
			if err != nil {
				return err
			}
			if len(occupying) > 0 {
				return sharedDomain.Conflictf("attendee %s is busy during %s", attendee, interval)
			}
		}
		return h.events.Save(txCtx, meeting)
	})
	if err != nil {
		return nil, err
	}

	event := domain.NewMeetingScheduled(meeting)
	if err := eventbus.PublishDomainEvent(ctx, h.publisher, event); err != nil {
		h.logger.Warn("failed to publish meeting event",
			"event_id", meeting.ID().String(),
			"error", err,
		)
	}

	return &ScheduleMeetingResult{EventID: meeting.ID()}, nil
}
