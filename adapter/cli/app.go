package cli

import (
	"github.com/atlasops/atlas/internal/scheduling/application/commands"
	"github.com/atlasops/atlas/internal/scheduling/application/queries"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Command Handlers
	ScheduleMeetingHandler       *commands.ScheduleMeetingHandler
	CancelEventHandler           *commands.CancelEventHandler
	BookRoomHandler              *commands.BookRoomHandler
	SetWeeklyAvailabilityHandler *commands.SetWeeklyAvailabilityHandler
	CreateRecurringEventHandler  *commands.CreateRecurringEventHandler

	// Query Handlers
	FindAvailableSlotsHandler     *queries.FindAvailableSlotsHandler
	GetSubjectAvailabilityHandler *queries.GetSubjectAvailabilityHandler
	GetEventHandler               *queries.GetEventHandler
	ListRoomBookingsHandler       *queries.ListRoomBookingsHandler

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application with all handlers.
func NewApp(
	scheduleMeetingHandler *commands.ScheduleMeetingHandler,
	cancelEventHandler *commands.CancelEventHandler,
	bookRoomHandler *commands.BookRoomHandler,
	setWeeklyAvailabilityHandler *commands.SetWeeklyAvailabilityHandler,
	createRecurringEventHandler *commands.CreateRecurringEventHandler,
	findAvailableSlotsHandler *queries.FindAvailableSlotsHandler,
	getSubjectAvailabilityHandler *queries.GetSubjectAvailabilityHandler,
	getEventHandler *queries.GetEventHandler,
	listRoomBookingsHandler *queries.ListRoomBookingsHandler,
	currentUserID uuid.UUID,
) *App {
	return &App{
		ScheduleMeetingHandler:        scheduleMeetingHandler,
		CancelEventHandler:            cancelEventHandler,
		BookRoomHandler:               bookRoomHandler,
		SetWeeklyAvailabilityHandler:  setWeeklyAvailabilityHandler,
		CreateRecurringEventHandler:   createRecurringEventHandler,
		FindAvailableSlotsHandler:     findAvailableSlotsHandler,
		GetSubjectAvailabilityHandler: getSubjectAvailabilityHandler,
		GetEventHandler:               getEventHandler,
		ListRoomBookingsHandler:       listRoomBookingsHandler,
		CurrentUserID:                 currentUserID,
	}
}

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
