package schedule

import (
	"fmt"

	"github.com/atlasops/atlas/adapter/cli"
	"github.com/atlasops/atlas/internal/scheduling/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [event-id]",
	Short: "Show an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetEventHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		eventID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id: %w", err)
		}

		event, err := app.GetEventHandler.Handle(cmd.Context(), queries.GetEventQuery{EventID: eventID})
		if err != nil {
			return fmt.Errorf("failed to load event: %w", err)
		}

		fmt.Printf("Event: %s\n", event.ID())
		fmt.Printf("  title: %s\n", event.Title())
		fmt.Printf("  status: %s\n", event.Status())
		fmt.Printf("  window: %s - %s\n",
			event.Interval().Start.Format(timeLayout),
			event.Interval().End.Format(timeLayout),
		)
		fmt.Printf("  organizer: %s\n", event.Organizer())
		for _, attendee := range event.Attendees() {
			fmt.Printf("  attendee: %s\n", attendee)
		}
		if room := event.RoomID(); room != nil {
			fmt.Printf("  room: %s\n", room)
		}
		if series := event.SeriesID(); series != nil {
			fmt.Printf("  series: %s\n", series)
		}
		return nil
	},
}
