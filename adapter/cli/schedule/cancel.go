package schedule

import (
	"fmt"

	"github.com/atlasops/atlas/adapter/cli"
	"github.com/atlasops/atlas/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel [event-id]",
	Short: "Cancel an event",
	Long:  `Cancel an event. Cancelled events release their time and their room.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CancelEventHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		eventID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id: %w", err)
		}

		if err := app.CancelEventHandler.Handle(cmd.Context(), commands.CancelEventCommand{EventID: eventID}); err != nil {
			return fmt.Errorf("failed to cancel event: %w", err)
		}

		fmt.Printf("Event cancelled: %s\n", eventID)
		return nil
	},
}
