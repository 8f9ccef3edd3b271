package room

import (
	"fmt"

	"github.com/atlasops/atlas/adapter/cli"
	"github.com/atlasops/atlas/internal/scheduling/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	bookingsFrom string
	bookingsTo   string
)

var bookingsCmd = &cobra.Command{
	Use:   "bookings [room-id]",
	Short: "List a room's bookings",
	Long: `List the occupying events on a room within a time range.

Examples:
  atlas room bookings 3de... --from "2026-09-01 00:00" --to "2026-09-08 00:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListRoomBookingsHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		roomID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid room id: %w", err)
		}
		from, err := parseTimeFlag("from", bookingsFrom)
		if err != nil {
			return err
		}
		to, err := parseTimeFlag("to", bookingsTo)
		if err != nil {
			return err
		}

		bookings, err := app.ListRoomBookingsHandler.Handle(cmd.Context(), queries.ListRoomBookingsQuery{
			RoomID:     roomID,
			RangeStart: from,
			RangeEnd:   to,
		})
		if err != nil {
			return fmt.Errorf("failed to list bookings: %w", err)
		}

		if len(bookings) == 0 {
			fmt.Println("No bookings in range.")
			return nil
		}

		fmt.Printf("Found %d booking(s):\n", len(bookings))
		for _, booking := range bookings {
			fmt.Printf("  %s - %s  %s  [%s]  %s\n",
				booking.Interval().Start.Format(timeLayout),
				booking.Interval().End.Format("15:04"),
				booking.Title(),
				booking.Status(),
				booking.ID(),
			)
		}
		return nil
	},
}

func init() {
	bookingsCmd.Flags().StringVar(&bookingsFrom, "from", "", "range start (YYYY-MM-DD HH:MM, UTC)")
	bookingsCmd.Flags().StringVar(&bookingsTo, "to", "", "range end (YYYY-MM-DD HH:MM, UTC)")
}
