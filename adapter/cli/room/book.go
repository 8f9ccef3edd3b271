package room

import (
	"fmt"

	"github.com/atlasops/atlas/adapter/cli"
	"github.com/atlasops/atlas/internal/scheduling/application/commands"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	bookStart string
	bookEnd   string
)

var bookCmd = &cobra.Command{
	Use:   "book [room-id]",
	Short: "Book a room",
	Long: `Book a room for a time window. The booking fails with a conflict
when any occupying event already holds the room during the window.

Examples:
  atlas room book 3de... --start "2026-09-01 14:00" --end "2026-09-01 15:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.BookRoomHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		roomID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid room id: %w", err)
		}
		start, err := parseTimeFlag("start", bookStart)
		if err != nil {
			return err
		}
		end, err := parseTimeFlag("end", bookEnd)
		if err != nil {
			return err
		}

		result, err := app.BookRoomHandler.Handle(cmd.Context(), commands.BookRoomCommand{
			RoomID:      roomID,
			RequestedBy: app.CurrentUserID,
			StartTime:   start,
			EndTime:     end,
		})
		if err != nil {
			return fmt.Errorf("failed to book room: %w", err)
		}

		fmt.Printf("Room booked: %s\n", result.BookingID)
		fmt.Printf("  window: %s - %s\n", start.Format(timeLayout), end.Format(timeLayout))
		if result.Status == domain.StatusTentative {
			fmt.Println("  status: tentative (room requires approval)")
		} else {
			fmt.Printf("  status: %s\n", result.Status)
		}
		return nil
	},
}

func init() {
	bookCmd.Flags().StringVar(&bookStart, "start", "", "booking start (YYYY-MM-DD HH:MM, UTC)")
	bookCmd.Flags().StringVar(&bookEnd, "end", "", "booking end (YYYY-MM-DD HH:MM, UTC)")
}
