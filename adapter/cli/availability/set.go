package availability

import (
	"fmt"

	"github.com/atlasops/atlas/adapter/cli"
	"github.com/atlasops/atlas/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	setWeekday string
	setFrom    string
	setTo      string
	setOff     bool
)

var setCmd = &cobra.Command{
	Use:   "set [user-id]",
	Short: "Set a weekly availability window",
	Long: `Set the availability window for one weekday. Each user holds at
most one window per weekday; setting it again replaces the window.

Examples:
  atlas availability set 8f1... --weekday mon --from 09:00 --to 17:00
  atlas availability set 8f1... --weekday fri --off`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SetWeeklyAvailabilityHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		userID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		weekday, err := parseWeekday(setWeekday)
		if err != nil {
			return err
		}
		from, err := parseClock("from", setFrom)
		if err != nil {
			return err
		}
		to, err := parseClock("to", setTo)
		if err != nil {
			return err
		}

		result, err := app.SetWeeklyAvailabilityHandler.Handle(cmd.Context(), commands.SetWeeklyAvailabilityCommand{
			UserID:      userID,
			Weekday:     weekday,
			WindowStart: from,
			WindowEnd:   to,
			Available:   !setOff,
		})
		if err != nil {
			return fmt.Errorf("failed to set availability: %w", err)
		}

		state := "available"
		if setOff {
			state = "unavailable"
		}
		fmt.Printf("Availability set: %s\n", result.RecordID)
		fmt.Printf("  user: %s\n", userID)
		fmt.Printf("  window: %s %s-%s (%s)\n", setWeekday, setFrom, setTo, state)
		return nil
	},
}

func init() {
	setCmd.Flags().StringVarP(&setWeekday, "weekday", "w", "", "weekday (sun..sat)")
	setCmd.Flags().StringVar(&setFrom, "from", "09:00", "window start (HH:MM)")
	setCmd.Flags().StringVar(&setTo, "to", "17:00", "window end (HH:MM)")
	setCmd.Flags().BoolVar(&setOff, "off", false, "mark the weekday unavailable")
}
