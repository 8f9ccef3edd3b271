package schedule

import (
	"fmt"

	"github.com/atlasops/atlas/adapter/cli"
	"github.com/atlasops/atlas/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var (
	slotsAttendees string
	slotsDuration  int
	slotsFrom      string
	slotsTo        string
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Find common meeting windows",
	Long: `Find and rank time windows where every attendee is free.

Examples:
  atlas schedule slots --attendees 8f1...,a2c... --duration 30 --from "2026-09-01 00:00" --to "2026-09-05 00:00"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.FindAvailableSlotsHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		attendees, err := parseAttendees(slotsAttendees)
		if err != nil {
			return err
		}
		from, err := parseTimeFlag("from", slotsFrom)
		if err != nil {
			return err
		}
		to, err := parseTimeFlag("to", slotsTo)
		if err != nil {
			return err
		}

		suggestions, err := app.FindAvailableSlotsHandler.Handle(cmd.Context(), queries.FindAvailableSlotsQuery{
			AttendeeIDs:     attendees,
			DurationMinutes: slotsDuration,
			RangeStart:      from,
			RangeEnd:        to,
		})
		if err != nil {
			return fmt.Errorf("failed to find slots: %w", err)
		}

		if len(suggestions) == 0 {
			fmt.Println("No common windows found.")
			return nil
		}

		fmt.Printf("Found %d window(s):\n", len(suggestions))
		for i, s := range suggestions {
			fmt.Printf("  %2d. %s - %s  score=%d  attendees=%d/%d\n",
				i+1,
				s.Interval.Start.Format(timeLayout),
				s.Interval.End.Format("15:04"),
				s.Score,
				s.AvailableAttendees,
				s.TotalAttendees,
			)
		}
		return nil
	},
}

func init() {
	slotsCmd.Flags().StringVarP(&slotsAttendees, "attendees", "a", "", "comma-separated attendee ids")
	slotsCmd.Flags().IntVarP(&slotsDuration, "duration", "d", 30, "meeting duration in minutes")
	slotsCmd.Flags().StringVar(&slotsFrom, "from", "", "search range start (YYYY-MM-DD HH:MM, UTC)")
	slotsCmd.Flags().StringVar(&slotsTo, "to", "", "search range end (YYYY-MM-DD HH:MM, UTC)")
}
