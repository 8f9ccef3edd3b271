package availability

import (
	"fmt"
	"time"

	"github.com/atlasops/atlas/adapter/cli"
	"github.com/atlasops/atlas/internal/scheduling/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var showDate string

var showCmd = &cobra.Command{
	Use:   "show [subject-id]",
	Short: "Show a day's slot grid for a subject",
	Long: `Show the slot grid for one day: which slots are free and which are
occupied, and by what. Works for users and rooms alike.

Examples:
  atlas availability show 8f1... --date 2026-09-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetSubjectAvailabilityHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		subjectID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid subject id: %w", err)
		}

		date := time.Now().UTC()
		if showDate != "" {
			date, err = time.Parse("2006-01-02", showDate)
			if err != nil {
				return fmt.Errorf("invalid --date format (use YYYY-MM-DD): %w", err)
			}
		}

		slots, err := app.GetSubjectAvailabilityHandler.Handle(cmd.Context(), queries.GetSubjectAvailabilityQuery{
			SubjectID: subjectID,
			Date:      date,
		})
		if err != nil {
			return fmt.Errorf("failed to load availability: %w", err)
		}

		if len(slots) == 0 {
			fmt.Printf("No availability on %s.\n", date.Format("2006-01-02"))
			return nil
		}

		fmt.Printf("Availability for %s on %s:\n", subjectID, date.Format("2006-01-02"))
		for _, slot := range slots {
			state := "free"
			if !slot.Available {
				state = "busy"
				if slot.OccupyingEventID != nil {
					state = fmt.Sprintf("busy (%s)", slot.OccupyingEventID)
				}
			}
			fmt.Printf("  %s - %s  %s\n",
				slot.Interval.Start.Format("15:04"),
				slot.Interval.End.Format("15:04"),
				state,
			)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showDate, "date", "", "day to inspect (YYYY-MM-DD, defaults to today)")
}
