package schedule

import (
	"fmt"

	"github.com/atlasops/atlas/adapter/cli"
	"github.com/atlasops/atlas/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var (
	meetingAttendees string
	meetingStart     string
	meetingEnd       string
	meetingTentative bool
)

var meetingCmd = &cobra.Command{
	Use:   "meeting [title]",
	Short: "Schedule a meeting",
	Long: `Schedule a meeting with a title, attendees, and a time window.

Examples:
  atlas schedule meeting "Design review" --attendees 8f1...,a2c... --start "2026-09-01 10:00" --end "2026-09-01 11:00"
  atlas schedule meeting "1:1" --attendees a2c... --start "2026-09-01 14:00" --end "2026-09-01 14:30" --tentative`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ScheduleMeetingHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		attendees, err := parseAttendees(meetingAttendees)
		if err != nil {
			return err
		}
		start, err := parseTimeFlag("start", meetingStart)
		if err != nil {
			return err
		}
		end, err := parseTimeFlag("end", meetingEnd)
		if err != nil {
			return err
		}

		result, err := app.ScheduleMeetingHandler.Handle(cmd.Context(), commands.ScheduleMeetingCommand{
			Title:       args[0],
			OrganizerID: app.CurrentUserID,
			AttendeeIDs: attendees,
			StartTime:   start,
			EndTime:     end,
			Tentative:   meetingTentative,
		})
		if err != nil {
			return fmt.Errorf("failed to schedule meeting: %w", err)
		}

		fmt.Printf("Meeting scheduled: %s\n", result.EventID)
		fmt.Printf("  title: %s\n", args[0])
		fmt.Printf("  window: %s - %s\n", start.Format(timeLayout), end.Format(timeLayout))
		fmt.Printf("  attendees: %d\n", len(attendees))
		return nil
	},
}

func init() {
	meetingCmd.Flags().StringVarP(&meetingAttendees, "attendees", "a", "", "comma-separated attendee ids")
	meetingCmd.Flags().StringVar(&meetingStart, "start", "", "start time (YYYY-MM-DD HH:MM, UTC)")
	meetingCmd.Flags().StringVar(&meetingEnd, "end", "", "end time (YYYY-MM-DD HH:MM, UTC)")
	meetingCmd.Flags().BoolVar(&meetingTentative, "tentative", false, "mark the meeting tentative")
}
