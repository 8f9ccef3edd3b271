package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atlasops/atlas/adapter/cli"
	"github.com/atlasops/atlas/internal/scheduling/application/commands"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	recurAttendees string
	recurStart     string
	recurEnd       string
	recurFreq      string
	recurInterval  int
	recurCount     int
	recurUntil     string
	recurWeekdays  string
	recurMonthDays string
)

var recurCmd = &cobra.Command{
	Use:   "recur [title]",
	Short: "Create a recurring event series",
	Long: `Materialize a recurring series from a template event and a rule.
The rule must be bounded by either --count or --until.

Examples:
  atlas schedule recur "Standup" --attendees a2c... --start "2026-09-01 09:00" --end "2026-09-01 09:15" --freq daily --count 10
  atlas schedule recur "Sprint planning" --attendees a2c... --start "2026-09-01 10:00" --end "2026-09-01 11:00" --freq weekly --weekdays mon,wed --until 2026-12-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateRecurringEventHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		attendees, err := parseAttendees(recurAttendees)
		if err != nil {
			return err
		}
		start, err := parseTimeFlag("start", recurStart)
		if err != nil {
			return err
		}
		end, err := parseTimeFlag("end", recurEnd)
		if err != nil {
			return err
		}

		rule := domain.RecurrenceRule{
			Frequency: domain.Frequency(recurFreq),
			Interval:  recurInterval,
			Count:     recurCount,
		}
		if recurUntil != "" {
			until, err := time.Parse("2006-01-02", recurUntil)
			if err != nil {
				return fmt.Errorf("invalid --until format (use YYYY-MM-DD): %w", err)
			}
			rule.Until = &until
		}
		if recurWeekdays != "" {
			days, err := parseWeekdays(recurWeekdays)
			if err != nil {
				return err
			}
			rule.ByWeekdays = days
		}
		if recurMonthDays != "" {
			days, err := parseMonthDays(recurMonthDays)
			if err != nil {
				return err
			}
			rule.ByMonthDays = days
		}

		result, err := app.CreateRecurringEventHandler.Handle(cmd.Context(), commands.CreateRecurringEventCommand{
			Title:       args[0],
			OrganizerID: app.CurrentUserID,
			AttendeeIDs: attendees,
			StartTime:   start,
			EndTime:     end,
			Rule:        rule,
		})
		if err != nil {
			return fmt.Errorf("failed to create series: %w", err)
		}

		fmt.Printf("Series created: %s\n", result.SeriesID)
		fmt.Printf("  title: %s\n", args[0])
		fmt.Printf("  instances: %d\n", result.InstanceCount)
		return nil
	},
}

func init() {
	recurCmd.Flags().StringVarP(&recurAttendees, "attendees", "a", "", "comma-separated attendee ids")
	recurCmd.Flags().StringVar(&recurStart, "start", "", "first occurrence start (YYYY-MM-DD HH:MM, UTC)")
	recurCmd.Flags().StringVar(&recurEnd, "end", "", "first occurrence end (YYYY-MM-DD HH:MM, UTC)")
	recurCmd.Flags().StringVarP(&recurFreq, "freq", "f", "weekly", "frequency (daily, weekly, monthly, yearly)")
	recurCmd.Flags().IntVar(&recurInterval, "interval", 1, "gap between occurrences in frequency units")
	recurCmd.Flags().IntVar(&recurCount, "count", 0, "number of occurrences (wins over --until)")
	recurCmd.Flags().StringVar(&recurUntil, "until", "", "last occurrence date, inclusive (YYYY-MM-DD)")
	recurCmd.Flags().StringVar(&recurWeekdays, "weekdays", "", "weekday filter, e.g. mon,wed,fri")
	recurCmd.Flags().StringVar(&recurMonthDays, "monthdays", "", "month day filter, e.g. 1,15")
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

func parseWeekdays(value string) ([]time.Weekday, error) {
	parts := strings.Split(value, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q (use sun..sat)", part)
		}
		days = append(days, day)
	}
	return days, nil
}

func parseMonthDays(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	days := make([]int, 0, len(parts))
	for _, part := range parts {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || day < 1 || day > 31 {
			return nil, fmt.Errorf("invalid month day %q (use 1..31)", part)
		}
		days = append(days, day)
	}
	return days, nil
}
