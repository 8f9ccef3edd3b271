// Package schedule provides the meeting scheduling commands.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the schedule command group
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule and manage meetings",
	Long:  `Schedule meetings, create recurring series, find common slots, and cancel events.`,
}

func init() {
	Cmd.AddCommand(meetingCmd)
	Cmd.AddCommand(recurCmd)
	Cmd.AddCommand(slotsCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(cancelCmd)
}

// timeLayout is the wire format for start and end flags. All CLI times
// are interpreted as UTC.
const timeLayout = "2006-01-02 15:04"

func parseTimeFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("--%s is required", name)
	}
	parsed, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s format (use \"YYYY-MM-DD HH:MM\"): %w", name, err)
	}
	return parsed, nil
}

func parseAttendees(value string) ([]uuid.UUID, error) {
	if value == "" {
		return nil, fmt.Errorf("--attendees is required")
	}
	parts := strings.Split(value, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid attendee id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
