// Package room provides the room booking commands.
package room

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// Cmd is the room command group
var Cmd = &cobra.Command{
	Use:   "room",
	Short: "Book rooms and inspect bookings",
	Long:  `Book meeting rooms and list the bookings occupying them.`,
}

func init() {
	Cmd.AddCommand(bookCmd)
	Cmd.AddCommand(bookingsCmd)
}

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
