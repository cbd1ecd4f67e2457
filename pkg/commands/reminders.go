package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/visado/pkg/runner/reminders"
)

func addReminders(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Show or change reminder settings",
		Long: "Show or change the reminder configuration used for newly added visas. " +
			"Changing settings never reschedules reminders that are already live.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			n := reminders.Show{Service: s}
			return oo.HandleError(n.Do(context.Background()))
		},
	}

	cmd.AddCommand(remindersToggle(true), remindersToggle(false), remindersTime(), remindersOffsets())
	topLevel.AddCommand(cmd)
}

func remindersToggle(enabled bool) *cobra.Command {
	use := "off"
	short := "Stop scheduling reminders for new visas"
	if enabled {
		use = "on"
		short = "Schedule reminders for new visas"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			n := reminders.Enable{Enabled: enabled, Service: s}
			return oo.HandleError(n.Do(context.Background()))
		},
	}
}

func remindersTime() *cobra.Command {
	var hour, minute int
	return &cobra.Command{
		Use:   "time HH:MM",
		Short: "Set the local delivery time for new reminders",
		Example: `
visado reminders time 09:00
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a HH:MM time")
			}
			var err error
			hour, minute, err = parseHHMM(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			n := reminders.SetTime{Hour: hour, Minute: minute, Service: s}
			return oo.HandleError(n.Do(context.Background()))
		},
	}
}

func remindersOffsets() *cobra.Command {
	var offsets []int
	return &cobra.Command{
		Use:   "offsets <days,days,...>",
		Short: "Set how many days before expiry reminders fire",
		Example: `
visado reminders offsets 14,7,3,0
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a comma-separated list of day offsets")
			}
			var err error
			offsets, err = parseOffsets(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			n := reminders.SetOffsets{Offsets: offsets, Service: s}
			return oo.HandleError(n.Do(context.Background()))
		},
	}
}

func parseHHMM(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, errors.New("expected HH:MM")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour %q", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute %q", parts[1])
	}
	return hour, minute, nil
}

func parseOffsets(s string) ([]int, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	offsets := make([]int, 0, len(parts))
	for _, part := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid offset %q", part)
		}
		offsets = append(offsets, d)
	}
	return offsets, nil
}
