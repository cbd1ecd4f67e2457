// Package reminders provides runner logic for the reminder settings
// commands. Changes apply to records created afterwards; already scheduled
// reminders are never re-planned.
package reminders

import (
	"context"
	"fmt"
	"strings"

	"tableflip.dev/visado/pkg/app"
)

// Show prints the current sanitized settings.
type Show struct {
	Service *app.Service
}

func (n *Show) Do(ctx context.Context) error {
	settings, err := n.Service.Settings(ctx)
	if err != nil {
		return err
	}
	state := "off"
	if settings.Enabled {
		state = "on"
	}
	offsets := make([]string, len(settings.OffsetsDays))
	for i, d := range settings.OffsetsDays {
		offsets[i] = fmt.Sprint(d)
	}
	fmt.Printf("reminders: %s\n", state)
	fmt.Printf("time:      %02d:%02d\n", settings.Hour, settings.Minute)
	fmt.Printf("offsets:   %s days before expiry\n", strings.Join(offsets, ", "))
	return nil
}

// Enable flips the global reminders switch for new records.
type Enable struct {
	Enabled bool
	Service *app.Service
}

func (n *Enable) Do(ctx context.Context) error {
	if err := n.Service.SetRemindersEnabled(ctx, n.Enabled); err != nil {
		return err
	}
	if n.Enabled {
		fmt.Println("reminders on")
	} else {
		fmt.Println("reminders off")
	}
	return nil
}

// SetTime sets the local wall-clock delivery time for future plans.
type SetTime struct {
	Hour    int
	Minute  int
	Service *app.Service
}

func (n *SetTime) Do(ctx context.Context) error {
	if err := n.Service.SetReminderTime(ctx, n.Hour, n.Minute); err != nil {
		return err
	}
	fmt.Printf("reminder time set to %02d:%02d\n", n.Hour, n.Minute)
	return nil
}

// SetOffsets sets the days-before-expiry ladder for future plans.
type SetOffsets struct {
	Offsets []int
	Service *app.Service
}

func (n *SetOffsets) Do(ctx context.Context) error {
	if err := n.Service.SetOffsets(ctx, n.Offsets); err != nil {
		return err
	}
	fmt.Printf("reminder offsets set to %v\n", n.Offsets)
	return nil
}
