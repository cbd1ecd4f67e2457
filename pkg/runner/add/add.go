// Package add provides the runner logic for creating a visa record.
package add

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/visado/pkg/app"
	"tableflip.dev/visado/pkg/printers"
	"tableflip.dev/visado/pkg/remind"
	"tableflip.dev/visado/pkg/visa"
)

// Add creates one visa record and schedules its reminders best-effort.
type Add struct {
	CountryCode  string
	Label        string
	EntryDate    string
	DurationDays int

	ShowID  bool
	Service *app.Service
}

// Do executes the add operation and prints the created record plus a
// summary of what got scheduled.
func (n *Add) Do(ctx context.Context) error {
	record, outcomes, err := n.Service.AddVisa(ctx, n.CountryCode, n.Label, n.EntryDate, n.DurationDays)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.Title("Added")
	pp.Visa(visa.Statused{Record: record, Status: visa.Compute(record, time.Now())})

	scheduled := 0
	for _, out := range outcomes {
		if out.State == remind.Scheduled {
			scheduled++
		}
	}
	if len(outcomes) > 0 {
		fmt.Printf("%d of %d reminders scheduled\n", scheduled, len(outcomes))
	}
	return nil
}
