// Package get provides the runner logic for listing visas by urgency.
package get

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"tableflip.dev/visado/pkg/app"
	"tableflip.dev/visado/pkg/printers"
	"tableflip.dev/visado/pkg/visa"
)

// Get lists every visa record with its countdown status, most urgent first.
type Get struct {
	ShowID bool
	JSON   bool

	Service *app.Service
}

func (n *Get) Do(ctx context.Context) error {
	items, err := n.Service.ListVisas(ctx)
	if err != nil {
		return err
	}

	if n.JSON {
		return json.NewEncoder(os.Stdout).Encode(jsonView(items))
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	fmt.Println("")
	pp.Title("Visas")
	pp.Visas(items...)
	return nil
}

type visaView struct {
	ID            string `json:"id"`
	CountryCode   string `json:"countryCode"`
	Label         string `json:"label"`
	EntryDate     string `json:"entryDate"`
	DurationDays  int    `json:"durationDays"`
	Expiry        string `json:"expiry"`
	DaysRemaining int    `json:"daysRemaining"`
	Band          string `json:"band"`
}

func jsonView(items []visa.Statused) []visaView {
	out := make([]visaView, 0, len(items))
	for _, item := range items {
		r, s := item.Record, item.Status
		out = append(out, visaView{
			ID:            r.ID,
			CountryCode:   r.CountryCode,
			Label:         r.Label,
			EntryDate:     r.EntryDate.String(),
			DurationDays:  r.DurationDays,
			Expiry:        s.Expiry.String(),
			DaysRemaining: s.DaysRemaining,
			Band:          s.Band.String(),
		})
	}
	return out
}
