package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/visado/pkg/commands/options"
	"tableflip.dev/visado/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	ao := &options.AddOptions{}
	io := &options.IDOptions{}

	var countryCode string
	var label string

	cmd := &cobra.Command{
		Use:   "add <country-code> <label>",
		Short: "Add a visa and schedule its expiry reminders",
		Example: `
visado add US "Business trip" --entry=2026-01-01 --days=30
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("requires a country code and a label")
			}
			countryCode = args[0]
			label = strings.Join(args[1:], " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			n := add.Add{
				CountryCode:  countryCode,
				Label:        label,
				EntryDate:    ao.EntryDate,
				DurationDays: ao.DurationDays,
				ShowID:       io.ShowID,
				Service:      s,
			}
			return oo.HandleError(n.Do(context.Background()))
		},
	}

	options.AddVisaArgs(cmd, ao)
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
