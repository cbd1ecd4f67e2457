package options

import (
	"github.com/spf13/cobra"
)

// AddOptions
type AddOptions struct {
	EntryDate    string
	DurationDays int
}

func AddVisaArgs(cmd *cobra.Command, o *AddOptions) {
	cmd.Flags().StringVar(&o.EntryDate, "entry", "",
		`Entry date of the visa validity window, example: --entry="2026-01-01".`)
	cmd.Flags().IntVar(&o.DurationDays, "days", 0,
		"Validity duration in days (1-365).")
	_ = cmd.MarkFlagRequired("entry")
	_ = cmd.MarkFlagRequired("days")
}
