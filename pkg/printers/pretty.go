package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/visado/pkg/visa"
)

type PrettyPrint struct {
	ShowID bool
}

var (
	spacing = strings.Repeat(" ", len("171dff69f8b99dca  "))
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

// Visas renders the urgency-sorted list as a table, one row per record,
// with the band badge colored.
func (pp *PrettyPrint) Visas(items ...visa.Statused) {
	if len(items) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" none\n\n")
		return
	}

	bold := color.New(color.Bold).SprintFunc()
	tbl := uitable.New()
	tbl.Separator = "  "
	if pp.ShowID {
		tbl.AddRow(bold("ID"), bold("Visa"), bold("Entry"), bold("Expiry"), bold("Remaining"), bold("Status"))
	} else {
		tbl.AddRow(bold("Visa"), bold("Entry"), bold("Expiry"), bold("Remaining"), bold("Status"))
	}
	for _, item := range items {
		r, s := item.Record, item.Status
		name := fmt.Sprintf("%s %s", r.CountryCode, r.Label)
		row := []interface{}{name, r.EntryDate.String(), s.Expiry.String(), remaining(s.DaysRemaining), BandBadge(s.Band)}
		if pp.ShowID {
			row = append([]interface{}{faint(r.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Visa renders a single record, used after add.
func (pp *PrettyPrint) Visa(item visa.Statused) {
	r, s := item.Record, item.Status
	if pp.ShowID {
		_, _ = color.New(color.FgHiYellow, color.Italic, color.Faint).Print(r.ID)
		_, _ = fmt.Print(strings.Repeat(" ", max(1, len(spacing)-len(r.ID))))
	}
	fmt.Printf("%s %s  %s → %s  %s %s\n",
		r.CountryCode, r.Label, r.EntryDate, s.Expiry, remaining(s.DaysRemaining), BandBadge(s.Band))
}

// BandBadge colors the band name: expired and urgent red, warning yellow,
// safe green.
func BandBadge(b visa.Band) string {
	switch b {
	case visa.Expired:
		return color.New(color.FgRed, color.Bold).Sprint(b.String())
	case visa.Urgent:
		return color.New(color.FgHiRed).Sprint(b.String())
	case visa.Warning:
		return color.New(color.FgYellow).Sprint(b.String())
	default:
		return color.New(color.FgGreen).Sprint(b.String())
	}
}

func remaining(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%d days ago", -days)
	case days == 0:
		return "today"
	case days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

func faint(s string) string {
	return color.New(color.Faint).Sprint(s)
}
