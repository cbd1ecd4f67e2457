package remind

import (
	"fmt"
	"time"

	"tableflip.dev/visado/pkg/visa"
)

// Title is the notification title used for every reminder.
const Title = "Visa reminder"

// Reminder is one planned future notification: an absolute local fire
// instant plus its message. Reminders are consumed immediately by the
// orchestrator and never persisted on their own.
type Reminder struct {
	FireAt     time.Time
	Title      string
	Body       string
	OffsetDays int
}

// Plan maps a record and configuration to the ordered list of future
// reminders. The expiry day is computed in UTC calendar space; the
// configured hour:minute is then attached in loc, the single place the
// system crosses from calendar dates to local instants. Instants at or
// before now are silently dropped. Plan ignores settings.Enabled: that is
// an orchestration switch, and keeping it out of here keeps the planner
// pure.
func Plan(r *visa.Record, settings Settings, now time.Time, loc *time.Location) []Reminder {
	if loc == nil {
		loc = time.Local
	}
	expiry := r.Expiry()
	out := make([]Reminder, 0, len(settings.OffsetsDays))
	for _, d := range settings.OffsetsDays {
		fireAt := expiry.AddDays(-d).At(settings.Hour, settings.Minute, loc)
		if !fireAt.After(now) {
			continue
		}
		out = append(out, Reminder{
			FireAt:     fireAt,
			Title:      Title,
			Body:       body(r.CountryCode, d),
			OffsetDays: d,
		})
	}
	return out
}

func body(countryCode string, offsetDays int) string {
	switch offsetDays {
	case 0:
		return fmt.Sprintf("%s visa expires today", countryCode)
	case 1:
		return fmt.Sprintf("%s visa expires in 1 day", countryCode)
	default:
		return fmt.Sprintf("%s visa expires in %d days", countryCode, offsetDays)
	}
}
