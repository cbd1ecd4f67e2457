package visa

import (
	"sort"
	"time"

	"tableflip.dev/visado/pkg/calendar"
)

// Band classifies remaining time until expiry.
type Band int

const (
	Expired Band = iota
	Urgent
	Warning
	Safe
)

func (b Band) String() string {
	switch b {
	case Expired:
		return "expired"
	case Urgent:
		return "urgent"
	case Warning:
		return "warning"
	case Safe:
		return "safe"
	}
	return "unknown"
}

// Status is derived from a record and a moment; it is recomputed on every
// read and never persisted, so it cannot go stale.
type Status struct {
	Expiry        calendar.Date
	DaysRemaining int
	Band          Band
}

// Compute classifies the record at now. Thresholds, inclusive, in order:
// <0 expired, 0-6 urgent, 7-14 warning, >14 safe.
func Compute(r *Record, now time.Time) Status {
	expiry := r.Expiry()
	days := calendar.DaysBetween(calendar.Today(now), expiry)
	s := Status{Expiry: expiry, DaysRemaining: days}
	switch {
	case days < 0:
		s.Band = Expired
	case days <= 6:
		s.Band = Urgent
	case days <= 14:
		s.Band = Warning
	default:
		s.Band = Safe
	}
	return s
}

// Statused pairs a record with its computed status for list views.
type Statused struct {
	Record *Record
	Status Status
}

// ComputeAll derives statuses for every record at now, in input order.
func ComputeAll(records []*Record, now time.Time) []Statused {
	out := make([]Statused, 0, len(records))
	for _, r := range records {
		out = append(out, Statused{Record: r, Status: Compute(r, now)})
	}
	return out
}

// SortByUrgency orders most urgent first: band rank ascending, then
// DaysRemaining ascending. The sort is stable so equal entries keep their
// input order.
func SortByUrgency(items []Statused) {
	sort.SliceStable(items, func(i, j int) bool {
		left, right := items[i].Status, items[j].Status
		if left.Band != right.Band {
			return left.Band < right.Band
		}
		return left.DaysRemaining < right.DaysRemaining
	})
}
