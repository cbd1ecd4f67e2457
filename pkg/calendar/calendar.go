// Package calendar provides date-only values and day-level arithmetic.
//
// All arithmetic is anchored at UTC midnight so results never depend on the
// device timezone or DST transitions. The only place a Date becomes a local
// instant is Date.At.
package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const layoutISO = "2006-01-02"

// ErrInvalidDate reports a string that is not a strict YYYY-MM-DD calendar date.
var ErrInvalidDate = errors.New("calendar: invalid date")

// Date is a year/month/day triple with no time-of-day and no timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a strict YYYY-MM-DD string. Components that do not
// round-trip to the same calendar date (for example 2023-02-30, which
// time.Parse would roll over) are rejected rather than normalized.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(layoutISO, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	d := Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	if d.String() != s {
		return Date{}, fmt.Errorf("%w: %q does not round-trip", ErrInvalidDate, s)
	}
	return d, nil
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) Date {
	return Date{Year: now.Year(), Month: now.Month(), Day: now.Day()}
}

// UTC returns the date as midnight UTC.
func (d Date) UTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays adds n whole days (n may be negative) in UTC calendar space.
func (d Date) AddDays(n int) Date {
	t := d.UTC().AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// At attaches a local wall-clock time-of-day to the date in loc. This is the
// single calendar-date to absolute-instant conversion point: the day is
// timezone independent, the delivery moment is local.
func (d Date) At(hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, loc)
}

// DaysBetween returns the signed whole-day difference from a to b, computed
// from UTC midnights. DaysBetween(a, b) == -DaysBetween(b, a).
func DaysBetween(a, b Date) int {
	return int(b.UTC().Sub(a.UTC()) / (24 * time.Hour))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return DaysBetween(d, other) > 0
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return d.UTC().Format(layoutISO)
}

// MarshalJSON encodes the date as its strict string form.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a strict YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
