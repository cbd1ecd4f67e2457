// Package visa defines the visa record and its countdown classification.
package visa

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/visado/pkg/calendar"
)

const (
	// MinDurationDays and MaxDurationDays bound the validity window length.
	MinDurationDays = 1
	MaxDurationDays = 365
)

var (
	ErrInvalidCountry = errors.New("visa: country code must be exactly 2 uppercase letters")
	ErrEmptyLabel     = errors.New("visa: label must not be empty")
	ErrDurationRange  = fmt.Errorf("visa: duration must be %d-%d days", MinDurationDays, MaxDurationDays)
)

// Record is one tracked visa validity window. A record is created once,
// never edited, and destroyed by deletion. NotificationHandles holds the
// opaque scheduler handles for the record's live reminders, in schedule
// order; they are cancelled together with the record.
type Record struct {
	ID                  string        `json:"id"`
	CountryCode         string        `json:"countryCode"`
	Label               string        `json:"label"`
	EntryDate           calendar.Date `json:"entryDate"`
	DurationDays        int           `json:"durationDays"`
	CreatedAt           time.Time     `json:"createdAt"`
	NotificationHandles []string      `json:"notificationHandles,omitempty"`
}

// New validates the fields and returns a record with a fresh ID. Validation
// happens before any side effect; an invalid field blocks creation entirely.
func New(countryCode, label string, entryDate calendar.Date, durationDays int) (*Record, error) {
	if !validCountryCode(countryCode) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCountry, countryCode)
	}
	if strings.TrimSpace(label) == "" {
		return nil, ErrEmptyLabel
	}
	if durationDays < MinDurationDays || durationDays > MaxDurationDays {
		return nil, fmt.Errorf("%w: got %d", ErrDurationRange, durationDays)
	}
	return &Record{
		ID:           uuid.NewString(),
		CountryCode:  countryCode,
		Label:        label,
		EntryDate:    entryDate,
		DurationDays: durationDays,
		CreatedAt:    time.Now(),
	}, nil
}

// Expiry is the calendar date the validity window ends: entry + duration.
func (r *Record) Expiry() calendar.Date {
	return r.EntryDate.AddDays(r.DurationDays)
}

func (r *Record) String() string {
	return fmt.Sprintf("%s %s (%d days from %s)", r.CountryCode, r.Label, r.DurationDays, r.EntryDate)
}

func validCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
