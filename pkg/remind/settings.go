// Package remind plans reminder instants for visa records and coordinates
// scheduling them with the notification collaborator.
package remind

import "fmt"

const (
	DefaultHour   = 9
	DefaultMinute = 0
	maxOffsetDays = 365
)

// DefaultOffsets is the fallback reminder ladder: two weeks, one week,
// three days, and the expiry day itself.
func DefaultOffsets() []int {
	return []int{14, 7, 3, 0}
}

// Settings is the process-wide reminder configuration. It is loaded by the
// caller and passed in explicitly; planning code never reads ambient state.
type Settings struct {
	Enabled     bool  `json:"enabled"`
	Hour        int   `json:"hour"`
	Minute      int   `json:"minute"`
	OffsetsDays []int `json:"offsetsDays"`
}

// DefaultSettings returns the documented defaults: enabled, 09:00, [14 7 3 0].
func DefaultSettings() Settings {
	return Settings{Enabled: true, Hour: DefaultHour, Minute: DefaultMinute, OffsetsDays: DefaultOffsets()}
}

// Sanitize clamps stored values on read rather than rejecting them. An hour
// or minute out of range falls back to 09:00. An offsets list that is empty
// or contains any entry outside 0-365 falls back to the default list as a
// whole. In-range offsets are kept in their configured order: they are not
// deduplicated and not sorted, so duplicate offsets yield duplicate
// reminders.
func (s Settings) Sanitize() Settings {
	out := s
	if out.Hour < 0 || out.Hour > 23 || out.Minute < 0 || out.Minute > 59 {
		out.Hour = DefaultHour
		out.Minute = DefaultMinute
	}
	if !validOffsets(out.OffsetsDays) {
		out.OffsetsDays = DefaultOffsets()
	}
	return out
}

// ValidateTime checks a user-supplied reminder time-of-day.
func ValidateTime(hour, minute int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("remind: hour must be 0-23, got %d", hour)
	}
	if minute < 0 || minute > 59 {
		return fmt.Errorf("remind: minute must be 0-59, got %d", minute)
	}
	return nil
}

// ValidateOffsets checks a user-supplied offsets list.
func ValidateOffsets(offsets []int) error {
	if len(offsets) == 0 {
		return fmt.Errorf("remind: at least one offset required")
	}
	for _, d := range offsets {
		if d < 0 || d > maxOffsetDays {
			return fmt.Errorf("remind: offset must be 0-%d days, got %d", maxOffsetDays, d)
		}
	}
	return nil
}

func validOffsets(offsets []int) bool {
	if len(offsets) == 0 {
		return false
	}
	for _, d := range offsets {
		if d < 0 || d > maxOffsetDays {
			return false
		}
	}
	return true
}
