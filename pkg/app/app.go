// Package app provides the high-level operations over visa records and
// reminder settings. It wraps persistence, planning, and scheduling so the
// CLI surface can stay thin.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/visado/pkg/calendar"
	"tableflip.dev/visado/pkg/remind"
	"tableflip.dev/visado/pkg/store"
	"tableflip.dev/visado/pkg/visa"
)

// ErrNotFound reports an operation against an unknown record id.
var ErrNotFound = errors.New("app: visa not found")

// Service runs one user action at a time: callers serialize operations, so
// each method is a single read-modify-write over the store with no locking.
type Service struct {
	Persistence  store.Persistence
	Orchestrator *remind.Orchestrator

	// Clock defaults to time.Now; fixed in tests.
	Clock func() time.Time
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// AddVisa validates, creates, schedules reminders for, and persists a new
// record. Validation failures block before any side effect. Scheduling is
// best-effort: the record is persisted with whatever handles were collected,
// possibly none, and the outcomes report what happened per offset.
func (s *Service) AddVisa(ctx context.Context, countryCode, label, entryDate string, durationDays int) (*visa.Record, []remind.Outcome, error) {
	if s.Persistence == nil {
		return nil, nil, errors.New("app: no persistence configured")
	}

	date, err := calendar.ParseDate(entryDate)
	if err != nil {
		return nil, nil, err
	}
	record, err := visa.New(countryCode, label, date, durationDays)
	if err != nil {
		return nil, nil, err
	}

	settings, err := s.Persistence.LoadSettings(ctx)
	if err != nil {
		return nil, nil, err
	}

	var outcomes []remind.Outcome
	if s.Orchestrator != nil {
		var handles []string
		outcomes, handles = s.Orchestrator.ScheduleOnCreate(ctx, record, settings)
		record.NotificationHandles = handles
	}

	records, err := s.Persistence.ListVisas(ctx)
	if err != nil {
		return nil, nil, err
	}
	records = append(records, record)
	if err := s.Persistence.SaveVisas(ctx, records); err != nil {
		return nil, nil, err
	}
	return record, outcomes, nil
}

// DeleteVisa cancels every live reminder handle for the record and removes
// it from the store as one logical operation. All cancellation attempts run
// to completion before the record is removed; their failures never block the
// delete.
func (s *Service) DeleteVisa(ctx context.Context, id string) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}

	records, err := s.Persistence.ListVisas(ctx)
	if err != nil {
		return err
	}

	index := -1
	for i, r := range records {
		if r.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if s.Orchestrator != nil {
		s.Orchestrator.CancelAll(ctx, records[index].NotificationHandles)
	}

	records = append(records[:index], records[index+1:]...)
	return s.Persistence.SaveVisas(ctx, records)
}

// ListVisas returns every record with its countdown status, most urgent
// first.
func (s *Service) ListVisas(ctx context.Context) ([]visa.Statused, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	records, err := s.Persistence.ListVisas(ctx)
	if err != nil {
		return nil, err
	}
	items := visa.ComputeAll(records, s.now())
	visa.SortByUrgency(items)
	return items, nil
}

// Settings returns the current sanitized reminder settings.
func (s *Service) Settings(ctx context.Context) (remind.Settings, error) {
	if s.Persistence == nil {
		return remind.Settings{}, errors.New("app: no persistence configured")
	}
	return s.Persistence.LoadSettings(ctx)
}

// SetRemindersEnabled flips the global switch for newly created records.
// Reminders already scheduled for existing records are left alone.
func (s *Service) SetRemindersEnabled(ctx context.Context, enabled bool) error {
	return s.updateSettings(ctx, func(settings *remind.Settings) error {
		settings.Enabled = enabled
		return nil
	})
}

// SetReminderTime sets the local wall-clock delivery time for future plans.
// Existing records are not rescheduled.
func (s *Service) SetReminderTime(ctx context.Context, hour, minute int) error {
	if err := remind.ValidateTime(hour, minute); err != nil {
		return err
	}
	return s.updateSettings(ctx, func(settings *remind.Settings) error {
		settings.Hour = hour
		settings.Minute = minute
		return nil
	})
}

// SetOffsets sets the days-before-expiry ladder for future plans. The list
// is kept exactly as given: order preserved, duplicates allowed.
func (s *Service) SetOffsets(ctx context.Context, offsets []int) error {
	if err := remind.ValidateOffsets(offsets); err != nil {
		return err
	}
	return s.updateSettings(ctx, func(settings *remind.Settings) error {
		settings.OffsetsDays = offsets
		return nil
	})
}

func (s *Service) updateSettings(ctx context.Context, mutate func(*remind.Settings) error) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	settings, err := s.Persistence.LoadSettings(ctx)
	if err != nil {
		return err
	}
	if err := mutate(&settings); err != nil {
		return err
	}
	return s.Persistence.SaveSettings(ctx, settings)
}

// Onboarded reports whether first-run onboarding completed.
func (s *Service) Onboarded(ctx context.Context) (bool, error) {
	if s.Persistence == nil {
		return false, errors.New("app: no persistence configured")
	}
	return s.Persistence.Onboarded(ctx)
}

// CompleteOnboarding marks first-run onboarding done.
func (s *Service) CompleteOnboarding(ctx context.Context) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	return s.Persistence.SetOnboarded(ctx)
}
