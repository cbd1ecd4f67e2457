package remind

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"tableflip.dev/visado/pkg/notify"
	"tableflip.dev/visado/pkg/visa"
)

// OutcomeState classifies the result of one per-offset scheduling attempt.
type OutcomeState int

const (
	// Scheduled means the collaborator accepted and returned a handle.
	Scheduled OutcomeState = iota
	// SkippedPast means the planner dropped the offset as already past.
	SkippedPast
	// Denied means notification permission was refused for the whole record.
	Denied
	// Refused means the collaborator declined this one reminder.
	Refused
	// Failed means the schedule call errored.
	Failed
)

func (s OutcomeState) String() string {
	switch s {
	case Scheduled:
		return "scheduled"
	case SkippedPast:
		return "skipped-past"
	case Denied:
		return "denied"
	case Refused:
		return "refused"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome reports what happened to one configured offset. Soft failures are
// carried here as data instead of errors so callers can log them without
// changing control flow.
type Outcome struct {
	OffsetDays int
	State      OutcomeState
	Handle     string
	Err        error
}

// Orchestrator turns reminder plans into notification collaborator calls.
// Every call is attempted exactly once, with no timeouts and no retries; a
// failure means "not scheduled" or "not cancelled" and is never escalated.
type Orchestrator struct {
	Notifier notify.Notifier

	// Clock and Loc make planning deterministic in tests. Nil means
	// time.Now and the device local zone.
	Clock func() time.Time
	Loc   *time.Location
}

func (o *Orchestrator) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

// ScheduleOnCreate plans and schedules reminders for a freshly created
// record. It returns one outcome per configured offset and the handles of
// the successful schedules, in plan order. Permission refusal and individual
// scheduling failures degrade gracefully: the caller persists the record
// regardless, with zero, some, or all reminders live.
func (o *Orchestrator) ScheduleOnCreate(ctx context.Context, r *visa.Record, settings Settings) ([]Outcome, []string) {
	if !settings.Enabled || o.Notifier == nil {
		return nil, nil
	}

	granted, err := o.Notifier.RequestPermission(ctx)
	if err != nil || !granted {
		log.Debug().Str("record", r.ID).Err(err).Msg("notification permission not granted")
		outcomes := make([]Outcome, 0, len(settings.OffsetsDays))
		for _, d := range settings.OffsetsDays {
			outcomes = append(outcomes, Outcome{OffsetDays: d, State: Denied, Err: err})
		}
		return outcomes, nil
	}

	now := o.now()
	planned := Plan(r, settings, now, o.Loc)
	byOffsetIndex := plannedIndex(settings.OffsetsDays, planned)

	// The per-offset schedule calls are independent; issue them
	// concurrently but collect results into the slot matching the plan
	// order so the handle list cancels 1:1 later.
	outcomes := make([]Outcome, len(settings.OffsetsDays))
	var wg sync.WaitGroup
	for i, d := range settings.OffsetsDays {
		item, ok := byOffsetIndex[i]
		if !ok {
			outcomes[i] = Outcome{OffsetDays: d, State: SkippedPast}
			continue
		}
		wg.Add(1)
		go func(i int, item Reminder) {
			defer wg.Done()
			handle, err := o.Notifier.Schedule(ctx, item.Title, item.Body, item.FireAt)
			switch {
			case errors.Is(err, notify.ErrRefused):
				outcomes[i] = Outcome{OffsetDays: item.OffsetDays, State: Refused, Err: err}
			case err != nil:
				outcomes[i] = Outcome{OffsetDays: item.OffsetDays, State: Failed, Err: err}
			default:
				outcomes[i] = Outcome{OffsetDays: item.OffsetDays, State: Scheduled, Handle: handle}
			}
		}(i, item)
	}
	wg.Wait()

	handles := make([]string, 0, len(outcomes))
	for _, out := range outcomes {
		if out.State == Scheduled {
			handles = append(handles, out.Handle)
		} else if out.Err != nil {
			log.Debug().
				Str("record", r.ID).
				Int("offsetDays", out.OffsetDays).
				Str("state", out.State.String()).
				Err(out.Err).
				Msg("reminder not scheduled")
		}
	}
	return outcomes, handles
}

// CancelAll issues one cancellation per handle, concurrently, and waits for
// every attempt to complete before returning. Failures are logged and
// swallowed: an already fired reminder cancels as a no-op, and the owning
// record must be removable regardless.
func (o *Orchestrator) CancelAll(ctx context.Context, handles []string) {
	if o.Notifier == nil || len(handles) == 0 {
		return
	}
	var wg sync.WaitGroup
	for _, handle := range handles {
		wg.Add(1)
		go func(handle string) {
			defer wg.Done()
			if err := o.Notifier.Cancel(ctx, handle); err != nil {
				log.Debug().Str("handle", handle).Err(err).Msg("reminder cancel failed")
			}
		}(handle)
	}
	wg.Wait()
}

// plannedIndex maps offset positions to their planned reminder. Offsets the
// planner dropped have no entry. Duplicate offsets are matched
// left-to-right to duplicate plan entries.
func plannedIndex(offsets []int, planned []Reminder) map[int]Reminder {
	out := make(map[int]Reminder, len(planned))
	next := 0
	for i, d := range offsets {
		if next < len(planned) && planned[next].OffsetDays == d {
			out[i] = planned[next]
			next++
		}
	}
	return out
}
