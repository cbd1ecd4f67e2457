package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/google/uuid"
)

// Desktop schedules one-shot in-process timers that deliver through the
// desktop notification service. Handles are uuid strings; a cancelled handle
// stops the pending timer, and a handle whose timer already fired is simply
// forgotten.
type Desktop struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewDesktop returns a ready Desktop notifier.
func NewDesktop() *Desktop {
	return &Desktop{timers: make(map[string]*time.Timer)}
}

// RequestPermission always grants: desktop notification services do not
// gate delivery behind a runtime permission prompt.
func (d *Desktop) RequestPermission(_ context.Context) (bool, error) {
	return true, nil
}

// Schedule arms a timer for the given instant and returns its handle.
// Instants not in the future are refused.
func (d *Desktop) Schedule(_ context.Context, title, body string, at time.Time) (string, error) {
	delay := time.Until(at)
	if delay <= 0 {
		return "", fmt.Errorf("%w: %s is not in the future", ErrRefused, at.Format(time.RFC3339))
	}

	handle := uuid.NewString()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timers[handle] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.timers, handle)
		d.mu.Unlock()
		_ = beeep.Notify(title, body, "")
	})
	return handle, nil
}

// Cancel stops the timer for handle if it is still pending. Unknown handles
// are ignored.
func (d *Desktop) Cancel(_ context.Context, handle string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if timer, ok := d.timers[handle]; ok {
		timer.Stop()
		delete(d.timers, handle)
	}
	return nil
}

// Close stops every pending timer.
func (d *Desktop) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for handle, timer := range d.timers {
		timer.Stop()
		delete(d.timers, handle)
	}
}
