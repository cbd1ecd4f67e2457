// Package notify defines the notification scheduling port and a desktop
// implementation. The rest of the system only sees the Notifier interface;
// tests substitute a fake that records calls.
package notify

import (
	"context"
	"errors"
	"time"
)

// ErrRefused is returned by Schedule when the collaborator declines to
// schedule the notification (for example, fire time already passed).
var ErrRefused = errors.New("notify: schedule refused")

// Notifier is the contract with the OS notification subsystem. Cancel is
// idempotent: cancelling an unknown, already fired, or already cancelled
// handle is not an error.
type Notifier interface {
	RequestPermission(ctx context.Context) (bool, error)
	Schedule(ctx context.Context, title, body string, at time.Time) (handle string, err error)
	Cancel(ctx context.Context, handle string) error
}
