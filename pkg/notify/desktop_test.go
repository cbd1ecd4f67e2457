package notify

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDesktopPermission(t *testing.T) {
	d := NewDesktop()
	defer d.Close()
	granted, err := d.RequestPermission(context.Background())
	if err != nil || !granted {
		t.Fatalf("RequestPermission = %v, %v; want granted", granted, err)
	}
}

func TestDesktopRefusesPastInstants(t *testing.T) {
	d := NewDesktop()
	defer d.Close()
	_, err := d.Schedule(context.Background(), "t", "b", time.Now().Add(-time.Minute))
	if !errors.Is(err, ErrRefused) {
		t.Fatalf("expected ErrRefused, got %v", err)
	}
}

func TestDesktopScheduleAndCancel(t *testing.T) {
	d := NewDesktop()
	defer d.Close()
	ctx := context.Background()

	handle, err := d.Schedule(ctx, "t", "b", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if handle == "" {
		t.Fatal("expected a handle")
	}
	if err := d.Cancel(ctx, handle); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	// Idempotent: cancelling again and cancelling garbage both succeed.
	if err := d.Cancel(ctx, handle); err != nil {
		t.Fatalf("second Cancel: %v", err)
	}
	if err := d.Cancel(ctx, "no-such-handle"); err != nil {
		t.Fatalf("Cancel unknown: %v", err)
	}
}
