package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"tableflip.dev/visado/pkg/notify"
	"tableflip.dev/visado/pkg/remind"
	"tableflip.dev/visado/pkg/store"
	"tableflip.dev/visado/pkg/visa"
)

type memoryPersistence struct {
	mu       sync.Mutex
	records  []*visa.Record
	settings remind.Settings
	onboard  bool

	listErr error
	saveErr error

	saveCalls int
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{settings: remind.DefaultSettings()}
}

func (m *memoryPersistence) ListVisas(_ context.Context) ([]*visa.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*visa.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memoryPersistence) SaveVisas(_ context.Context, records []*visa.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saveCalls++
	m.records = make([]*visa.Record, len(records))
	copy(m.records, records)
	return nil
}

func (m *memoryPersistence) LoadSettings(_ context.Context) (remind.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.Sanitize(), nil
}

func (m *memoryPersistence) SaveSettings(_ context.Context, s remind.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}

func (m *memoryPersistence) Onboarded(_ context.Context) (bool, error) {
	return m.onboard, nil
}

func (m *memoryPersistence) SetOnboarded(_ context.Context) error {
	m.onboard = true
	return nil
}

func (m *memoryPersistence) Watch(_ context.Context) (<-chan store.Event, error) {
	return nil, errors.New("not supported")
}

type fakeNotifier struct {
	mu         sync.Mutex
	permission bool
	counter    int
	scheduled  map[string]string
	cancelled  []string
	cancelErr  error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{permission: true, scheduled: make(map[string]string)}
}

func (f *fakeNotifier) RequestPermission(_ context.Context) (bool, error) {
	return f.permission, nil
}

func (f *fakeNotifier) Schedule(_ context.Context, _, body string, _ time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	handle := fmt.Sprintf("handle-%d", f.counter)
	f.scheduled[handle] = body
	return handle, nil
}

func (f *fakeNotifier) Cancel(_ context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, handle)
	return f.cancelErr
}

var _ notify.Notifier = (*fakeNotifier)(nil)

func testService(p *memoryPersistence, n notify.Notifier) *Service {
	clock := func() time.Time {
		return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Service{
		Persistence:  p,
		Orchestrator: &remind.Orchestrator{Notifier: n, Clock: clock, Loc: time.UTC},
		Clock:        clock,
	}
}

func TestAddVisaSchedulesAndPersists(t *testing.T) {
	p := newMemoryPersistence()
	n := newFakeNotifier()
	s := testService(p, n)
	ctx := context.Background()

	record, outcomes, err := s.AddVisa(ctx, "US", "Business trip", "2026-01-01", 30)
	if err != nil {
		t.Fatalf("AddVisa: %v", err)
	}
	if len(record.NotificationHandles) != 4 {
		t.Fatalf("handles = %d, want 4", len(record.NotificationHandles))
	}
	if len(outcomes) != 4 {
		t.Fatalf("outcomes = %d, want 4", len(outcomes))
	}
	if len(p.records) != 1 || p.records[0].ID != record.ID {
		t.Fatalf("record not persisted: %+v", p.records)
	}
	if len(p.records[0].NotificationHandles) != 4 {
		t.Fatal("persisted record must carry the collected handles")
	}
}

func TestAddVisaValidationBlocksBeforeSideEffects(t *testing.T) {
	cases := []struct {
		name    string
		country string
		label   string
		entry   string
		days    int
	}{
		{"bad date", "US", "trip", "2023-02-30", 30},
		{"bad country", "usa", "trip", "2026-01-01", 30},
		{"bad duration", "US", "trip", "2026-01-01", 400},
		{"empty label", "US", "", "2026-01-01", 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newMemoryPersistence()
			n := newFakeNotifier()
			s := testService(p, n)

			_, _, err := s.AddVisa(context.Background(), tc.country, tc.label, tc.entry, tc.days)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if len(n.scheduled) != 0 {
				t.Fatal("validation failure must not schedule")
			}
			if p.saveCalls != 0 {
				t.Fatal("validation failure must not persist")
			}
		})
	}
}

func TestAddVisaProceedsWithoutPermission(t *testing.T) {
	p := newMemoryPersistence()
	n := newFakeNotifier()
	n.permission = false
	s := testService(p, n)

	record, outcomes, err := s.AddVisa(context.Background(), "US", "trip", "2026-01-01", 30)
	if err != nil {
		t.Fatalf("AddVisa: %v", err)
	}
	if len(record.NotificationHandles) != 0 {
		t.Fatalf("handles = %v, want none", record.NotificationHandles)
	}
	for _, out := range outcomes {
		if out.State != remind.Denied {
			t.Fatalf("outcome = %+v, want Denied", out)
		}
	}
	if len(p.records) != 1 {
		t.Fatal("record must persist despite permission denial")
	}
}

func TestAddVisaRespectsDisabledSetting(t *testing.T) {
	p := newMemoryPersistence()
	p.settings.Enabled = false
	n := newFakeNotifier()
	s := testService(p, n)

	record, outcomes, err := s.AddVisa(context.Background(), "US", "trip", "2026-01-01", 30)
	if err != nil {
		t.Fatalf("AddVisa: %v", err)
	}
	if len(outcomes) != 0 || len(record.NotificationHandles) != 0 {
		t.Fatal("disabled reminders must schedule nothing")
	}
	if len(n.scheduled) != 0 {
		t.Fatal("notifier must not be called")
	}
}

func TestDeleteVisaCancelsAllHandles(t *testing.T) {
	p := newMemoryPersistence()
	n := newFakeNotifier()
	n.cancelErr = errors.New("already fired")
	s := testService(p, n)
	ctx := context.Background()

	record, _, err := s.AddVisa(ctx, "US", "trip", "2026-01-01", 30)
	if err != nil {
		t.Fatalf("AddVisa: %v", err)
	}
	record.NotificationHandles = record.NotificationHandles[:3]
	p.records[0].NotificationHandles = record.NotificationHandles

	// Scenario D: three live handles, every cancellation fails, the record
	// is removed regardless.
	if err := s.DeleteVisa(ctx, record.ID); err != nil {
		t.Fatalf("DeleteVisa: %v", err)
	}
	if len(n.cancelled) != 3 {
		t.Fatalf("cancelled %d handles, want 3", len(n.cancelled))
	}
	if len(p.records) != 0 {
		t.Fatal("record must be removed even when cancellation fails")
	}
}

func TestDeleteVisaNotFound(t *testing.T) {
	p := newMemoryPersistence()
	s := testService(p, newFakeNotifier())
	if err := s.DeleteVisa(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListVisasSortedByUrgency(t *testing.T) {
	p := newMemoryPersistence()
	s := testService(p, newFakeNotifier())
	ctx := context.Background()

	// Clock is 2026-01-01; durations put these in distinct bands.
	safe, _, err := s.AddVisa(ctx, "DE", "safe", "2026-01-01", 100)
	if err != nil {
		t.Fatal(err)
	}
	urgent, _, err := s.AddVisa(ctx, "FR", "urgent", "2026-01-01", 3)
	if err != nil {
		t.Fatal(err)
	}
	expired, _, err := s.AddVisa(ctx, "JP", "expired", "2025-01-01", 30)
	if err != nil {
		t.Fatal(err)
	}

	items, err := s.ListVisas(ctx)
	if err != nil {
		t.Fatalf("ListVisas: %v", err)
	}
	wantOrder := []string{expired.ID, urgent.ID, safe.ID}
	for i, want := range wantOrder {
		if items[i].Record.ID != want {
			t.Fatalf("position %d: got %s, want %s", i, items[i].Record.Label, want)
		}
	}
}

func TestSettingsChangesAreNotRetroactive(t *testing.T) {
	p := newMemoryPersistence()
	n := newFakeNotifier()
	s := testService(p, n)
	ctx := context.Background()

	record, _, err := s.AddVisa(ctx, "US", "trip", "2026-01-01", 30)
	if err != nil {
		t.Fatalf("AddVisa: %v", err)
	}
	before := append([]string(nil), record.NotificationHandles...)

	if err := s.SetReminderTime(ctx, 18, 30); err != nil {
		t.Fatalf("SetReminderTime: %v", err)
	}
	if err := s.SetOffsets(ctx, []int{30}); err != nil {
		t.Fatalf("SetOffsets: %v", err)
	}
	if err := s.SetRemindersEnabled(ctx, false); err != nil {
		t.Fatalf("SetRemindersEnabled: %v", err)
	}

	if len(n.cancelled) != 0 {
		t.Fatal("settings changes must not cancel existing reminders")
	}
	got, err := s.ListVisas(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(got[0].Record.NotificationHandles) != fmt.Sprint(before) {
		t.Fatal("settings changes must not touch existing handles")
	}
}

func TestSetReminderTimeValidates(t *testing.T) {
	p := newMemoryPersistence()
	s := testService(p, newFakeNotifier())
	ctx := context.Background()

	if err := s.SetReminderTime(ctx, 24, 0); err == nil {
		t.Fatal("expected range error")
	}
	if err := s.SetReminderTime(ctx, 18, 30); err != nil {
		t.Fatalf("SetReminderTime: %v", err)
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if settings.Hour != 18 || settings.Minute != 30 {
		t.Fatalf("settings time = %d:%d", settings.Hour, settings.Minute)
	}
}

func TestOnboardingFlag(t *testing.T) {
	p := newMemoryPersistence()
	s := testService(p, newFakeNotifier())
	ctx := context.Background()

	done, err := s.Onboarded(ctx)
	if err != nil || done {
		t.Fatalf("Onboarded = %v, %v; want false", done, err)
	}
	if err := s.CompleteOnboarding(ctx); err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}
	if done, _ := s.Onboarded(ctx); !done {
		t.Fatal("expected onboarded")
	}
}

func TestPersistenceFailureSurfaces(t *testing.T) {
	p := newMemoryPersistence()
	p.saveErr = errors.New("disk full")
	s := testService(p, newFakeNotifier())

	if _, _, err := s.AddVisa(context.Background(), "US", "trip", "2026-01-01", 30); err == nil {
		t.Fatal("persistence failure must surface to the caller")
	}
}
