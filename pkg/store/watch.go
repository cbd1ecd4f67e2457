package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventVisasChanged indicates the visa list was rewritten.
	EventVisasChanged EventType = iota

	// EventSettingsChanged indicates a reminder settings key changed.
	EventSettingsChanged
)

// Event is emitted by Persistence.Watch when underlying storage changes,
// for example when another process rewrites the store directory.
type Event struct {
	Type EventType
}

// Watch streams change events until ctx is cancelled. Callers should drain
// the returned channel to avoid blocking the watcher. The channel is closed
// once ctx is done or the watcher encounters an unrecoverable error.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}

	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "store: watcher close: %v\n", err)
			}
		})
	}

	if err := watcher.Add(p.basePath); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", p.basePath, err)
	}
	// The diskv transform nests keys one directory deep (settings/, visas/);
	// watch the buckets that already exist and pick up new ones at runtime.
	for _, bucket := range []string{"settings", "visas"} {
		dir := filepath.Join(p.basePath, bucket)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if err := watcher.Add(dir); err != nil {
				closeWatcher()
				return nil, fmt.Errorf("store: watch %s: %w", dir, err)
			}
		}
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer closeWatcher()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// Drop events if the consumer is not ready; the next read
				// re-materializes the store anyway.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Cannot classify; refresh everything.
				throttle.Enqueue(Event{Type: EventVisasChanged}, send)
				throttle.Enqueue(Event{Type: EventSettingsChanged}, send)
				_ = err
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}

				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						if err := watcher.Add(filepath.Clean(evt.Name)); err != nil {
							fmt.Fprintf(os.Stderr, "store: watch %s: %v\n", evt.Name, err)
						}
						// The first write into a fresh bucket may land
						// before its watch is in place; flag the bucket.
						throttle.Enqueue(Event{Type: p.eventTypeForPath(evt.Name)}, send)
						continue
					}
				}

				throttle.Enqueue(Event{Type: p.eventTypeForPath(evt.Name)}, send)
			}
		}
	}()

	return events, nil
}

// eventTypeForPath derives the event class from the top-level diskv bucket
// the changed file belongs to.
func (p *persistence) eventTypeForPath(path string) EventType {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil {
		return EventVisasChanged
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) > 0 && parts[0] == "settings" {
		return EventSettingsChanged
	}
	return EventVisasChanged
}

// eventThrottle coalesces rapid change notifications so consumers refresh
// once per burst of filesystem activity instead of on every single write.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev.Type] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[EventType]struct{})
	t.timer = nil
	t.mu.Unlock()

	for eventType := range pending {
		send(Event{Type: eventType})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
