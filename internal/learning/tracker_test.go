package learning

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/khanglvm/action-hub/internal/storage"
)

// mockWriter is an in-memory EventWriter.
type mockWriter struct {
	mu     sync.Mutex
	events []storage.ActionEvent
	err    error
}

func (m *mockWriter) RecordEvent(event storage.ActionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockWriter) count(actionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.ActionID == actionID {
			n++
		}
	}
	return n
}

func TestNewTracker(t *testing.T) {
	tracker := NewTracker(&mockWriter{})
	defer tracker.Stop()

	if !tracker.IsEnabled() {
		t.Error("expected tracker to be enabled")
	}

	nilTracker := NewTracker(nil)
	defer nilTracker.Stop()
	if nilTracker.IsEnabled() {
		t.Error("expected tracker without writer to be disabled")
	}
}

func TestTracker_Track(t *testing.T) {
	w := &mockWriter{}
	tracker := NewTracker(w)
	defer tracker.Stop()

	tracker.Track(NewActionEvent("gmail_inbox"))

	// Give time for background processing
	time.Sleep(150 * time.Millisecond)

	if w.count("gmail_inbox") != 1 {
		t.Error("expected event to be recorded")
	}
}

func TestTracker_TrackMultiple(t *testing.T) {
	w := &mockWriter{}
	tracker := NewTracker(w)

	for i := 0; i < 25; i++ {
		tracker.Track(NewAppEvent("com.x"))
	}
	tracker.Stop()

	if got := w.count("app:com.x"); got != 25 {
		t.Errorf("expected 25 events, got %d", got)
	}
}

func TestTracker_IgnoresInvalid(t *testing.T) {
	w := &mockWriter{}
	tracker := NewTracker(w)

	tracker.Track(NewActionEvent("  "))
	tracker.Track(NewAppEvent(""))
	tracker.Track(Event{ActionID: "no_time"})
	tracker.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.events) != 1 || w.events[0].ActionID != "no_time" {
		t.Fatalf("unexpected events: %+v", w.events)
	}
	if w.events[0].Timestamp.IsZero() {
		t.Error("expected missing timestamp to be filled")
	}
}

func TestTracker_Disable(t *testing.T) {
	w := &mockWriter{}
	tracker := NewTracker(w)

	tracker.Disable()
	if tracker.IsEnabled() {
		t.Error("expected tracker to be disabled")
	}
	tracker.Track(NewActionEvent("a"))

	tracker.Enable()
	tracker.Track(NewActionEvent("b"))
	tracker.Stop()

	if w.count("a") != 0 {
		t.Error("expected no events while disabled")
	}
	if w.count("b") != 1 {
		t.Error("expected event to be recorded after enable")
	}
}

func TestTracker_StopIsIdempotent(t *testing.T) {
	tracker := NewTracker(&mockWriter{})
	tracker.Stop()
	tracker.Stop()
}

func TestTracker_TrackNonBlocking(t *testing.T) {
	tracker := NewTracker(&mockWriter{})
	defer tracker.Stop()

	start := time.Now()
	for i := 0; i < eventQueueSize+100; i++ {
		tracker.Track(NewActionEvent("a"))
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Track is blocking: took %v, expected <100ms", elapsed)
	}
	if size := tracker.QueueSize(); size > eventQueueSize {
		t.Errorf("queue size %d exceeds capacity %d", size, eventQueueSize)
	}
}

func TestTracker_WriterError(t *testing.T) {
	tracker := NewTracker(&mockWriter{err: errors.New("disk full")})

	// Should not panic even if the writer fails
	tracker.Track(NewActionEvent("a"))
	tracker.Stop()

	if !tracker.IsEnabled() {
		t.Error("expected tracker to remain enabled after writer error")
	}
}

func TestEvent_ToStorage(t *testing.T) {
	e := NewAppEvent(" com.x ")
	s := e.ToStorage()
	if s.ActionID != "app:com.x" || !s.Timestamp.Equal(e.Timestamp) {
		t.Errorf("unexpected storage event %+v", s)
	}
	if !s.IsApp() {
		t.Error("expected app event")
	}
}
