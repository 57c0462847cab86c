package learning

import (
	"log"
	"sync"
	"time"

	"github.com/khanglvm/action-hub/internal/storage"
)

const (
	// eventQueueSize is the buffer size for the event queue.
	// If full, events are dropped (non-blocking).
	eventQueueSize = 1000

	// batchFlushSize is the number of events that triggers an immediate flush.
	batchFlushSize = 10

	// flushInterval is how often pending events are written.
	flushInterval = 50 * time.Millisecond
)

// EventWriter is the write side of the event log.
type EventWriter interface {
	RecordEvent(event storage.ActionEvent) error
}

// Tracker records action invocations in the background with non-blocking writes.
type Tracker struct {
	writer     EventWriter
	eventQueue chan Event
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	enabled    bool
	mu         sync.RWMutex
	dropped    int
}

// NewTracker creates a tracker and starts its flush goroutine.
func NewTracker(w EventWriter) *Tracker {
	t := &Tracker{
		writer:     w,
		eventQueue: make(chan Event, eventQueueSize),
		stopChan:   make(chan struct{}),
		enabled:    w != nil,
	}

	t.wg.Add(1)
	go t.processEvents()

	return t
}

// Track queues an event (non-blocking). Invalid events are ignored. If the
// queue is full, the event is dropped and a warning is logged.
func (t *Tracker) Track(event Event) {
	if !t.isEnabled() || !event.Valid() {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case t.eventQueue <- event:
	default:
		t.mu.Lock()
		t.dropped++
		t.mu.Unlock()
		log.Printf("Warning: event queue full, dropping event for action: %s", event.ActionID)
	}
}

// Stop flushes queued events and shuts the tracker down.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
		t.wg.Wait()
	})
}

// Disable disables tracking (events are ignored).
func (t *Tracker) Disable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = false
}

// Enable enables tracking.
func (t *Tracker) Enable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = t.writer != nil
}

// IsEnabled returns whether tracking is enabled.
func (t *Tracker) IsEnabled() bool {
	return t.isEnabled()
}

func (t *Tracker) isEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Dropped returns how many events were dropped because the queue was full.
func (t *Tracker) Dropped() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dropped
}

// QueueSize returns the current number of queued events.
func (t *Tracker) QueueSize() int {
	return len(t.eventQueue)
}

func (t *Tracker) processEvents() {
	defer t.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, batchFlushSize)

	for {
		select {
		case event := <-t.eventQueue:
			batch = append(batch, event)
			if len(batch) >= batchFlushSize {
				t.flush(batch)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				t.flush(batch)
				batch = batch[:0]
			}

		case <-t.stopChan:
			// Drain what is left, then exit.
			for {
				select {
				case event := <-t.eventQueue:
					batch = append(batch, event)
				default:
					t.flush(batch)
					return
				}
			}
		}
	}
}

func (t *Tracker) flush(events []Event) {
	for _, event := range events {
		if err := t.writer.RecordEvent(event.ToStorage()); err != nil {
			log.Printf("Warning: failed to record event: %v", err)
		}
	}
}
