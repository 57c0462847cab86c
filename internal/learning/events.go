/*
Package learning records action invocations in the background and derives
the app lists shown next to recommendations.

The tracker never blocks callers: events are queued, batched and flushed to
the event log by a single goroutine. The app helpers turn the event log into
recent and favorite app lists.
*/
package learning

import (
	"strings"
	"time"

	"github.com/khanglvm/action-hub/internal/storage"
)

// Event is one invocation to record.
type Event struct {
	// ActionID is the invoked action id.
	ActionID string

	// Timestamp is when the action was invoked.
	Timestamp time.Time
}

// NewActionEvent creates an event for a quick action invoked now.
func NewActionEvent(actionID string) Event {
	return Event{ActionID: strings.TrimSpace(actionID), Timestamp: time.Now()}
}

// NewAppEvent creates an event for an app launched now.
func NewAppEvent(packageName string) Event {
	return Event{ActionID: storage.AppActionID(strings.TrimSpace(packageName)), Timestamp: time.Now()}
}

// ToStorage converts the event into the event log model.
func (e Event) ToStorage() storage.ActionEvent {
	return storage.ActionEvent{
		ActionID:  e.ActionID,
		Timestamp: e.Timestamp,
	}
}

// Valid reports whether the event names an action.
func (e Event) Valid() bool {
	return e.ActionID != "" && e.ActionID != storage.AppPrefix
}
