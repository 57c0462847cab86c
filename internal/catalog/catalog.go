/*
Package catalog keeps the durable table of AI-suggested quick actions and
their interaction counters.

The catalog is a single versioned value. Every mutation takes the store's
lock, writes the whole new value to the blob store and only then publishes it
to readers; a failed write leaves the published value untouched.
*/
package catalog

import (
	"time"

	"github.com/khanglvm/action-hub/internal/quickaction"
)

// AI entry defaults.
const (
	AIProviderID    = "ai"
	DefaultPriority = 5
)

// Entry is one AI-suggested action.
type Entry struct {
	ID             string    `json:"id"`
	Label          string    `json:"label"`
	ActionType     string    `json:"actionType"`
	Data           string    `json:"data,omitempty"`
	PackageName    string    `json:"packageName,omitempty"`
	ProviderID     string    `json:"providerId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	TimeWindows    []string  `json:"timeWindows"`
	UsageCount     int64     `json:"usageCount"`
	AcceptedCount  int64     `json:"acceptedCount"`
	DismissedCount int64     `json:"dismissedCount"`
	Priority       int       `json:"priority"`
}

// ToAction converts the entry into a launchable action. It reports false
// when the stored type is not a known action type.
func (e Entry) ToAction() (quickaction.Action, bool) {
	typ, ok := quickaction.ParseType(e.ActionType)
	if !ok {
		return quickaction.Action{}, false
	}
	provider := e.ProviderID
	if provider == "" {
		provider = AIProviderID
	}
	return quickaction.Action{
		ID:          e.ID,
		ProviderID:  provider,
		Label:       e.Label,
		Type:        typ,
		Data:        e.Data,
		PackageName: e.PackageName,
		Priority:    e.Priority,
		Source:      quickaction.SourceAI,
	}, true
}

// Catalog is the full table, entries sorted by id.
type Catalog struct {
	UpdatedAt time.Time `json:"updatedAt"`
	Entries   []Entry   `json:"entries"`
}

// Entry returns the entry with the given id.
func (c Catalog) Entry(id string) (Entry, bool) {
	for _, e := range c.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

func (c Catalog) clone() Catalog {
	out := Catalog{UpdatedAt: c.UpdatedAt, Entries: make([]Entry, len(c.Entries))}
	copy(out.Entries, c.Entries)
	return out
}
