/*
Package plan defines the recommendation plan produced by the remote reasoning
service, its wire decoding, and the store that keeps the latest plan.

A plan is replaced wholesale by every successful sync. Readers receive the
current plan as a read-only snapshot and must tolerate its absence.
*/
package plan

import "time"

// Limits enforced when decoding a plan from the remote service.
const (
	MaxWindowActions = 4
	MaxGlobalIDs     = 6
)

// Plan is the remote service's ranked recommendation set.
type Plan struct {
	// GeneratedAt is stamped locally when the plan is accepted.
	GeneratedAt time.Time `json:"generatedAt"`

	// Windows holds per-window action orderings, in match priority order.
	Windows []Window `json:"windows"`

	// GlobalPins are boosted regardless of window.
	GlobalPins []string `json:"globalPins"`

	// Suppressions are excluded from every recommendation.
	Suppressions []string `json:"suppressions"`

	// Rationales explain individual recommendations.
	Rationales []Rationale `json:"rationales"`

	// NewActions are merged into the catalog and never read from the plan afterwards.
	NewActions []SuggestedAction `json:"newActions,omitempty"`
}

// Window is one time window of a plan.
type Window struct {
	ID                string   `json:"id"`
	Start             string   `json:"start,omitempty"`
	End               string   `json:"end,omitempty"`
	PrimaryActionIDs  []string `json:"primaryActionIds"`
	FallbackActionIDs []string `json:"fallbackActionIds"`
}

// OrderedActionIDs returns primary ids followed by fallback ids.
func (w Window) OrderedActionIDs() []string {
	ids := make([]string, 0, len(w.PrimaryActionIDs)+len(w.FallbackActionIDs))
	ids = append(ids, w.PrimaryActionIDs...)
	return append(ids, w.FallbackActionIDs...)
}

// Rationale is a short explanation attached to an action or window id.
type Rationale struct {
	TargetID string `json:"targetId"`
	Summary  string `json:"summary"`
}

// SuggestedAction is an action the remote service proposes for the catalog.
type SuggestedAction struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	ActionType  string   `json:"actionType"`
	Data        string   `json:"data,omitempty"`
	PackageName string   `json:"packageName,omitempty"`
	TimeWindows []string `json:"timeWindows,omitempty"`
}

// SuppressionSet returns the suppressed ids as a set. A nil plan suppresses nothing.
func (p *Plan) SuppressionSet() map[string]bool {
	set := make(map[string]bool)
	if p == nil {
		return set
	}
	for _, id := range p.Suppressions {
		set[id] = true
	}
	return set
}

// WindowByID returns the window with the given id.
func (p *Plan) WindowByID(id string) (Window, bool) {
	if p == nil {
		return Window{}, false
	}
	for _, w := range p.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return Window{}, false
}
