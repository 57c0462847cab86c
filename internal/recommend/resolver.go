/*
Package recommend resolves which quick actions to recommend right now.

It combines built-in and AI-suggested actions into one candidate list,
applies the plan's suppressions, and ranks by the plan window that matches
the current time. Without a usable plan it falls back to usage statistics,
then to built-in actions by priority.
*/
package recommend

import (
	"log"
	"sort"
	"sync/atomic"
	"time"

	"github.com/khanglvm/action-hub/internal/catalog"
	"github.com/khanglvm/action-hub/internal/plan"
	"github.com/khanglvm/action-hub/internal/quickaction"
	"github.com/khanglvm/action-hub/internal/storage"
	"github.com/khanglvm/action-hub/internal/timewindow"
)

// DefaultSlots is the number of recommended actions returned.
const DefaultSlots = 6

// Where a result came from.
const (
	SourcePlan    = "plan"
	SourceUsage   = "usage"
	SourceDefault = "default"
)

// Input is everything a resolution reads.
type Input struct {
	Static []quickaction.Action
	AI     []catalog.Entry
	Stats  []storage.ActionStat
	Plan   *plan.Plan
	Now    time.Time
}

// Result is a ranked recommendation.
type Result struct {
	Actions  []quickaction.Action `json:"actions"`
	WindowID string               `json:"windowId,omitempty"`
	Source   string               `json:"source"`
}

// DropHook is called for every plan id that does not resolve to a candidate.
type DropHook func(windowID, actionID string)

// Resolver ranks candidates. It holds no state besides its drop counter and
// is safe for concurrent use.
type Resolver struct {
	slots     int
	available quickaction.Availability
	onDrop    DropHook
	dropped   atomic.Int64
}

// NewResolver creates a resolver returning up to slots actions. A nil
// availability predicate accepts every action.
func NewResolver(slots int, available quickaction.Availability) *Resolver {
	if slots <= 0 {
		slots = DefaultSlots
	}
	if available == nil {
		available = quickaction.AlwaysAvailable
	}
	return &Resolver{
		slots:     slots,
		available: available,
		onDrop: func(windowID, actionID string) {
			log.Printf("Warning: window %s references unknown action %s", windowID, actionID)
		},
	}
}

// SetDropHook replaces the hook called for unresolvable plan ids.
func (r *Resolver) SetDropHook(hook DropHook) {
	r.onDrop = hook
}

// Dropped returns how many plan ids failed to resolve so far.
func (r *Resolver) Dropped() int64 {
	return r.dropped.Load()
}

// Candidates returns the combined, de-duplicated candidate list sorted by
// priority, highest first.
//
// Suppressed ids are removed from both sources. AI entries that were
// dismissed are skipped and the rest get their accepted count added to
// their priority. On duplicate ids the built-in action wins.
func (r *Resolver) Candidates(static []quickaction.Action, ai []catalog.Entry, p *plan.Plan) []quickaction.Action {
	suppressed := p.SuppressionSet()

	combined := make([]quickaction.Action, 0, len(static)+len(ai))
	for _, a := range static {
		if !suppressed[a.ID] {
			combined = append(combined, a)
		}
	}
	for _, e := range ai {
		if e.DismissedCount != 0 || suppressed[e.ID] {
			continue
		}
		a, ok := e.ToAction()
		if !ok || !r.available(a) {
			continue
		}
		a.Priority += int(e.AcceptedCount)
		combined = append(combined, a)
	}

	seen := make(map[string]bool, len(combined))
	out := make([]quickaction.Action, 0, len(combined))
	for _, a := range combined {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// Resolve returns the recommended actions for in.Now.
func (r *Resolver) Resolve(in Input) Result {
	candidates := r.Candidates(in.Static, in.AI, in.Plan)
	byID := quickaction.Index(candidates)

	var windowID string
	if w := timewindow.ResolveWindow(in.Now, in.Plan); w != nil {
		windowID = w.ID
		ordered := r.mapIDs(w.ID, w.OrderedActionIDs(), byID, true)
		if len(ordered) > 0 {
			return Result{Actions: ordered, WindowID: windowID, Source: SourcePlan}
		}
	}

	var ids []string
	if in.Plan != nil {
		ids = append(ids, in.Plan.GlobalPins...)
	}
	for _, s := range in.Stats {
		ids = append(ids, s.ActionID)
	}
	if usage := r.mapIDs(windowID, ids, byID, false); len(usage) > 0 {
		return Result{Actions: usage, WindowID: windowID, Source: SourceUsage}
	}

	defaults := make([]quickaction.Action, 0, r.slots)
	for _, a := range candidates {
		if a.Source != quickaction.SourceStatic {
			continue
		}
		defaults = append(defaults, a)
		if len(defaults) == r.slots {
			break
		}
	}
	return Result{Actions: defaults, WindowID: windowID, Source: SourceDefault}
}

// mapIDs maps ids through byID, de-duplicated and truncated to the slot
// count. Misses are reported to the drop hook when report is set.
func (r *Resolver) mapIDs(windowID string, ids []string, byID map[string]quickaction.Action, report bool) []quickaction.Action {
	seen := make(map[string]bool, len(ids))
	out := make([]quickaction.Action, 0, r.slots)
	for _, id := range ids {
		if len(out) == r.slots {
			break
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		a, ok := byID[id]
		if !ok {
			if report {
				r.dropped.Add(1)
				if r.onDrop != nil {
					r.onDrop(windowID, id)
				}
			}
			continue
		}
		out = append(out, a)
	}
	return out
}
