package recommend

import (
	"time"

	"github.com/khanglvm/action-hub/internal/catalog"
	"github.com/khanglvm/action-hub/internal/plan"
	"github.com/khanglvm/action-hub/internal/quickaction"
)

// Preview limits.
const (
	PreviewWindowLimit    = 4
	PreviewRationaleLimit = 6
)

// Preview is a human-readable view of the current plan.
type Preview struct {
	GeneratedAt time.Time          `json:"generatedAt,omitempty"`
	Windows     []PreviewWindow    `json:"windows"`
	Rationales  []PreviewRationale `json:"rationales"`
	Pins        []string           `json:"pins"`
	Suppressed  []string           `json:"suppressed"`
}

// PreviewWindow lists a window's actions by label.
type PreviewWindow struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Primary  []string `json:"primary"`
	Fallback []string `json:"fallback"`
}

// PreviewRationale is a rationale with its target resolved to a label.
type PreviewRationale struct {
	Target  string `json:"target"`
	Summary string `json:"summary"`
}

// BuildPreview labels the plan's first windows and rationales. Ids without a
// known label are shown as is. A nil plan yields an empty preview.
func BuildPreview(p *plan.Plan, candidates []quickaction.Action, windowLabels map[string]string) Preview {
	out := Preview{
		Windows:    []PreviewWindow{},
		Rationales: []PreviewRationale{},
		Pins:       []string{},
		Suppressed: []string{},
	}
	if p == nil {
		return out
	}
	out.GeneratedAt = p.GeneratedAt

	byID := quickaction.Index(candidates)
	label := func(id string) string {
		if a, ok := byID[id]; ok && a.Label != "" {
			return a.Label
		}
		if l, ok := windowLabels[id]; ok {
			return l
		}
		return id
	}
	labels := func(ids []string) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, label(id))
		}
		return out
	}

	for i, w := range p.Windows {
		if i == PreviewWindowLimit {
			break
		}
		out.Windows = append(out.Windows, PreviewWindow{
			ID:       w.ID,
			Label:    label(w.ID),
			Primary:  labels(w.PrimaryActionIDs),
			Fallback: labels(w.FallbackActionIDs),
		})
	}
	for i, r := range p.Rationales {
		if i == PreviewRationaleLimit {
			break
		}
		out.Rationales = append(out.Rationales, PreviewRationale{Target: label(r.TargetID), Summary: r.Summary})
	}
	out.Pins = labels(p.GlobalPins)
	out.Suppressed = append(out.Suppressed, p.Suppressions...)
	return out
}

// HubLists groups catalog entries by the user's response to them.
type HubLists struct {
	Candidates []catalog.Entry `json:"candidates"`
	Adopted    []catalog.Entry `json:"adopted"`
	Hidden     []catalog.Entry `json:"hidden"`
}

// Hub splits entries: dismissed ones are hidden, accepted ones adopted, and
// the rest are still candidates.
func Hub(c catalog.Catalog) HubLists {
	out := HubLists{
		Candidates: []catalog.Entry{},
		Adopted:    []catalog.Entry{},
		Hidden:     []catalog.Entry{},
	}
	for _, e := range c.Entries {
		switch {
		case e.DismissedCount > 0:
			out.Hidden = append(out.Hidden, e)
		case e.AcceptedCount > 0:
			out.Adopted = append(out.Adopted, e)
		default:
			out.Candidates = append(out.Candidates, e)
		}
	}
	return out
}
