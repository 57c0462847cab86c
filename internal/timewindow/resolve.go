package timewindow

import (
	"strings"
	"time"

	"github.com/khanglvm/action-hub/internal/plan"
)

// ResolveWindow returns the first plan window matching now, or the plan's
// first window when none match. It returns nil when the plan has no windows.
func ResolveWindow(now time.Time, p *plan.Plan) *plan.Window {
	if p == nil || len(p.Windows) == 0 {
		return nil
	}
	for i := range p.Windows {
		if Matches(p.Windows[i], now) {
			return &p.Windows[i]
		}
	}
	return &p.Windows[0]
}

// Matches reports whether a plan window applies at now.
//
// Window ids containing "weekend" only apply on weekends and ids containing
// "weekday" only on weekdays. Windows without valid start and end never match.
func Matches(w plan.Window, now time.Time) bool {
	weekend := IsWeekend(now)
	if strings.Contains(w.ID, "weekend") && !weekend {
		return false
	}
	if strings.Contains(w.ID, "weekday") && weekend {
		return false
	}

	start, ok := plan.ParseClock(w.Start)
	if !ok {
		return false
	}
	end, ok := plan.ParseClock(w.End)
	if !ok {
		return false
	}
	return InRange(MinuteOfDay(now), start, end)
}

// FillBounds sets missing start/end on plan windows whose id matches a
// definition. Windows that already carry bounds are left alone.
func FillBounds(p *plan.Plan, defs []Definition) {
	if p == nil {
		return
	}
	byID := make(map[string]Definition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	for i := range p.Windows {
		w := &p.Windows[i]
		d, ok := byID[w.ID]
		if !ok || (w.Start != "" && w.End != "") {
			continue
		}
		w.Start = d.Start()
		w.End = d.End()
	}
}
