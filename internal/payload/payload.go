/*
Package payload builds the windowed usage summary sent to the remote
reasoning service.

Build is pure: it performs no I/O and produces the same payload for the same
events, stats and window table.
*/
package payload

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/khanglvm/action-hub/internal/storage"
	"github.com/khanglvm/action-hub/internal/timewindow"
)

// Default per-window limits.
const (
	DefaultActionLimit   = 4
	DefaultAppLimit      = 4
	DefaultSequenceLimit = 3
)

// Payload is the request body for the remote reasoning service.
type Payload struct {
	TimeWindowStats []WindowUsageSummary `json:"timeWindowStats"`
	RecentAnomalies []string             `json:"recentAnomalies"`
}

// WindowUsageSummary summarizes usage inside one time window.
type WindowUsageSummary struct {
	WindowID             string        `json:"windowId"`
	TopActions           []ActionCount `json:"topActions"`
	TopApps              []AppCount    `json:"topApps"`
	RecentActionSequence []string      `json:"recentActionSequence"`
}

// ActionCount is a shortcut action and how often it was invoked.
type ActionCount struct {
	ID          string  `json:"id"`
	Count       int     `json:"count"`
	SuccessRate float64 `json:"successRate"`
}

// AppCount is an app and how often it was launched.
type AppCount struct {
	PackageName string `json:"packageName"`
	Count       int    `json:"count"`
}

// JSON encodes the payload.
func (p Payload) JSON() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return data, nil
}

// Builder buckets usage history into time windows.
type Builder struct {
	Windows       []timewindow.Definition
	ActionLimit   int
	AppLimit      int
	SequenceLimit int

	// Location is the zone event timestamps are bucketed in. Nil means UTC.
	Location *time.Location
}

// NewBuilder creates a builder with the default limits.
func NewBuilder(windows []timewindow.Definition, loc *time.Location) *Builder {
	return &Builder{
		Windows:       windows,
		ActionLimit:   DefaultActionLimit,
		AppLimit:      DefaultAppLimit,
		SequenceLimit: DefaultSequenceLimit,
		Location:      loc,
	}
}

// Build produces one summary per window, in window table order.
//
// Windows with no matching actions (or apps) get the global top entries from
// stats instead, so every window carries hints whenever any history exists.
func (b *Builder) Build(events []storage.ActionEvent, stats []storage.ActionStat) Payload {
	loc := b.Location
	if loc == nil {
		loc = time.UTC
	}

	ordered := make([]storage.ActionEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	fallbackActions, fallbackApps := b.fallbacks(stats)

	p := Payload{
		TimeWindowStats: make([]WindowUsageSummary, 0, len(b.Windows)),
		RecentAnomalies: []string{},
	}
	for _, def := range b.Windows {
		var matched []storage.ActionEvent
		for _, e := range ordered {
			if def.Contains(e.Timestamp.In(loc)) {
				matched = append(matched, e)
			}
		}

		actions := b.topActions(matched)
		if len(actions) == 0 {
			actions = fallbackActions
		}
		apps := b.topApps(matched)
		if len(apps) == 0 {
			apps = fallbackApps
		}

		p.TimeWindowStats = append(p.TimeWindowStats, WindowUsageSummary{
			WindowID:             def.ID,
			TopActions:           actions,
			TopApps:              apps,
			RecentActionSequence: b.recentSequence(matched),
		})
	}
	return p
}

func (b *Builder) fallbacks(stats []storage.ActionStat) ([]ActionCount, []AppCount) {
	actions := []ActionCount{}
	apps := []AppCount{}
	for _, s := range stats {
		if storage.IsAppID(s.ActionID) {
			if len(apps) < b.AppLimit {
				apps = append(apps, AppCount{PackageName: storage.PackageName(s.ActionID), Count: s.Count})
			}
			continue
		}
		if len(actions) < b.ActionLimit {
			actions = append(actions, ActionCount{ID: s.ActionID, Count: s.Count, SuccessRate: 1.0})
		}
	}
	return actions, apps
}

func (b *Builder) topActions(events []storage.ActionEvent) []ActionCount {
	var ids []string
	for _, e := range events {
		if !e.IsApp() {
			ids = append(ids, e.ActionID)
		}
	}
	ranked := countByFirstSeen(ids, b.ActionLimit)
	out := make([]ActionCount, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, ActionCount{ID: r.key, Count: r.count, SuccessRate: 1.0})
	}
	return out
}

func (b *Builder) topApps(events []storage.ActionEvent) []AppCount {
	var pkgs []string
	for _, e := range events {
		if e.IsApp() {
			pkgs = append(pkgs, storage.PackageName(e.ActionID))
		}
	}
	ranked := countByFirstSeen(pkgs, b.AppLimit)
	out := make([]AppCount, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, AppCount{PackageName: r.key, Count: r.count})
	}
	return out
}

// recentSequence returns the most recent distinct shortcut ids, oldest first.
func (b *Builder) recentSequence(events []storage.ActionEvent) []string {
	seen := make(map[string]bool)
	var newestFirst []string
	for i := len(events) - 1; i >= 0 && len(newestFirst) < b.SequenceLimit; i-- {
		e := events[i]
		if e.IsApp() || seen[e.ActionID] {
			continue
		}
		seen[e.ActionID] = true
		newestFirst = append(newestFirst, e.ActionID)
	}

	out := make([]string, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		out = append(out, newestFirst[i])
	}
	return out
}

type keyCount struct {
	key   string
	count int
}

// countByFirstSeen counts keys and returns the top limit by count, ties in
// first-seen order.
func countByFirstSeen(keys []string, limit int) []keyCount {
	index := make(map[string]int)
	var counts []keyCount
	for _, k := range keys {
		if i, ok := index[k]; ok {
			counts[i].count++
			continue
		}
		index[k] = len(counts)
		counts = append(counts, keyCount{key: k, count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}
