package hub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/khanglvm/action-hub/internal/catalog"
	"github.com/khanglvm/action-hub/internal/learning"
	"github.com/khanglvm/action-hub/internal/plan"
	"github.com/khanglvm/action-hub/internal/quickaction"
	"github.com/khanglvm/action-hub/internal/recommend"
	"github.com/khanglvm/action-hub/internal/search"
	"github.com/khanglvm/action-hub/internal/storage"
	"github.com/khanglvm/action-hub/internal/timewindow"
)

// StaticActions returns the launchable built-in actions.
func (h *Hub) StaticActions() []quickaction.Action {
	return quickaction.StaticActions(h.providers, quickaction.Launchable)
}

// QuickActions returns built-in and AI actions that are not dismissed,
// highest priority first. Plan suppressions are not applied.
func (h *Hub) QuickActions() []quickaction.Action {
	return h.Resolver.Candidates(h.StaticActions(), h.Catalog.Snapshot().Entries, nil)
}

// Recommend resolves the recommended actions for now.
func (h *Hub) Recommend() (recommend.Result, error) {
	stats, err := h.db.StatsByFrequency(h.cfg.Settings.StatsLimit)
	if err != nil {
		return recommend.Result{}, fmt.Errorf("failed to read stats: %w", err)
	}
	return h.Resolver.Resolve(recommend.Input{
		Static: h.StaticActions(),
		AI:     h.Catalog.Snapshot().Entries,
		Stats:  stats,
		Plan:   h.Plans.Snapshot(),
		Now:    h.now().In(h.loc),
	}), nil
}

// Preview labels the current plan.
func (h *Hub) Preview() recommend.Preview {
	return recommend.BuildPreview(h.Plans.Snapshot(), h.QuickActions(), timewindow.Labels(h.windows))
}

// HubLists groups catalog entries by the user's response.
func (h *Hub) HubLists() recommend.HubLists {
	return recommend.Hub(h.Catalog.Snapshot())
}

// Plan returns the current plan, or nil before the first sync.
func (h *Hub) Plan() *plan.Plan {
	return h.Plans.Snapshot()
}

// Search ranks quick actions by label.
func (h *Hub) Search(query string, limit int) ([]search.SearchResult, error) {
	actions := h.QuickActions()
	if err := h.refreshIndex(actions); err != nil {
		return nil, err
	}
	return h.Index.SearchHybrid(query, actions, limit, search.DefaultFusionConfig)
}

// refreshIndex reindexes actions when they differ from the indexed set.
func (h *Hub) refreshIndex(actions []quickaction.Action) error {
	var b strings.Builder
	for _, a := range actions {
		b.WriteString(a.ID)
		b.WriteByte(0)
		b.WriteString(a.Label)
		b.WriteByte(0)
	}
	version := b.String()

	h.indexMu.Lock()
	defer h.indexMu.Unlock()
	if h.indexed && version == h.indexVersion {
		return nil
	}
	if err := h.Index.Reindex(actions); err != nil {
		return err
	}
	h.indexed = true
	h.indexVersion = version
	return nil
}

// Find returns the action with the given id: a built-in action, or a
// catalog entry even when it was dismissed.
func (h *Hub) Find(id string) (quickaction.Action, error) {
	for _, a := range h.StaticActions() {
		if a.ID == id {
			return a, nil
		}
	}
	if e, ok := h.Catalog.Snapshot().Entry(id); ok {
		if a, ok := e.ToAction(); ok {
			return a, nil
		}
	}
	return quickaction.Action{}, fmt.Errorf("%w: %s", ErrUnknownAction, id)
}

// Launch opens an action and records its use. It returns the opened target.
func (h *Hub) Launch(ctx context.Context, id, query string) (string, error) {
	a, err := h.Find(id)
	if err != nil {
		return "", err
	}
	return h.Executor.Execute(ctx, a, query)
}

// Record queues an invocation for the event log.
func (h *Hub) Record(e learning.Event) {
	h.Tracker.Track(e)
}

// Accept marks an AI action as adopted.
func (h *Hub) Accept(id string) error {
	return h.updateEntry(id, h.Catalog.IncrementAccepted)
}

// Dismiss hides an AI action from recommendations.
func (h *Hub) Dismiss(id string) error {
	return h.updateEntry(id, h.Catalog.IncrementDismissed)
}

// Restore lifts a dismissal.
func (h *Hub) Restore(id string) error {
	return h.updateEntry(id, h.Catalog.ClearDismissed)
}

func (h *Hub) updateEntry(id string, update func(string) error) error {
	if _, ok := h.Catalog.Snapshot().Entry(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, id)
	}
	return update(id)
}

// Apps lists recent and favorite apps from the event log.
type Apps struct {
	Recent    []string            `json:"recent"`
	Favorites []learning.AppUsage `json:"favorites"`
}

// Apps returns the recent and favorite apps.
func (h *Hub) Apps() (Apps, error) {
	events, err := h.db.RecentEvents(h.cfg.Settings.PayloadEventLimit)
	if err != nil {
		return Apps{}, fmt.Errorf("failed to read events: %w", err)
	}
	stats, err := h.db.StatsByFrequency(h.cfg.Settings.StatsLimit)
	if err != nil {
		return Apps{}, fmt.Errorf("failed to read stats: %w", err)
	}
	var pins []string
	if p := h.Plans.Snapshot(); p != nil {
		pins = p.GlobalPins
	}
	return Apps{
		Recent:    learning.RecentApps(events, h.cfg.Settings.RecentLimit),
		Favorites: learning.FavoriteApps(pins, stats, learning.DefaultFavoritesLimit),
	}, nil
}

// Export is a dump of everything the hub stores.
type Export struct {
	ExportedAt time.Time             `json:"exportedAt"`
	Events     []storage.ActionEvent `json:"events"`
	Stats      []storage.ActionStat  `json:"stats"`
	Plan       *plan.Plan            `json:"plan"`
	Catalog    catalog.Catalog       `json:"catalog"`
}

// Export reads up to limit recent events and stats plus the plan and catalog.
func (h *Hub) Export(limit int) (Export, error) {
	events, err := h.db.RecentEvents(limit)
	if err != nil {
		return Export{}, fmt.Errorf("failed to read events: %w", err)
	}
	stats, err := h.db.StatsByFrequency(limit)
	if err != nil {
		return Export{}, fmt.Errorf("failed to read stats: %w", err)
	}
	return Export{
		ExportedAt: h.now(),
		Events:     events,
		Stats:      stats,
		Plan:       h.Plans.Snapshot(),
		Catalog:    h.Catalog.Snapshot(),
	}, nil
}
