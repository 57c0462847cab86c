package learning

import (
	"sort"

	"github.com/khanglvm/action-hub/internal/storage"
)

// App list sizes.
const (
	DefaultRecentLimit    = 12
	DefaultFavoritesLimit = 5
)

// AppUsage is an app with its launch count.
type AppUsage struct {
	PackageName string `json:"packageName"`
	Count       int    `json:"count"`
}

// RecentApps returns the distinct apps of events in order, newest first when
// events are newest first, up to limit.
func RecentApps(events []storage.ActionEvent, limit int) []string {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	seen := make(map[string]bool)
	out := make([]string, 0, limit)
	for _, e := range events {
		if len(out) == limit {
			break
		}
		if !e.IsApp() {
			continue
		}
		pkg := storage.PackageName(e.ActionID)
		if pkg == "" || seen[pkg] {
			continue
		}
		seen[pkg] = true
		out = append(out, pkg)
	}
	return out
}

// FavoriteApps returns pinned apps followed by the most launched ones,
// distinct, up to limit. Only pins carrying the app prefix count.
func FavoriteApps(pins []string, stats []storage.ActionStat, limit int) []AppUsage {
	if limit <= 0 {
		limit = DefaultFavoritesLimit
	}

	counts := make(map[string]int)
	var ranked []AppUsage
	for _, s := range stats {
		if !storage.IsAppID(s.ActionID) {
			continue
		}
		pkg := storage.PackageName(s.ActionID)
		if _, ok := counts[pkg]; ok {
			continue
		}
		counts[pkg] = s.Count
		ranked = append(ranked, AppUsage{PackageName: pkg, Count: s.Count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	seen := make(map[string]bool)
	out := make([]AppUsage, 0, limit)
	add := func(a AppUsage) {
		if len(out) < limit && a.PackageName != "" && !seen[a.PackageName] {
			seen[a.PackageName] = true
			out = append(out, a)
		}
	}
	for _, p := range pins {
		if storage.IsAppID(p) {
			pkg := storage.PackageName(p)
			add(AppUsage{PackageName: pkg, Count: counts[pkg]})
		}
	}
	for _, a := range ranked {
		add(a)
	}
	return out
}
