package learning

import (
	"reflect"
	"testing"
	"time"

	"github.com/khanglvm/action-hub/internal/storage"
)

func TestRecentApps(t *testing.T) {
	now := time.Now()
	events := []storage.ActionEvent{
		{ActionID: "app:com.b", Timestamp: now},
		{ActionID: "gmail_inbox", Timestamp: now.Add(-time.Minute)},
		{ActionID: "app:com.a", Timestamp: now.Add(-2 * time.Minute)},
		{ActionID: "app:com.b", Timestamp: now.Add(-3 * time.Minute)},
		{ActionID: "app:com.c", Timestamp: now.Add(-4 * time.Minute)},
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"all", 10, []string{"com.b", "com.a", "com.c"}},
		{"limited", 2, []string{"com.b", "com.a"}},
		{"default limit", 0, []string{"com.b", "com.a", "com.c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecentApps(events, tt.limit); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RecentApps() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := RecentApps(nil, 3); got == nil || len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestFavoriteApps(t *testing.T) {
	stats := []storage.ActionStat{
		{ActionID: "gmail_inbox", Count: 50},
		{ActionID: "app:com.a", Count: 3},
		{ActionID: "app:com.b", Count: 9},
		{ActionID: "app:com.c", Count: 1},
	}

	got := FavoriteApps([]string{"app:com.c", "maps_view"}, stats, 3)
	want := []AppUsage{
		{PackageName: "com.c", Count: 1},
		{PackageName: "com.b", Count: 9},
		{PackageName: "com.a", Count: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FavoriteApps() = %+v, want %+v", got, want)
	}

	if got := FavoriteApps(nil, stats, 1); len(got) != 1 || got[0].PackageName != "com.b" {
		t.Errorf("expected most launched app first, got %+v", got)
	}
}
