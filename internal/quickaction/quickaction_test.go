package quickaction

import (
	"strings"
	"testing"
)

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		in   string
		want ActionType
		ok   bool
	}{
		{"APP_DEEP_LINK", BrowserURL, true},
		{"url", BrowserURL, true},
		{"APP_MAIN", OpenApp, true},
		{" maps_navigation ", MapNavigation, true},
		{"MAPS_VIEW", MapView, true},
		{"CALENDAR_INSERT", CalendarInsert, true},
		{"DISCORD_OPEN", DiscordOpen, true},
		{"WEB_SEARCH", "", false},
		{"TELEPORT", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizeType(%q) = %q,%v want %q,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseType(t *testing.T) {
	if typ, ok := ParseType("WEB_SEARCH"); !ok || typ != WebSearch {
		t.Errorf("ParseType(WEB_SEARCH) = %q,%v", typ, ok)
	}
	if _, ok := ParseType("web_search"); ok {
		t.Error("ParseType must be exact")
	}
}

func TestStaticActionsFlattensInOrder(t *testing.T) {
	providers := []Provider{
		NewProvider("one", Action{ID: "a", Type: BrowserURL, Data: "https://a"}, Action{ID: "b", Type: OpenApp}),
		NewProvider("two", Action{ID: "c", Type: BrowserURL, Data: "https://c"}),
	}

	all := StaticActions(providers, nil)
	if len(all) != 3 {
		t.Fatalf("Expected 3 actions, got %d", len(all))
	}
	if all[2].ProviderID != "two" || all[0].Source != SourceStatic {
		t.Errorf("Unexpected action metadata: %+v", all[2])
	}

	launchable := StaticActions(providers, Launchable)
	var ids []string
	for _, a := range launchable {
		ids = append(ids, a.ID)
	}
	if strings.Join(ids, ",") != "a,c" {
		t.Errorf("Expected OPEN_APP without data to be unavailable, got %v", ids)
	}
}

func TestDefaultProvidersAreLaunchable(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range StaticActions(DefaultProviders(), nil) {
		if seen[a.ID] {
			t.Errorf("duplicate action id %s", a.ID)
		}
		seen[a.ID] = true
		if !Launchable(a) {
			t.Errorf("built-in action %s is not launchable", a.ID)
		}
	}
	if !seen["maps_open"] || !seen["gmail_inbox"] {
		t.Error("expected maps and gmail actions")
	}
}

func TestTarget(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		query  string
		want   string
		ok     bool
	}{
		{"search appends escaped query", Action{Type: WebSearch, Data: "https://s?q="}, "go lang", "https://s?q=go+lang", true},
		{"search without data", Action{Type: WebSearch}, "x", "", false},
		{"browser url", Action{Type: BrowserURL, Data: "https://x.com"}, "", "https://x.com", true},
		{"calendar default", Action{Type: CalendarView}, "", calendarViewURL, true},
		{"compose default", Action{Type: EmailCompose}, "", "mailto:", true},
		{"open app without data", Action{Type: OpenApp, PackageName: "com.x"}, "", "", false},
		{"unknown type", Action{Type: "NOPE", Data: "https://x"}, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Target(tt.action, tt.query)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Target = %q,%v want %q,%v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	actions := []Action{{ID: "1", Label: "Google Drive"}, {ID: "2", Label: "YouTube"}, {ID: "3", Label: "Drive starred"}}
	if got := Filter(actions, "drive"); len(got) != 2 {
		t.Errorf("Expected 2 matches, got %+v", got)
	}
	if got := Filter(actions, "  "); len(got) != 3 {
		t.Errorf("Blank query should return everything, got %d", len(got))
	}
}

func TestIndexFirstWins(t *testing.T) {
	idx := Index([]Action{{ID: "a", Label: "first"}, {ID: "a", Label: "second"}})
	if idx["a"].Label != "first" {
		t.Errorf("Expected first occurrence, got %q", idx["a"].Label)
	}
}
