/*
Package quickaction defines quick actions, the providers that contribute the
built-in ones, and how an action resolves to something the opener can launch.
*/
package quickaction

import (
	"strings"
)

// ActionType is the kind of launch an action performs.
type ActionType string

const (
	OpenApp        ActionType = "OPEN_APP"
	WebSearch      ActionType = "WEB_SEARCH"
	MapView        ActionType = "MAP_VIEW"
	MapNavigation  ActionType = "MAP_NAVIGATION"
	CalendarView   ActionType = "CALENDAR_VIEW"
	CalendarInsert ActionType = "CALENDAR_INSERT"
	EmailInbox     ActionType = "EMAIL_INBOX"
	EmailCompose   ActionType = "EMAIL_COMPOSE"
	DiscordOpen    ActionType = "DISCORD_OPEN"
	BrowserURL     ActionType = "BROWSER_URL"
)

// typeAliases maps remote action type names to known types. Names not
// listed here are not launchable and are dropped.
var typeAliases = map[string]ActionType{
	"APP_DEEP_LINK":   BrowserURL,
	"URL":             BrowserURL,
	"APP_MAIN":        OpenApp,
	"MAPS_NAVIGATION": MapNavigation,
	"MAPS_VIEW":       MapView,
	"EMAIL_COMPOSE":   EmailCompose,
	"EMAIL_INBOX":     EmailInbox,
	"CALENDAR_VIEW":   CalendarView,
	"CALENDAR_INSERT": CalendarInsert,
	"BROWSER_URL":     BrowserURL,
	"DISCORD_OPEN":    DiscordOpen,
}

// NormalizeType maps a remote action type name to a known type.
func NormalizeType(raw string) (ActionType, bool) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if key == "" {
		return "", false
	}
	t, ok := typeAliases[key]
	return t, ok
}

// ParseType resolves an exact type name, as stored in the catalog.
func ParseType(raw string) (ActionType, bool) {
	switch t := ActionType(raw); t {
	case OpenApp, WebSearch, MapView, MapNavigation, CalendarView,
		CalendarInsert, EmailInbox, EmailCompose, DiscordOpen, BrowserURL:
		return t, true
	}
	return "", false
}

// Source tells where an action came from.
type Source string

const (
	SourceStatic Source = "static"
	SourceAI     Source = "ai"
)

// Action is a launchable quick action.
type Action struct {
	ID          string     `json:"id"`
	ProviderID  string     `json:"providerId"`
	Label       string     `json:"label"`
	Type        ActionType `json:"actionType"`
	Data        string     `json:"data,omitempty"`
	PackageName string     `json:"packageName,omitempty"`
	Priority    int        `json:"priority"`
	Source      Source     `json:"source"`
}

// Provider contributes built-in actions.
type Provider interface {
	ID() string
	Actions() []Action
}

// Availability reports whether an action can be launched on this machine.
type Availability func(Action) bool

// AlwaysAvailable accepts every action.
func AlwaysAvailable(Action) bool { return true }

// Launchable accepts actions that resolve to a non-empty target.
func Launchable(a Action) bool {
	_, ok := Target(a, "")
	return ok
}

// StaticActions flattens providers in order and keeps available actions.
func StaticActions(providers []Provider, available Availability) []Action {
	if available == nil {
		available = AlwaysAvailable
	}
	var out []Action
	for _, p := range providers {
		for _, a := range p.Actions() {
			if a.ProviderID == "" {
				a.ProviderID = p.ID()
			}
			a.Source = SourceStatic
			if available(a) {
				out = append(out, a)
			}
		}
	}
	return out
}

// Filter returns actions whose label contains query, case-insensitively.
// An empty query returns all actions.
func Filter(actions []Action, query string) []Action {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return actions
	}
	var out []Action
	for _, a := range actions {
		if strings.Contains(strings.ToLower(a.Label), q) {
			out = append(out, a)
		}
	}
	return out
}

// Index maps action ids to actions; the first occurrence of an id wins.
func Index(actions []Action) map[string]Action {
	out := make(map[string]Action, len(actions))
	for _, a := range actions {
		if _, ok := out[a.ID]; !ok {
			out[a.ID] = a
		}
	}
	return out
}
