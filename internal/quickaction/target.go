package quickaction

import (
	"net/url"
	"strings"
)

// Fixed web targets for types that carry no data of their own.
const (
	calendarViewURL   = "https://calendar.google.com/calendar/r/day"
	calendarInsertURL = "https://calendar.google.com/calendar/r/eventedit"
	emailInboxURL     = "https://mail.google.com/mail/u/0/#inbox"
	emailComposeURI   = "mailto:"
	discordAppURL     = "https://discord.com/channels/@me"
)

// Target resolves the URI an opener should launch for a, with query appended
// for search and map actions. It reports false when nothing can be launched.
func Target(a Action, query string) (string, bool) {
	data := strings.TrimSpace(a.Data)

	var target string
	switch a.Type {
	case OpenApp:
		target = data
	case EmailInbox:
		target = orDefault(data, emailInboxURL)
	case DiscordOpen:
		target = orDefault(data, discordAppURL)
	case WebSearch:
		if data != "" {
			target = data + url.QueryEscape(query)
		}
	case MapView, MapNavigation:
		if data != "" {
			target = data + url.QueryEscape(query)
		}
	case CalendarView:
		target = orDefault(data, calendarViewURL)
	case CalendarInsert:
		target = orDefault(data, calendarInsertURL)
	case EmailCompose:
		target = orDefault(data, emailComposeURI)
	case BrowserURL:
		target = data
	}

	if target == "" {
		return "", false
	}
	return target, true
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
