package quickaction

// staticProvider is a Provider over a fixed action list.
type staticProvider struct {
	id      string
	actions []Action
}

func (p staticProvider) ID() string { return p.id }

func (p staticProvider) Actions() []Action {
	out := make([]Action, len(p.actions))
	copy(out, p.actions)
	for i := range out {
		out[i].ProviderID = p.id
	}
	return out
}

// NewProvider creates a provider over a fixed list of actions.
func NewProvider(id string, actions ...Action) Provider {
	return staticProvider{id: id, actions: actions}
}

// DefaultProviders returns the built-in providers in display order.
func DefaultProviders() []Provider {
	return []Provider{
		GoogleCalendar(),
		GoogleMaps(),
		Gmail(),
		GoogleApps(),
		Brave(),
		Discord(),
	}
}

func GoogleCalendar() Provider {
	const pkg = "com.google.android.calendar"
	return NewProvider("google_calendar",
		Action{ID: "google_calendar_today", Label: "Today's schedule", Type: CalendarView, PackageName: pkg, Priority: 3},
		Action{ID: "google_calendar_new", Label: "New event", Type: CalendarInsert, PackageName: pkg, Priority: 2},
	)
}

func GoogleMaps() Provider {
	const pkg = "com.google.android.apps.maps"
	return NewProvider("google_maps",
		Action{ID: "maps_open", Label: "Open maps", Type: MapView, Data: "https://www.google.com/maps/search/?api=1&query=", PackageName: pkg, Priority: 3},
		Action{ID: "maps_navi", Label: "Start navigation", Type: MapNavigation, Data: "https://www.google.com/maps/dir/?api=1&destination=", PackageName: pkg, Priority: 2},
	)
}

func Gmail() Provider {
	const pkg = "com.google.android.gm"
	return NewProvider("gmail",
		Action{ID: "gmail_inbox", Label: "Unread mail", Type: EmailInbox, PackageName: pkg, Priority: 3},
		Action{ID: "gmail_compose", Label: "Compose mail", Type: EmailCompose, PackageName: pkg, Priority: 2},
	)
}

// GoogleApps covers search, Drive, Docs, Meet, Keep, Photos and YouTube.
func GoogleApps() Provider {
	const (
		search  = "com.google.android.googlequicksearchbox"
		drive   = "com.google.android.apps.docs"
		meet    = "com.google.android.apps.tachyon"
		keep    = "com.google.android.keep"
		photos  = "com.google.android.apps.photos"
		youtube = "com.google.android.youtube"
	)
	return NewProvider("google_apps",
		Action{ID: "google_search_query", Label: "Google search", Type: WebSearch, Data: "https://www.google.com/search?q=", PackageName: search, Priority: 6},
		Action{ID: "google_search_image", Label: "Image search", Type: WebSearch, Data: "https://www.google.com/search?tbm=isch&q=", PackageName: search, Priority: 5},
		Action{ID: "google_search_news", Label: "News search", Type: WebSearch, Data: "https://www.google.com/search?tbm=nws&q=", PackageName: search, Priority: 4},
		Action{ID: "google_drive_open", Label: "Google Drive", Type: OpenApp, Data: "https://drive.google.com/", PackageName: drive, Priority: 6},
		Action{ID: "google_drive_starred", Label: "Starred files", Type: BrowserURL, Data: "https://drive.google.com/drive/starred", PackageName: drive, Priority: 5},
		Action{ID: "google_drive_shared", Label: "Shared with me", Type: BrowserURL, Data: "https://drive.google.com/drive/shared-with-me", PackageName: drive, Priority: 4},
		Action{ID: "google_docs_create", Label: "New document", Type: BrowserURL, Data: "https://docs.new", Priority: 3},
		Action{ID: "google_sheets_create", Label: "New spreadsheet", Type: BrowserURL, Data: "https://sheets.new", Priority: 3},
		Action{ID: "google_slides_create", Label: "New presentation", Type: BrowserURL, Data: "https://slides.new", Priority: 3},
		Action{ID: "google_meet_open", Label: "Google Meet", Type: OpenApp, Data: "https://meet.google.com/", PackageName: meet, Priority: 5},
		Action{ID: "google_meet_new", Label: "New meeting", Type: BrowserURL, Data: "https://meet.google.com/new", PackageName: meet, Priority: 4},
		Action{ID: "google_keep_open", Label: "Google Keep", Type: OpenApp, Data: "https://keep.google.com/", PackageName: keep, Priority: 4},
		Action{ID: "google_keep_new_note", Label: "New note", Type: BrowserURL, Data: "https://keep.new", PackageName: keep, Priority: 3},
		Action{ID: "google_photos_open", Label: "Google Photos", Type: OpenApp, Data: "https://photos.google.com/", PackageName: photos, Priority: 3},
		Action{ID: "youtube_open", Label: "YouTube", Type: OpenApp, Data: "https://www.youtube.com/", PackageName: youtube, Priority: 5},
		Action{ID: "youtube_search", Label: "YouTube search", Type: WebSearch, Data: "https://www.youtube.com/results?search_query=", PackageName: youtube, Priority: 4},
	)
}

func Brave() Provider {
	const pkg = "com.brave.browser"
	return NewProvider("brave",
		Action{ID: "brave_open", Label: "Brave", Type: OpenApp, Data: "https://search.brave.com/", PackageName: pkg, Priority: 2},
		Action{ID: "brave_search", Label: "Brave search", Type: WebSearch, Data: "https://search.brave.com/search?q=", PackageName: pkg, Priority: 3},
		Action{ID: "brave_x", Label: "X", Type: BrowserURL, Data: "https://x.com", PackageName: pkg, Priority: 1},
		Action{ID: "brave_perplexity", Label: "Perplexity", Type: BrowserURL, Data: "https://www.perplexity.ai", PackageName: pkg, Priority: 1},
		Action{ID: "brave_github", Label: "GitHub", Type: BrowserURL, Data: "https://github.com", PackageName: pkg, Priority: 1},
	)
}

func Discord() Provider {
	const pkg = "com.discord"
	return NewProvider("discord",
		Action{ID: "discord_open", Label: "Discord", Type: DiscordOpen, PackageName: pkg, Priority: 4},
		Action{ID: "discord_dm_inbox", Label: "Discord direct messages", Type: BrowserURL, Data: "https://discord.com/channels/@me", PackageName: pkg, Priority: 3},
	)
}
