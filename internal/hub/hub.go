/*
Package hub wires action-hub together.

A Hub is constructed once per process from the configuration. It owns the
event database, the blob backend, the plan and catalog stores, the sync
scheduler and the search index, and hands the same instances to every
surface (CLI commands and the MCP server).
*/
package hub

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/khanglvm/action-hub/internal/catalog"
	"github.com/khanglvm/action-hub/internal/config"
	"github.com/khanglvm/action-hub/internal/launcher"
	"github.com/khanglvm/action-hub/internal/learning"
	"github.com/khanglvm/action-hub/internal/payload"
	"github.com/khanglvm/action-hub/internal/plan"
	"github.com/khanglvm/action-hub/internal/plansync"
	"github.com/khanglvm/action-hub/internal/quickaction"
	"github.com/khanglvm/action-hub/internal/recommend"
	"github.com/khanglvm/action-hub/internal/remote"
	"github.com/khanglvm/action-hub/internal/search"
	"github.com/khanglvm/action-hub/internal/storage"
	"github.com/khanglvm/action-hub/internal/timewindow"
)

// ErrUnknownAction is returned for action ids that are neither built in nor
// in the catalog.
var ErrUnknownAction = errors.New("unknown action")

// Option customizes a Hub.
type Option func(*options)

type options struct {
	client    remote.PlanClient
	opener    launcher.Opener
	network   plansync.NetworkChecker
	sink      plansync.ProgressSink
	providers []quickaction.Provider
	now       func() time.Time
}

// WithClient replaces the Gemini plan client.
func WithClient(c remote.PlanClient) Option {
	return func(o *options) { o.client = c }
}

// WithOpener replaces the command opener used to launch actions.
func WithOpener(op launcher.Opener) Option {
	return func(o *options) { o.opener = op }
}

// WithNetwork replaces the network check used by the scheduler.
func WithNetwork(n plansync.NetworkChecker) Option {
	return func(o *options) { o.network = n }
}

// WithProgress adds a sink receiving every sync state transition.
func WithProgress(s plansync.ProgressSink) Option {
	return func(o *options) { o.sink = s }
}

// WithProviders replaces the built-in action providers.
func WithProviders(p ...quickaction.Provider) Option {
	return func(o *options) { o.providers = p }
}

// WithClock replaces the clock used for recommendations and maintenance.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Hub is the process-wide owner of every store.
type Hub struct {
	cfg       *config.Config
	loc       *time.Location
	windows   []timewindow.Definition
	providers []quickaction.Provider
	now       func() time.Time

	db     *storage.SQLiteStorage
	badger *storage.BadgerBlobStore

	Plans     *plan.Store
	Catalog   *catalog.Store
	Tracker   *learning.Tracker
	Resolver  *recommend.Resolver
	Runner    *plansync.Runner
	Scheduler *plansync.Scheduler
	Executor  *launcher.Executor
	Index     *search.Indexer

	indexMu      sync.Mutex
	indexVersion string
	indexed      bool

	closeOnce sync.Once
}

// Open builds a Hub from cfg. The caller must Close it.
func Open(cfg *config.Config, opts ...Option) (*Hub, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	o := options{providers: quickaction.DefaultProviders(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	s := cfg.Settings
	loc, err := s.Location()
	if err != nil {
		return nil, err
	}
	dataDir, err := s.ResolvedDataDir()
	if err != nil {
		return nil, err
	}

	h := &Hub{
		cfg:       cfg,
		loc:       loc,
		windows:   timewindow.DefaultWindows(),
		providers: o.providers,
		now:       o.now,
	}

	h.db = storage.NewStorage(dataDir)
	if err := h.db.Init(); err != nil {
		log.Printf("Warning: event log unavailable: %v", err)
	}

	var blobs storage.BlobStore = h.db
	if s.Backend == config.BackendBadger {
		h.badger, err = storage.NewBadgerBlobStore(filepath.Join(dataDir, "blobs"))
		if err != nil {
			h.db.Close()
			return nil, err
		}
		blobs = h.badger
	}

	if h.Plans, err = plan.NewStore(blobs); err != nil {
		h.closeStores()
		return nil, err
	}
	if h.Catalog, err = catalog.NewStore(blobs); err != nil {
		h.closeStores()
		return nil, err
	}
	if h.Index, err = search.NewIndexer(); err != nil {
		h.closeStores()
		return nil, err
	}

	h.Tracker = learning.NewTracker(h.db)
	h.Resolver = recommend.NewResolver(s.Slots, quickaction.Launchable)

	client := o.client
	if client == nil {
		client = remote.NewGeminiClient(s.Model, s.RemoteTimeout(), windowIDs(h.windows))
	}
	h.Runner = plansync.NewRunner(plansync.Deps{
		Events:     h.db,
		Plans:      h.Plans,
		Catalog:    h.Catalog,
		Client:     client,
		Builder:    payload.NewBuilder(h.windows, loc),
		Credential: func() string { return h.cfg.GeminiAPIKey },
	}, plansync.Options{
		MinSyncInterval:      s.MinSyncInterval(),
		ManualBypassThrottle: s.ManualBypassThrottle,
		EventLimit:           s.PayloadEventLimit,
		StatsLimit:           s.StatsLimit,
		RemoteTimeout:        s.RemoteTimeout(),
	})

	network := o.network
	if network == nil {
		network = plansync.DialChecker{Address: s.NetworkProbeAddress}
	}
	sink := plansync.MultiSink{plansync.LogSink{}, o.sink}
	h.Scheduler = plansync.NewScheduler(&maintainedJob{hub: h}, network, sink)

	opener := o.opener
	if opener == nil {
		opener = launcher.CommandOpener{Command: s.OpenerCommand}
	}
	h.Executor = launcher.NewExecutor(opener, h.Catalog, h.Tracker)

	return h, nil
}

// Config returns the configuration the hub was built from.
func (h *Hub) Config() *config.Config {
	return h.cfg
}

// Location returns the time zone used for windows.
func (h *Hub) Location() *time.Location {
	return h.loc
}

// Windows returns the time window definitions.
func (h *Hub) Windows() []timewindow.Definition {
	return h.windows
}

// DBPath returns the event database path.
func (h *Hub) DBPath() string {
	return h.db.Path()
}

// Close stops background work, flushes queued events and closes storage.
func (h *Hub) Close() error {
	var err error
	h.closeOnce.Do(func() {
		h.Scheduler.Stop()
		h.Tracker.Stop()
		if cerr := h.Index.Close(); cerr != nil {
			log.Printf("Warning: failed to close search index: %v", cerr)
		}
		err = h.closeStores()
	})
	return err
}

func (h *Hub) closeStores() error {
	var errs []error
	if h.badger != nil {
		if err := h.badger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := h.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func windowIDs(defs []timewindow.Definition) []string {
	ids := make([]string, len(defs))
	for i, d := range defs {
		ids[i] = d.ID
	}
	return ids
}
