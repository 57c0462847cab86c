package plansync

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/khanglvm/action-hub/internal/payload"
	"github.com/khanglvm/action-hub/internal/plan"
	"github.com/khanglvm/action-hub/internal/remote"
	"github.com/khanglvm/action-hub/internal/storage"
	"github.com/khanglvm/action-hub/internal/timewindow"
)

// Trigger tells why an attempt runs.
type Trigger int

const (
	Periodic Trigger = iota
	Manual
)

func (t Trigger) String() string {
	if t == Manual {
		return "manual"
	}
	return "periodic"
}

// Default runner limits.
const (
	DefaultEventLimit      = 200
	DefaultStatsLimit      = 50
	DefaultMinSyncInterval = 3 * time.Hour
)

// PlanStore is the plan storage a runner reads and replaces.
type PlanStore interface {
	Snapshot() *plan.Plan
	Update(p *plan.Plan) error
}

// CatalogMerger receives a plan's new actions.
type CatalogMerger interface {
	MergeFromPlan(actions []plan.SuggestedAction, generatedAt time.Time) error
}

// Deps are the collaborators of a Runner.
type Deps struct {
	Events  storage.EventReader
	Plans   PlanStore
	Catalog CatalogMerger
	Client  remote.PlanClient
	Builder *payload.Builder

	// Credential returns the API key; blank disables syncing.
	Credential func() string
}

// Options tune a Runner.
type Options struct {
	MinSyncInterval      time.Duration
	ManualBypassThrottle bool
	EventLimit           int
	StatsLimit           int
	RemoteTimeout        time.Duration
}

// Runner performs single sync attempts.
type Runner struct {
	deps Deps
	opts Options
	now  func() time.Time
}

// NewRunner creates a runner. Zero limits are replaced by the defaults.
func NewRunner(deps Deps, opts Options) *Runner {
	if opts.EventLimit <= 0 {
		opts.EventLimit = DefaultEventLimit
	}
	if opts.StatsLimit <= 0 {
		opts.StatsLimit = DefaultStatsLimit
	}
	if opts.MinSyncInterval < 0 {
		opts.MinSyncInterval = 0
	}
	if deps.Credential == nil {
		deps.Credential = func() string { return "" }
	}
	return &Runner{deps: deps, opts: opts, now: time.Now}
}

// Run performs one attempt and returns its terminal state. Every
// transition is reported to sink.
func (r *Runner) Run(ctx context.Context, jobID string, trigger Trigger, sink ProgressSink) State {
	report := func(s State) State {
		if sink != nil {
			sink.Report(jobID, s)
		}
		return s
	}

	now := r.now()

	if r.throttled(now, trigger) {
		return report(StateOf(Succeeded))
	}

	events, err := r.deps.Events.RecentEvents(r.opts.EventLimit)
	if err != nil {
		return report(FailedState(fmt.Sprintf("failed to read events: %v", err)))
	}
	stats, err := r.deps.Events.StatsByFrequency(r.opts.StatsLimit)
	if err != nil {
		return report(FailedState(fmt.Sprintf("failed to read stats: %v", err)))
	}
	if len(events) == 0 && len(stats) == 0 {
		return report(StateOf(Succeeded))
	}

	credential := strings.TrimSpace(r.deps.Credential())
	if credential == "" {
		return report(StateOf(Succeeded))
	}

	report(StateOf(Running))

	body, err := r.deps.Builder.Build(events, stats).JSON()
	if err != nil {
		return report(FailedState(err.Error()))
	}

	fetchCtx := ctx
	if r.opts.RemoteTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, r.opts.RemoteTimeout)
		defer cancel()
	}

	p, err := r.deps.Client.FetchPlan(fetchCtx, body, credential)
	if err != nil {
		return report(FailedState(err.Error()))
	}
	if p == nil {
		return report(StateOf(Succeeded))
	}

	p.GeneratedAt = now
	timewindow.FillBounds(p, r.deps.Builder.Windows)

	report(StateOf(UpdatingCatalog))

	if err := r.deps.Plans.Update(p); err != nil {
		return report(FailedState(err.Error()))
	}
	if err := r.deps.Catalog.MergeFromPlan(p.NewActions, now); err != nil {
		return report(FailedState(err.Error()))
	}

	return report(StateOf(Succeeded))
}

func (r *Runner) throttled(now time.Time, trigger Trigger) bool {
	if trigger == Manual && r.opts.ManualBypassThrottle {
		return false
	}
	current := r.deps.Plans.Snapshot()
	if current == nil || current.GeneratedAt.IsZero() {
		return false
	}
	if now.Sub(current.GeneratedAt) < r.opts.MinSyncInterval {
		log.Printf("Skipping %s sync: last plan generated at %s", trigger, current.GeneratedAt.Format(time.RFC3339))
		return true
	}
	return false
}
