package plansync

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	rcron "github.com/robfig/cron/v3"
)

// DefaultJobID names the plan sync job. Periodic ticks and manual refreshes
// share it, so a manual refresh replaces a pending periodic request.
const DefaultJobID = "plan-sync"

// Job runs one sync attempt.
type Job interface {
	Run(ctx context.Context, jobID string, trigger Trigger, sink ProgressSink) State
}

// NetworkChecker reports whether the network is usable.
type NetworkChecker interface {
	Available(ctx context.Context) bool
}

// NetworkFunc adapts a function to NetworkChecker.
type NetworkFunc func(ctx context.Context) bool

func (f NetworkFunc) Available(ctx context.Context) bool { return f(ctx) }

// AlwaysOnline never blocks a request.
var AlwaysOnline = NetworkFunc(func(context.Context) bool { return true })

// DialChecker treats the network as available when a TCP connection to
// Address can be opened within Timeout.
type DialChecker struct {
	Address string
	Timeout time.Duration
}

func (d DialChecker) Available(ctx context.Context) bool {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", d.Address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Status describes the latest activity of a job. State is the running
// attempt's stage, enqueued while a request waits, and idle otherwise.
type Status struct {
	JobID            string    `json:"jobId"`
	State            string    `json:"state"`
	LastResult       string    `json:"lastResult,omitempty"`
	LastError        string    `json:"lastError,omitempty"`
	LastAttemptID    string    `json:"lastAttemptId,omitempty"`
	RunningAttemptID string    `json:"runningAttemptId,omitempty"`
	LastFinished     time.Time `json:"lastFinished,omitempty"`
	Pending          bool      `json:"pending"`
	Running          bool      `json:"running"`
}

// jobRecord is the scheduler's bookkeeping for one job id.
type jobRecord struct {
	lastAttemptID string
	runningID     string
	runState      State
	lastResult    string
	lastError     string
	lastFinished  time.Time
}

type request struct {
	id              string
	trigger         Trigger
	networkRequired bool
}

// Scheduler queues sync requests with unique-work semantics per job id and
// runs them one at a time on its worker goroutine.
//
// At most one request per job is pending. A manual request replaces a
// pending one; a periodic tick keeps it. Running attempts are never
// interrupted by new requests.
type Scheduler struct {
	job     Job
	network NetworkChecker
	sink    ProgressSink
	cron    *rcron.Cron

	mu       sync.Mutex
	pending  map[string]request
	running  map[string]bool
	records  map[string]*jobRecord
	entries  map[string]rcron.EntryID

	wake   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler. A nil network checker means always online.
func NewScheduler(job Job, network NetworkChecker, sink ProgressSink) *Scheduler {
	if network == nil {
		network = AlwaysOnline
	}
	return &Scheduler{
		job:      job,
		network:  network,
		sink:     sink,
		cron:     rcron.New(),
		pending:  make(map[string]request),
		running:  make(map[string]bool),
		records:  make(map[string]*jobRecord),
		entries:  make(map[string]rcron.EntryID),
		wake:     make(chan struct{}, 1),
	}
}

// Start launches the periodic timer and the worker. Stop ends both; so does
// cancelling ctx.
func (s *Scheduler) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	s.cron.Start()
	go s.loop(runCtx, done)

	s.signal()
}

// Stop halts the timer and waits for the worker to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		log.Printf("Warning: timed out waiting for scheduled ticks to stop")
	}
	<-done
}

// SchedulePeriodic enqueues DefaultJobID every interval. Calling it again
// replaces the previous schedule.
func (s *Scheduler) SchedulePeriodic(interval time.Duration, networkRequired bool) error {
	if interval <= 0 {
		return fmt.Errorf("invalid sync interval: %s", interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[DefaultJobID]; ok {
		s.cron.Remove(id)
	}
	id, err := s.cron.AddFunc("@every "+interval.String(), func() {
		s.Kick(networkRequired)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule periodic sync: %w", err)
	}
	s.entries[DefaultJobID] = id
	return nil
}

// RunOnce requests an immediate manual attempt of jobID, replacing any
// pending request for it. It returns the attempt id.
func (s *Scheduler) RunOnce(jobID string, networkRequired bool) string {
	return s.enqueue(jobID, Manual, networkRequired, true)
}

// Kick requests a periodic attempt of DefaultJobID. It keeps a pending
// request and is subject to the sync throttle. It returns the attempt id of
// the pending request.
func (s *Scheduler) Kick(networkRequired bool) string {
	return s.enqueue(DefaultJobID, Periodic, networkRequired, false)
}

// Status returns the latest status of jobID.
func (s *Scheduler) Status(jobID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Status{JobID: jobID, State: StateOf(Idle).Key()}
	_, out.Pending = s.pending[jobID]
	out.Running = s.running[jobID]

	rec, ok := s.records[jobID]
	if !ok {
		return out
	}
	out.LastAttemptID = rec.lastAttemptID
	out.LastResult = rec.lastResult
	out.LastError = rec.lastError
	out.LastFinished = rec.lastFinished

	switch {
	case out.Running:
		out.RunningAttemptID = rec.runningID
		out.State = rec.runState.Key()
	case out.Pending:
		out.State = StateOf(Enqueued).Key()
	}
	return out
}

func (s *Scheduler) recordLocked(jobID string) *jobRecord {
	rec, ok := s.records[jobID]
	if !ok {
		rec = &jobRecord{}
		s.records[jobID] = rec
	}
	return rec
}

func (s *Scheduler) enqueue(jobID string, trigger Trigger, networkRequired, replace bool) string {
	s.mu.Lock()
	if existing, ok := s.pending[jobID]; ok && !replace {
		s.mu.Unlock()
		s.signal()
		return existing.id
	}

	req := request{id: uuid.NewString(), trigger: trigger, networkRequired: networkRequired}
	s.pending[jobID] = req
	s.recordLocked(jobID).lastAttemptID = req.id
	s.mu.Unlock()

	s.report(jobID, StateOf(Enqueued))
	s.signal()
	return req.id
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}
		for s.runNext(ctx) {
			if ctx.Err() != nil {
				return
			}
		}
	}
}

// runNext runs one runnable pending request and reports whether it did.
func (s *Scheduler) runNext(ctx context.Context) bool {
	s.mu.Lock()
	candidates := make(map[string]request, len(s.pending))
	for jobID, req := range s.pending {
		if !s.running[jobID] {
			candidates[jobID] = req
		}
	}
	s.mu.Unlock()

	for jobID, req := range candidates {
		if req.networkRequired && !s.network.Available(ctx) {
			log.Printf("Warning: network unavailable, sync %s stays pending", jobID)
			continue
		}

		s.mu.Lock()
		current, ok := s.pending[jobID]
		if !ok || current.id != req.id {
			s.mu.Unlock()
			return true
		}
		delete(s.pending, jobID)
		s.running[jobID] = true
		rec := s.recordLocked(jobID)
		rec.runningID = req.id
		rec.runState = StateOf(Running)
		s.mu.Unlock()

		sink := MultiSink{SinkFunc(func(_ string, st State) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if rec.runningID != req.id {
				return
			}
			if !st.Terminal() {
				rec.runState = st
				return
			}
			rec.lastResult = st.Key()
			rec.lastError = st.Reason()
			rec.lastFinished = time.Now()
		}), s.sink}
		s.job.Run(ctx, jobID, req.trigger, sink)

		s.mu.Lock()
		s.running[jobID] = false
		rec.runningID = ""
		s.mu.Unlock()
		return true
	}
	return false
}

func (s *Scheduler) report(jobID string, st State) {
	if s.sink != nil {
		s.sink.Report(jobID, st)
	}
}
