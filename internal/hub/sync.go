package hub

import (
	"context"
	"fmt"
	"log"

	"github.com/khanglvm/action-hub/internal/plansync"
)

// maintainedJob runs a sync attempt and then the retention pass.
type maintainedJob struct {
	hub *Hub
}

func (j *maintainedJob) Run(ctx context.Context, jobID string, trigger plansync.Trigger, sink plansync.ProgressSink) plansync.State {
	st := j.hub.Runner.Run(ctx, jobID, trigger, sink)
	if st.Stage() == plansync.Succeeded {
		if _, err := j.hub.Maintain(); err != nil {
			log.Printf("Warning: maintenance failed: %v", err)
		}
	}
	return st
}

// Sync runs one manual sync attempt in the foreground and returns its
// terminal state. sink may be nil.
func (h *Hub) Sync(ctx context.Context, sink plansync.ProgressSink) plansync.State {
	job := &maintainedJob{hub: h}
	return job.Run(ctx, plansync.DefaultJobID, plansync.Manual, plansync.MultiSink{plansync.LogSink{}, sink})
}

// StartBackground schedules periodic syncs, starts the scheduler and queues
// an initial periodic attempt, which the throttle skips while the stored
// plan is fresh. Close stops it.
func (h *Hub) StartBackground(ctx context.Context) error {
	s := h.cfg.Settings
	if err := h.Scheduler.SchedulePeriodic(s.SyncInterval(), s.NetworkRequired); err != nil {
		return err
	}
	h.Scheduler.Start(ctx)
	h.Scheduler.Kick(s.NetworkRequired)
	return nil
}

// RequestSync queues a manual attempt on the background scheduler and
// returns its attempt id.
func (h *Hub) RequestSync() string {
	return h.Scheduler.RunOnce(plansync.DefaultJobID, h.cfg.Settings.NetworkRequired)
}

// SyncStatus returns the scheduler's status for the sync job.
func (h *Hub) SyncStatus() plansync.Status {
	return h.Scheduler.Status(plansync.DefaultJobID)
}

// MaintenanceReport counts what a retention pass removed.
type MaintenanceReport struct {
	PrunedActions int  `json:"prunedActions"`
	EventsCleaned bool `json:"eventsCleaned"`
}

// Maintain deletes events past the retention window and evicts stale,
// unused catalog entries. Disabled settings are skipped.
func (h *Hub) Maintain() (MaintenanceReport, error) {
	var report MaintenanceReport
	s := h.cfg.Settings

	if retention := s.EventRetention(); retention > 0 {
		if err := h.db.Cleanup(retention); err != nil {
			return report, fmt.Errorf("failed to clean up events: %w", err)
		}
		report.EventsCleaned = true
	}

	n, err := h.Catalog.Prune(h.now(), s.CatalogTTL())
	if err != nil {
		return report, fmt.Errorf("failed to prune catalog: %w", err)
	}
	report.PrunedActions = n
	return report, nil
}
