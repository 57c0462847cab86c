/*
Package plansync drives plan synchronization: build the usage payload, ask
the remote service for a plan, then store the plan and merge its new actions
into the catalog.

A sync attempt moves through Enqueued, Running and UpdatingCatalog and ends
in Succeeded or Failed. Attempts run on the scheduler's worker goroutine and
never on a reader's path.
*/
package plansync

// Stage is a sync attempt stage.
type Stage int

const (
	Idle Stage = iota
	Enqueued
	Running
	UpdatingCatalog
	Succeeded
	Failed
)

var stageKeys = map[Stage]string{
	Idle:            "idle",
	Enqueued:        "enqueued",
	Running:         "running",
	UpdatingCatalog: "updatingCatalog",
	Succeeded:       "succeeded",
	Failed:          "failed",
}

// Key returns the progress key reported for the stage.
func (s Stage) Key() string {
	if k, ok := stageKeys[s]; ok {
		return k
	}
	return "unknown"
}

func (s Stage) String() string { return s.Key() }

// State is the observable state of a sync attempt. Only Failed carries a
// reason; use the constructors to build states.
type State struct {
	stage  Stage
	reason string
}

// StateOf returns the state for a stage. Failures need a reason, so
// StateOf(Failed) is FailedState("unspecified").
func StateOf(stage Stage) State {
	if stage == Failed {
		return FailedState("unspecified")
	}
	return State{stage: stage}
}

// FailedState returns a failed state carrying reason.
func FailedState(reason string) State {
	if reason == "" {
		reason = "unspecified"
	}
	return State{stage: Failed, reason: reason}
}

// Stage returns the state's stage.
func (s State) Stage() Stage { return s.stage }

// Reason returns the failure reason, or "" for non-failed states.
func (s State) Reason() string { return s.reason }

// Key returns the progress key for the state.
func (s State) Key() string { return s.stage.Key() }

// Terminal reports whether the attempt has finished.
func (s State) Terminal() bool {
	return s.stage == Succeeded || s.stage == Failed
}

func (s State) String() string {
	if s.stage == Failed {
		return s.stage.Key() + ": " + s.reason
	}
	return s.stage.Key()
}
