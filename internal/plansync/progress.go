package plansync

import (
	"log"
	"sync"
)

// ProgressSink receives every state transition of a sync attempt.
type ProgressSink interface {
	Report(jobID string, state State)
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(jobID string, state State)

func (f SinkFunc) Report(jobID string, state State) { f(jobID, state) }

// LogSink logs transitions.
type LogSink struct{}

func (LogSink) Report(jobID string, state State) {
	if state.Stage() == Failed {
		log.Printf("Warning: sync %s %s", jobID, state)
		return
	}
	log.Printf("sync %s: %s", jobID, state)
}

// MultiSink fans a report out to several sinks; nil entries are skipped.
type MultiSink []ProgressSink

func (m MultiSink) Report(jobID string, state State) {
	for _, s := range m {
		if s != nil {
			s.Report(jobID, state)
		}
	}
}

// Recorder keeps every reported state. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *Recorder) Report(_ string, state State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

// Keys returns the reported progress keys in order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, len(r.states))
	for i, s := range r.states {
		keys[i] = s.Key()
	}
	return keys
}

// Last returns the most recent state, or Idle.
func (r *Recorder) Last() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return StateOf(Idle)
	}
	return r.states[len(r.states)-1]
}
