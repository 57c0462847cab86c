/*
Package launcher executes quick actions on the desktop.

An action resolves to a target URI, which is handed to the configured opener
command (xdg-open, open, ...). Executing an action records an invocation in
the event log, and AI-suggested actions also count a use in the catalog.
*/
package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/khanglvm/action-hub/internal/learning"
	"github.com/khanglvm/action-hub/internal/quickaction"
)

// DefaultTimeout bounds a single opener run.
const DefaultTimeout = 10 * time.Second

// ErrNotLaunchable is returned for actions without a target.
var ErrNotLaunchable = errors.New("action has no launch target")

// Opener opens a target URI.
type Opener interface {
	Open(ctx context.Context, target string) error
}

// execCommand is a variable that allows tests to mock exec.CommandContext
var execCommand = exec.CommandContext

// CommandOpener runs Command with the target appended as its last argument.
type CommandOpener struct {
	Command string
	Timeout time.Duration
}

// Open runs the opener and waits for it to exit.
func (o CommandOpener) Open(ctx context.Context, target string) error {
	fields := strings.Fields(o.Command)
	if len(fields) == 0 {
		return errors.New("opener command is empty")
	}

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(fields[1:], target)
	cmd := execCommand(ctx, fields[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("failed to run %s: %w: %s", fields[0], err, msg)
		}
		return fmt.Errorf("failed to run %s: %w", fields[0], err)
	}
	return nil
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, target string) error

func (f OpenerFunc) Open(ctx context.Context, target string) error { return f(ctx, target) }

// UsageCounter counts uses of AI-suggested actions.
type UsageCounter interface {
	IncrementUsage(id string) error
}

// EventTracker records invocations.
type EventTracker interface {
	Track(event learning.Event)
}

// Executor launches actions and records their use.
type Executor struct {
	opener  Opener
	usage   UsageCounter
	tracker EventTracker
}

// NewExecutor creates an executor. usage and tracker may be nil.
func NewExecutor(opener Opener, usage UsageCounter, tracker EventTracker) *Executor {
	return &Executor{opener: opener, usage: usage, tracker: tracker}
}

// Execute opens the action's target, with query appended for search and map
// actions, and returns the target. A failed launch records nothing.
func (e *Executor) Execute(ctx context.Context, a quickaction.Action, query string) (string, error) {
	target, ok := quickaction.Target(a, query)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotLaunchable, a.ID)
	}

	if err := e.opener.Open(ctx, target); err != nil {
		return "", err
	}

	if e.tracker != nil {
		e.tracker.Track(learning.NewActionEvent(a.ID))
	}
	if a.Source == quickaction.SourceAI && e.usage != nil {
		if err := e.usage.IncrementUsage(a.ID); err != nil {
			log.Printf("Warning: failed to count use of %s: %v", a.ID, err)
		}
	}
	return target, nil
}
