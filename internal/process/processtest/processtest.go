// Package processtest provides a scripted process.Runner for tests.
package processtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/sakif/coding-mentor/internal/process"
)

// HandlerFunc decides the outcome of one scripted invocation.
type HandlerFunc func(cmd process.Command) (*process.Result, error)

// Runner records every command it receives and answers through Handler.
// A nil Handler answers every command with an empty, successful Result.
type Runner struct {
	Handler HandlerFunc

	mu    sync.Mutex
	calls []process.Command
}

// Run implements process.Runner.
func (r *Runner) Run(_ context.Context, cmd process.Command) (*process.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	r.mu.Unlock()

	if r.Handler == nil {
		return &process.Result{}, nil
	}
	return r.Handler(cmd)
}

// Calls returns a copy of the recorded commands in call order.
func (r *Runner) Calls() []process.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]process.Command(nil), r.calls...)
}

// Called reports whether any recorded command used the given executable.
func (r *Runner) Called(name string) bool {
	for _, c := range r.Calls() {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Missing returns the error OSRunner reports for an absent executable.
func Missing(name string) error {
	return fmt.Errorf("%w: %s", process.ErrNotFound, name)
}

// TimedOut returns the error OSRunner reports for a killed child.
func TimedOut(name string) error {
	return fmt.Errorf("%w: %s", process.ErrTimeout, name)
}

// Exit is shorthand for a completed child.
func Exit(code int, stdout, stderr string) *process.Result {
	return &process.Result{Stdout: stdout, Stderr: stderr, ExitCode: code}
}
