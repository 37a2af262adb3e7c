// Package process runs external programs as child processes under a wall-clock
// timeout and captures their output as text.
//
// It is the only place in the application that spawns processes. Everything
// above it (the execution engine, the analysis pipeline, the tool checks) talks
// to the Runner interface, which lets tests script child-process outcomes
// without real interpreters installed.
//
// CONTRACT:
//   - A missing binary is reported as ErrNotFound (checked with errors.Is).
//   - A run that exceeds its timeout is killed together with every process it
//     spawned, and reported as ErrTimeout. No partial output is returned.
//   - A non-zero exit status is NOT an error. Result.ExitCode carries it.
//   - Stdout and Stderr are always valid UTF-8 text (see decode.go).
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

var (
	// ErrNotFound means the requested executable is not on the search path.
	ErrNotFound = errors.New("process: executable not found")
	// ErrTimeout means the child exceeded its wall-clock budget and was killed.
	ErrTimeout = errors.New("process: timed out")
)

const (
	// DefaultTimeout applies when a Command does not set one.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxOutput caps each captured stream.
	DefaultMaxOutput = 1 << 20
	// waitDelay bounds how long Wait blocks on pipes held open by orphans
	// after the child itself has been killed.
	waitDelay = 2 * time.Second
)

// Command describes one child-process invocation.
type Command struct {
	// Name is the executable, resolved against PATH.
	Name string
	Args []string
	// Dir is the working directory. Empty means the parent's directory.
	Dir string
	// Stdin is piped to the child when non-empty.
	Stdin string
	// Env holds extra KEY=VALUE pairs appended after the runner's base environment.
	Env []string
	// Timeout is the wall-clock budget. Zero means DefaultTimeout.
	Timeout time.Duration
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result is the captured outcome of a child that ran to completion.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	// Truncated is set when either stream exceeded the output cap.
	Truncated bool
}

// Runner runs a command and waits for it to finish or time out.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// OSRunner is the real Runner backed by os/exec.
type OSRunner struct {
	baseEnv   []string
	maxOutput int
	logger    *slog.Logger
}

// NewOSRunner creates a runner whose children start from baseEnv.
//
// baseEnv is passed in explicitly (main captures it once at startup) so this
// package never reads ambient process state on its own.
func NewOSRunner(baseEnv []string, logger *slog.Logger) *OSRunner {
	return &OSRunner{
		baseEnv:   append([]string(nil), baseEnv...),
		maxOutput: DefaultMaxOutput,
		logger:    logger,
	}
}

// WithMaxOutput returns a copy of the runner with a different per-stream cap.
func (r *OSRunner) WithMaxOutput(n int) *OSRunner {
	cp := *r
	if n > 0 {
		cp.maxOutput = n
	}
	return &cp
}

// Run executes cmd. See the package documentation for the error contract.
func (r *OSRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	path, err := exec.LookPath(cmd.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, cmd.Name)
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := exec.CommandContext(runCtx, path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(append([]string(nil), r.baseEnv...), cmd.Env...)
	c.WaitDelay = waitDelay
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}
	isolate(c)

	stdout := &cappedBuffer{limit: r.maxOutput}
	stderr := &cappedBuffer{limit: r.maxOutput}
	c.Stdout = stdout
	c.Stderr = stderr

	start := time.Now()
	runErr := c.Run()
	elapsed := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		r.logger.Debug("child process timed out",
			slog.String("cmd", cmd.String()),
			slog.Duration("timeout", timeout),
		)
		return nil, fmt.Errorf("%w after %s: %s", ErrTimeout, timeout, cmd.Name)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("process: running %s: %w", cmd.Name, ctxErr)
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("process: running %s: %w", cmd.Name, runErr)
		}
		exitCode = exitErr.ExitCode()
	}

	r.logger.Debug("child process finished",
		slog.String("cmd", cmd.String()),
		slog.Int("exitCode", exitCode),
		slog.Duration("duration", elapsed),
	)

	return &Result{
		Stdout:    Decode(stdout.Bytes()),
		Stderr:    Decode(stderr.Bytes()),
		ExitCode:  exitCode,
		Duration:  elapsed,
		Truncated: stdout.truncated || stderr.truncated,
	}, nil
}

// cappedBuffer keeps the first limit bytes and silently drops the rest.
// Write never fails, so a chatty child is never blocked on a full pipe.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.limit - b.buf.Len()
	if room <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
