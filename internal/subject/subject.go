// Package subject launches the program under test against a single fixture
// and captures what it printed.
package subject

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

var (
	// ErrSpawn is returned when the subject program could not be started.
	ErrSpawn = errors.New("subject could not be launched")

	// ErrTimeout is returned when the subject exceeded its per-fixture deadline.
	// The child process has been killed by the time the error is returned.
	ErrTimeout = errors.New("subject timed out")

	// ErrCanceled is returned when the run was canceled while the subject
	// was still running.
	ErrCanceled = errors.New("subject canceled")
)

// waitDelay bounds how long Wait blocks on output pipes after the child has
// been killed. Grandchildren that inherited the pipes would otherwise keep
// Wait from returning.
const waitDelay = 2 * time.Second

// Invocation is what one execution of the subject produced.
type Invocation struct {
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// Runner executes the subject program against one fixture path.
//
// Run returns a non-nil Invocation whenever the process was started, even
// when an error is also returned, so partial output can be reported.
type Runner interface {
	Run(ctx context.Context, path string) (*Invocation, error)
}

// Command runs an external program with the fixture path appended as its
// final argument.
type Command struct {
	// Argv is the program followed by any fixed arguments.
	Argv []string

	// Timeout bounds each invocation. Zero means no limit.
	Timeout time.Duration

	// Dir is the working directory of the child. Empty means the
	// caller's working directory.
	Dir string
}

// ParseCommand splits a command line on whitespace.
//
//	ParseCommand("cargo run --release") // ["cargo", "run", "--release"]
func ParseCommand(line string) []string {
	return strings.Fields(line)
}

// NewCommand creates a Command for argv with the given per-fixture timeout.
func NewCommand(argv []string, timeout time.Duration) *Command {
	return &Command{
		Argv:    append([]string(nil), argv...),
		Timeout: timeout,
	}
}

// String renders the command line without the fixture argument.
func (c *Command) String() string {
	return strings.Join(c.Argv, " ")
}

// Run starts the subject, waits for it to exit, and returns its output.
// The exit status is recorded but never treated as an error.
func (c *Command) Run(ctx context.Context, path string) (*Invocation, error) {
	if len(c.Argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrSpawn)
	}

	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(c.Argv))
	args = append(args, c.Argv[1:]...)
	args = append(args, path)

	cmd := exec.CommandContext(runCtx, c.Argv[0], args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSpawn, c.Argv[0], err)
	}
	waitErr := cmd.Wait()

	inv := &Invocation{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	// A context error wins over the wait error: a killed child always
	// reports a non-zero status.
	if runCtx.Err() != nil {
		if ctx.Err() != nil {
			return inv, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		}
		return inv, fmt.Errorf("%w: exceeded %s", ErrTimeout, c.Timeout)
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
		return inv, fmt.Errorf("wait for subject: %w", waitErr)
	}

	return inv, nil
}
