package harness

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/jsonconform/internal/fixture"
	"github.com/roach88/jsonconform/internal/subject"
)

// Clock supplies wall time for run bookkeeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options configures a Harness.
type Options struct {
	// Parallel is the number of fixtures run at once.
	// 1 runs fixtures strictly in sequence. Values <= 0 use one worker per CPU.
	Parallel int

	// Logger receives per-fixture debug logs. Nil discards them.
	Logger *slog.Logger

	// Clock stamps Summary.StartedAt and Summary.Elapsed. Nil uses wall time.
	Clock Clock
}

// Harness runs a subject program against fixtures.
// A Harness holds no per-run state and may be reused.
type Harness struct {
	runner   subject.Runner
	parallel int
	logger   *slog.Logger
	clock    Clock
}

// New creates a Harness that invokes runner once per fixture.
func New(runner subject.Runner, opts Options) *Harness {
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	return &Harness{
		runner:   runner,
		parallel: parallel,
		logger:   logger,
		clock:    clock,
	}
}

// Parallel returns the effective worker count.
func (h *Harness) Parallel() int {
	return h.parallel
}

// RunDir discovers the fixtures in dir and runs them all.
// The only errors are discovery errors; fixture failures are in the Summary.
func (h *Harness) RunDir(ctx context.Context, dir, filter string) (Summary, error) {
	fixtures, err := fixture.Discover(dir, filter)
	if err != nil {
		return Summary{}, err
	}
	h.logger.Debug("fixtures discovered", "dir", dir, "count", len(fixtures))
	return h.Run(ctx, fixtures), nil
}

// Run executes the subject against every fixture and returns the summary.
// Outcomes are in the same order as fixtures.
//
// Canceling ctx stops new fixtures from starting; those fixtures are
// recorded as canceled so every fixture still has an outcome.
func (h *Harness) Run(ctx context.Context, fixtures []fixture.Fixture) Summary {
	start := h.clock.Now()
	outcomes := make([]Outcome, len(fixtures))

	g := new(errgroup.Group)
	g.SetLimit(h.parallel)
	for i, f := range fixtures {
		if err := ctx.Err(); err != nil {
			outcomes[i] = evaluate(f, nil, err)
			continue
		}
		g.Go(func() error {
			outcomes[i] = h.RunOne(ctx, f)
			return nil
		})
	}
	// Workers never return errors; a fixture failure is an outcome.
	_ = g.Wait()

	summary := NewSummary(outcomes)
	summary.StartedAt = start
	summary.Elapsed = h.clock.Now().Sub(start)
	h.logger.Debug("run finished", "total", summary.Total, "passed", summary.Passed, "failed", summary.Failed)
	return summary
}

// RunOne invokes the subject for a single fixture and classifies the result.
func (h *Harness) RunOne(ctx context.Context, f fixture.Fixture) Outcome {
	if err := ctx.Err(); err != nil {
		return evaluate(f, nil, err)
	}

	h.logger.Debug("running fixture", "fixture", f.Name, "expected", f.Expected())
	inv, err := h.runner.Run(ctx, f.Path)
	o := evaluate(f, inv, err)

	switch o.Reason {
	case ReasonSpawnError:
		h.logger.Warn("subject failed to run", "fixture", f.Name, "error", err)
	case ReasonTimeout:
		h.logger.Warn("subject timed out", "fixture", f.Name, "error", err)
	default:
		h.logger.Debug("fixture finished", "fixture", f.Name, "pass", o.Pass, "reason", o.Reason, "duration", o.Duration)
	}
	return o
}
