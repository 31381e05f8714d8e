// Package harness drives a subject program across a set of JSON fixtures
// and tallies the verdicts.
//
// # Pipeline
//
// A run is a straight line with no cross-fixture state:
//
//	discover -> run subject per fixture -> classify -> summarize
//
// Each fixture yields exactly one Outcome. A subject that cannot be
// launched, produces no output, times out or prints the wrong verdict is
// recorded as a failed outcome and the run continues with the next
// fixture. Nothing is retried.
//
// # Classification
//
// Only the first line of the subject's standard output is inspected. It
// is trimmed of surrounding whitespace and compared, case-sensitively,
// with the fixture's expected verdict:
//
//	stdout "PASS\n..."  expected PASS -> pass
//	stdout "pass\n"     expected PASS -> fail (mismatch)
//	stdout ""           any           -> fail (no output)
//
// The subject's exit status is recorded for diagnostics but never
// consulted.
//
// # Concurrency
//
// Fixtures run on a bounded worker pool (Options.Parallel, default 1).
// Outcomes are stored by fixture index and counted once the pool drains,
// so the Summary and every report derived from it are in fixture order no
// matter which worker finished first.
//
// # Usage
//
//	h := harness.New(subject.NewCommand(argv, 10*time.Second), harness.Options{Parallel: 4})
//	summary, err := h.RunDir(ctx, "./tests/json_org_tests", "")
//	if err != nil {
//	    // fixture.ErrDirectoryNotFound or an invalid filter
//	}
package harness
