package harness

import (
	"context"
	"errors"
	"strings"

	"github.com/roach88/jsonconform/internal/fixture"
	"github.com/roach88/jsonconform/internal/subject"
)

// FirstLine returns the first line of out with surrounding whitespace
// removed. Lines end at "\n", "\r\n" or a lone "\r" only; other Unicode
// line separators (\v, \f, U+0085, U+2028) stay inside the line.
func FirstLine(out string) string {
	if i := strings.IndexAny(out, "\r\n"); i >= 0 {
		out = out[:i]
	}
	return strings.TrimSpace(out)
}

// Classify compares what the subject printed with the expected verdict.
// An empty stdout is a failure regardless of the expectation.
func Classify(inv *subject.Invocation, expected fixture.Verdict) Outcome {
	o := Outcome{Expected: expected}
	if inv == nil || inv.Stdout == "" {
		o.Reason = ReasonNoOutput
		if inv != nil {
			o.Stderr = inv.Stderr
			o.ExitCode = inv.ExitCode
			o.Duration = inv.Duration
		}
		return o
	}

	o.Actual = FirstLine(inv.Stdout)
	o.Stderr = inv.Stderr
	o.ExitCode = inv.ExitCode
	o.Duration = inv.Duration

	if o.Actual == string(expected) {
		o.Pass = true
		o.Reason = ReasonOK
	} else {
		o.Reason = ReasonMismatch
	}
	return o
}

// evaluate turns the result of one subject run into an Outcome. Run errors
// take precedence over whatever partial output was captured.
func evaluate(f fixture.Fixture, inv *subject.Invocation, err error) Outcome {
	var o Outcome
	switch {
	case err == nil:
		o = Classify(inv, f.Expected())
	case errors.Is(err, subject.ErrTimeout):
		o = failed(f, inv, ReasonTimeout, err)
	case errors.Is(err, subject.ErrCanceled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		o = failed(f, inv, ReasonCanceled, err)
	default:
		o = failed(f, inv, ReasonSpawnError, err)
	}
	o.Fixture = f.Name
	return o
}

func failed(f fixture.Fixture, inv *subject.Invocation, reason Reason, err error) Outcome {
	o := Outcome{
		Fixture:  f.Name,
		Expected: f.Expected(),
		Reason:   reason,
		Detail:   err.Error(),
	}
	if inv != nil {
		o.Actual = FirstLine(inv.Stdout)
		o.Stderr = inv.Stderr
		o.ExitCode = inv.ExitCode
		o.Duration = inv.Duration
	}
	return o
}
