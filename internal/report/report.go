// Package report renders run summaries for people.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/roach88/jsonconform/internal/harness"
)

// Text writes the classic harness report: one diagnostic line per failing
// fixture, in fixture order, followed by the three summary lines.
//
//	Unexpected output in pass2.json: FAIL
//	No output from fail7.json
//	Total tests: 2
//	Passed: 0
//	Failed: 2
type Text struct {
	// Verbose also lists passing fixtures and the stderr of failing ones.
	Verbose bool

	// Color highlights failures and the summary counts with ANSI colors.
	Color bool
}

// Write renders s to w.
func (t Text) Write(w io.Writer, s harness.Summary) error {
	red := t.paint(color.FgRed)
	green := t.paint(color.FgGreen)

	for _, o := range s.Outcomes {
		if o.Pass {
			if t.Verbose {
				if _, err := fmt.Fprintln(w, green.Sprint("ok"), o.Fixture); err != nil {
					return err
				}
			}
			continue
		}

		if _, err := fmt.Fprintln(w, red.Sprint(FailureLine(o))); err != nil {
			return err
		}
		if t.Verbose && o.Stderr != "" {
			if _, err := io.WriteString(w, indent(o.Stderr, "    ")); err != nil {
				return err
			}
		}
	}

	failed := fmt.Sprintf("Failed: %d", s.Failed)
	if s.Failed > 0 {
		failed = red.Sprint(failed)
	}
	_, err := fmt.Fprintf(w, "Total tests: %d\n%s\n%s\n",
		s.Total, green.Sprintf("Passed: %d", s.Passed), failed)
	return err
}

func (t Text) paint(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if t.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// FailureLine describes why a fixture failed, naming the fixture and what
// the subject actually did.
func FailureLine(o harness.Outcome) string {
	switch o.Reason {
	case harness.ReasonNoOutput:
		return fmt.Sprintf("No output from %s", o.Fixture)
	case harness.ReasonTimeout:
		return fmt.Sprintf("Timeout in %s: %s", o.Fixture, o.Detail)
	case harness.ReasonSpawnError:
		return fmt.Sprintf("Could not launch subject for %s: %s", o.Fixture, o.Detail)
	case harness.ReasonCanceled:
		return fmt.Sprintf("Canceled %s: %s", o.Fixture, o.Detail)
	default:
		return fmt.Sprintf("Unexpected output in %s: %s", o.Fixture, o.Actual)
	}
}

// indent prefixes every line of s and guarantees a trailing newline.
func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
