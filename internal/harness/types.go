package harness

import (
	"time"

	"github.com/roach88/jsonconform/internal/canon"
	"github.com/roach88/jsonconform/internal/fixture"
)

// Reason explains why an Outcome passed or failed.
type Reason string

const (
	ReasonOK         Reason = "ok"
	ReasonNoOutput   Reason = "no_output"
	ReasonMismatch   Reason = "mismatch"
	ReasonSpawnError Reason = "spawn_error"
	ReasonTimeout    Reason = "timeout"
	ReasonCanceled   Reason = "canceled"
)

// Outcome is the classification of one fixture.
type Outcome struct {
	Fixture  string          `json:"fixture"`
	Expected fixture.Verdict `json:"expected"`

	// Actual is the trimmed first line of the subject's stdout.
	// Empty when the subject printed nothing or never ran.
	Actual string `json:"actual"`

	Pass   bool   `json:"pass"`
	Reason Reason `json:"reason"`

	// Detail carries the error text for spawn, timeout and cancel failures.
	Detail string `json:"detail,omitempty"`

	Stderr   string        `json:"stderr,omitempty"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration_ns"`
}

// Summary is the result of running a fixture set.
//
// Invariant: Total == Passed + Failed == len(Outcomes).
type Summary struct {
	Total    int       `json:"total"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
	Outcomes []Outcome `json:"outcomes"`

	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

// NewSummary counts outcomes. The outcomes slice is kept in the given order.
func NewSummary(outcomes []Outcome) Summary {
	if outcomes == nil {
		outcomes = []Outcome{}
	}
	s := Summary{
		Total:    len(outcomes),
		Outcomes: outcomes,
	}
	for _, o := range outcomes {
		if o.Pass {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// OK reports whether every fixture passed. An empty run is OK.
func (s Summary) OK() bool {
	return s.Failed == 0
}

// Failures returns the failed outcomes in fixture order.
func (s Summary) Failures() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if !o.Pass {
			failed = append(failed, o)
		}
	}
	return failed
}

// Fingerprint hashes the verdict-relevant part of every outcome. Timing,
// stderr and exit codes are excluded, so two runs over the same fixtures
// with a deterministic subject have the same fingerprint.
func (s Summary) Fingerprint() (string, error) {
	entries := make([]any, len(s.Outcomes))
	for i, o := range s.Outcomes {
		entries[i] = map[string]any{
			"fixture":  o.Fixture,
			"expected": string(o.Expected),
			"actual":   o.Actual,
			"pass":     o.Pass,
			"reason":   string(o.Reason),
		}
	}
	return canon.Hash(canon.DomainRun, map[string]any{
		"total":    s.Total,
		"passed":   s.Passed,
		"failed":   s.Failed,
		"outcomes": entries,
	})
}
