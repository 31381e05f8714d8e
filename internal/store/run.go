package store

import (
	"time"

	"github.com/roach88/jsonconform/internal/harness"
)

// Run is one recorded execution of the harness.
type Run struct {
	ID          string          `json:"id"`
	Dir         string          `json:"dir"`
	Subject     string          `json:"subject"`
	Fingerprint string          `json:"fingerprint"`
	Summary     harness.Summary `json:"summary"`
}

// RunInfo is the row-level view of a run, without its outcomes.
type RunInfo struct {
	ID          string        `json:"id"`
	StartedAt   time.Time     `json:"started_at"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	Dir         string        `json:"dir"`
	Subject     string        `json:"subject"`
	Total       int           `json:"total"`
	Passed      int           `json:"passed"`
	Failed      int           `json:"failed"`
	Fingerprint string        `json:"fingerprint"`
}

// FixtureRecord is one fixture's outcome within a past run.
type FixtureRecord struct {
	RunID     string          `json:"run_id"`
	StartedAt time.Time       `json:"started_at"`
	Outcome   harness.Outcome `json:"outcome"`
}
