package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/jsonconform/internal/harness"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testEpoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// createTestRun creates a run with one passing and one failing fixture.
func createTestRun(id string, startedAt time.Time) Run {
	sum := harness.NewSummary([]harness.Outcome{
		{Fixture: "fail1.json", Expected: "FAIL", Actual: "FAIL", Pass: true, Reason: harness.ReasonOK, Duration: 3 * time.Millisecond},
		{Fixture: "pass1.json", Expected: "PASS", Actual: "FAIL", Pass: false, Reason: harness.ReasonMismatch, Stderr: "bad token", ExitCode: 1},
	})
	sum.StartedAt = startedAt
	sum.Elapsed = 2 * time.Second
	return Run{
		ID:          id,
		Dir:         "./tests/json_org_tests",
		Subject:     "cargo run --release",
		Fingerprint: "fp-" + id,
		Summary:     sum,
	}
}
