package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/jsonconform/internal/fixture"
	"github.com/roach88/jsonconform/internal/harness"
)

// ErrRunNotFound is returned by ReadRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// ListRuns returns recorded runs, newest first. Ties on start time are
// broken by ID so the order is stable. limit <= 0 returns every run.
//
// Returns an empty slice (not nil) if no runs are recorded.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	query := `
		SELECT id, started_at, elapsed_ns, dir, subject, total, passed, failed, fingerprint
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunInfo{}
	for rows.Next() {
		info, err := scanRunInfo(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun loads a run and its outcomes in fixture order.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, elapsed_ns, dir, subject, total, passed, failed, fingerprint
		FROM runs
		WHERE id = ?
	`, id)
	info, err := scanRunInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT fixture, expected, actual, pass, reason, detail, stderr, exit_code, duration_ns
		FROM outcomes
		WHERE run_id = ?
		ORDER BY idx ASC
	`, id)
	if err != nil {
		return Run{}, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []harness.Outcome
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return Run{}, err
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate outcomes: %w", err)
	}

	sum := harness.NewSummary(outcomes)
	sum.StartedAt = info.StartedAt
	sum.Elapsed = info.Elapsed

	return Run{
		ID:          info.ID,
		Dir:         info.Dir,
		Subject:     info.Subject,
		Fingerprint: info.Fingerprint,
		Summary:     sum,
	}, nil
}

// FixtureHistory returns the outcomes recorded for one fixture, newest
// run first. limit <= 0 returns all of them.
func (s *Store) FixtureHistory(ctx context.Context, name string, limit int) ([]FixtureRecord, error) {
	query := `
		SELECT r.id, r.started_at, o.fixture, o.expected, o.actual, o.pass, o.reason, o.detail, o.stderr, o.exit_code, o.duration_ns
		FROM outcomes o
		JOIN runs r ON o.run_id = r.id
		WHERE o.fixture = ?
		ORDER BY r.started_at DESC, r.id COLLATE BINARY DESC
	`
	args := []any{name}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fixture history: %w", err)
	}
	defer rows.Close()

	records := []FixtureRecord{}
	for rows.Next() {
		var (
			rec       FixtureRecord
			startedAt int64
			o         outcomeRow
		)
		dest := append([]any{&rec.RunID, &startedAt}, o.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan fixture history: %w", err)
		}
		rec.StartedAt = time.Unix(0, startedAt).UTC()
		rec.Outcome = o.outcome()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fixture history: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRunInfo(row scanner) (RunInfo, error) {
	var (
		info      RunInfo
		startedAt int64
		elapsed   int64
	)
	err := row.Scan(&info.ID, &startedAt, &elapsed, &info.Dir, &info.Subject,
		&info.Total, &info.Passed, &info.Failed, &info.Fingerprint)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunInfo{}, err
		}
		return RunInfo{}, fmt.Errorf("scan run: %w", err)
	}
	info.StartedAt = time.Unix(0, startedAt).UTC()
	info.Elapsed = time.Duration(elapsed)
	return info, nil
}

// outcomeRow holds the scanned columns of one outcomes row.
type outcomeRow struct {
	fixture  string
	expected string
	actual   string
	pass     bool
	reason   string
	detail   string
	stderr   string
	exitCode int
	duration int64
}

func (r *outcomeRow) dest() []any {
	return []any{&r.fixture, &r.expected, &r.actual, &r.pass, &r.reason, &r.detail, &r.stderr, &r.exitCode, &r.duration}
}

func (r *outcomeRow) outcome() harness.Outcome {
	return harness.Outcome{
		Fixture:  r.fixture,
		Expected: fixture.Verdict(r.expected),
		Actual:   r.actual,
		Pass:     r.pass,
		Reason:   harness.Reason(r.reason),
		Detail:   r.detail,
		Stderr:   r.stderr,
		ExitCode: r.exitCode,
		Duration: time.Duration(r.duration),
	}
}

func scanOutcome(row scanner) (harness.Outcome, error) {
	var o outcomeRow
	if err := row.Scan(o.dest()...); err != nil {
		return harness.Outcome{}, fmt.Errorf("scan outcome: %w", err)
	}
	return o.outcome(), nil
}
