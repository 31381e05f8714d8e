package store

import (
	"context"
	"fmt"
)

// RecordRun inserts a run and all of its outcomes in one transaction.
// Returns inserted=false if a run with the same ID already exists; the
// existing record is left untouched.
func (s *Store) RecordRun(ctx context.Context, run Run) (inserted bool, err error) {
	if run.ID == "" {
		return false, fmt.Errorf("record run: empty run id")
	}
	sum := run.Summary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, started_at, elapsed_ns, dir, subject, total, passed, failed, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		sum.StartedAt.UTC().UnixNano(),
		int64(sum.Elapsed),
		run.Dir,
		run.Subject,
		sum.Total,
		sum.Passed,
		sum.Failed,
		run.Fingerprint,
	)
	if err != nil {
		return false, fmt.Errorf("record run: insert run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record run: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO outcomes
		(run_id, idx, fixture, expected, actual, pass, reason, detail, stderr, exit_code, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return false, fmt.Errorf("record run: prepare outcomes: %w", err)
	}
	defer stmt.Close()

	for i, o := range sum.Outcomes {
		_, err := stmt.ExecContext(ctx,
			run.ID,
			i,
			o.Fixture,
			string(o.Expected),
			o.Actual,
			o.Pass,
			string(o.Reason),
			o.Detail,
			o.Stderr,
			o.ExitCode,
			int64(o.Duration),
		)
		if err != nil {
			return false, fmt.Errorf("record run: insert outcome %s: %w", o.Fixture, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("record run: commit: %w", err)
	}
	return true, nil
}
