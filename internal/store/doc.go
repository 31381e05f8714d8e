// Package store provides SQLite-backed history of conformance runs.
//
// Each run is one row in runs plus one row per fixture in outcomes, keyed
// by (run_id, idx) where idx is the fixture's position in the run. Reading
// a run back yields the same Summary, in the same fixture order, that was
// recorded.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Timestamps are stored as integer Unix nanoseconds in UTC so that
// ORDER BY started_at is chronological.
package store
