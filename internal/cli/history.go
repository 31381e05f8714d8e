package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/jsonconform/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Fixture  string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded with "jsonconform run --db", newest first.

With --fixture, list the outcomes of one fixture across runs instead.

Examples:
  jsonconform history --db ./jsonconform.db
  jsonconform history --db ./jsonconform.db --limit 5 --format json
  jsonconform history --db ./jsonconform.db --fixture pass1.json`,
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of entries (0 = all)")
	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "show the history of one fixture")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())

	st, err := openHistory(formatter, opts.Database, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if opts.Fixture != "" {
		records, err := st.FixtureHistory(ctx, opts.Fixture, opts.Limit)
		if err != nil {
			return formatter.CommandError(ErrCodeStore, "failed to read fixture history", err)
		}
		if formatter.IsJSON() {
			return formatter.Success(records)
		}
		return writeFixtureHistory(formatter.Writer, opts.Fixture, records)
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return formatter.CommandError(ErrCodeStore, "failed to list runs", err)
	}
	if formatter.IsJSON() {
		return formatter.Success(runs)
	}
	return writeRunList(formatter.Writer, runs)
}

// openHistory opens an existing run database. Unlike "run --db", reading
// commands never create one.
func openHistory(formatter *OutputFormatter, path string, logger *slog.Logger) (*store.Store, error) {
	if path == "" {
		return nil, formatter.CommandError(ErrCodeUsage, "--db is required", nil)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, formatter.CommandError(ErrCodeStore, "run history not found", err)
		}
		return nil, formatter.CommandError(ErrCodeStore, "failed to open run history", err)
	}

	logger.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, formatter.CommandError(ErrCodeStore, "failed to open run history", err)
	}
	return st, nil
}

func writeRunList(w io.Writer, runs []store.RunInfo) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	if _, err := fmt.Fprintf(w, "%-36s  %-20s  %6s  %6s  %6s  %s\n", "ID", "STARTED", "TOTAL", "PASSED", "FAILED", "DIR"); err != nil {
		return err
	}
	for _, r := range runs {
		_, err := fmt.Fprintf(w, "%-36s  %-20s  %6d  %6d  %6d  %s\n",
			r.ID, formatTime(r.StartedAt), r.Total, r.Passed, r.Failed, r.Dir)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFixtureHistory(w io.Writer, name string, records []store.FixtureRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintf(w, "No recorded outcomes for %s.\n", name)
		return err
	}

	if _, err := fmt.Fprintf(w, "%-36s  %-20s  %-6s  %-8s  %s\n", "RUN", "STARTED", "RESULT", "EXPECTED", "REASON"); err != nil {
		return err
	}
	for _, rec := range records {
		result := "FAIL"
		if rec.Outcome.Pass {
			result = "ok"
		}
		_, err := fmt.Fprintf(w, "%-36s  %-20s  %-6s  %-8s  %s\n",
			rec.RunID, formatTime(rec.StartedAt), result, rec.Outcome.Expected, rec.Outcome.Reason)
		if err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
