package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/jsonconform/internal/report"
	"github.com/roach88/jsonconform/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	NoColor  bool
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the report of a recorded run",
		Long: `Print the report of a run recorded with "jsonconform run --db".

Example:
  jsonconform show --db ./jsonconform.db 0192d6a4-7b3c-7c1e-9a51-3f0c2e6b8d10`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())

	st, err := openHistory(formatter, opts.Database, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.ReadRun(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return formatter.CommandError(ErrCodeRunNotFound, fmt.Sprintf("run %s not found", id), err)
		}
		return formatter.CommandError(ErrCodeStore, "failed to read run", err)
	}

	if formatter.IsJSON() {
		return formatter.Success(run)
	}

	w := formatter.Writer
	if _, err := fmt.Fprintf(w, "Run:         %s\nStarted:     %s\nElapsed:     %s\nDir:         %s\nSubject:     %s\nFingerprint: %s\n\n",
		run.ID, formatTime(run.Summary.StartedAt), run.Summary.Elapsed, run.Dir, run.Subject, run.Fingerprint); err != nil {
		return err
	}
	text := report.Text{Verbose: opts.Verbose, Color: useColor(opts.NoColor, w)}
	return text.Write(w, run.Summary)
}
