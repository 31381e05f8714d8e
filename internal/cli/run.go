package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/jsonconform/internal/config"
	"github.com/roach88/jsonconform/internal/fixture"
	"github.com/roach88/jsonconform/internal/harness"
	"github.com/roach88/jsonconform/internal/report"
	"github.com/roach88/jsonconform/internal/store"
	"github.com/roach88/jsonconform/internal/subject"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Dir      string
	Subject  string
	Timeout  string
	Parallel int
	Filter   string
	Database string
	Config   string
	NoColor  bool

	// Runner replaces the subject process (for testing).
	// If nil, the configured subject command is executed.
	Runner subject.Runner

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs store.RunIDGenerator

	// Clock allows overriding the run clock (for testing).
	// If nil, wall time is used.
	Clock harness.Clock
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the subject against every fixture",
		Long: `Run the subject program once per fixture and compare its verdicts.

Fixtures are the *.json files directly inside --dir, run in name order.
Settings come from flags, then the config file (--config, or
jsonconform.yaml in the working directory), then built-in defaults.

Exit codes:
  0 - All fixtures passed (or there were none)
  1 - One or more fixtures failed
  2 - Command error (missing directory, bad config, etc.)

Examples:
  jsonconform run
  jsonconform run --dir ./tests/json_org_tests --subject "./validator"
  jsonconform run --parallel 8 --timeout 5s --filter "pass*"
  jsonconform run --db ./jsonconform.db --format json`,
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixtures(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", config.DefaultDir, "fixture directory")
	cmd.Flags().StringVar(&opts.Subject, "subject", strings.Join(config.DefaultSubject, " "), "subject command; the fixture path is appended")
	cmd.Flags().StringVar(&opts.Timeout, "timeout", "0", "per-fixture timeout as a duration or seconds (0 disables)")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 1, "fixtures run at once (0 = one per CPU)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run fixtures whose name (without .json) matches this glob")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().StringVar(&opts.Config, "config", "", "config file (default "+config.DefaultFile+" if present)")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	return cmd
}

func runFixtures(opts *RunOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())

	cfg, err := resolveRunConfig(opts, cmd)
	if err != nil {
		return formatter.CommandError(ErrCodeConfig, "invalid configuration", err)
	}

	runner := opts.Runner
	if runner == nil {
		runner = subject.NewCommand(cfg.Subject, cfg.Timeout)
	}
	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = store.UUIDv7Generator{}
	}

	ctx, stop := signalContext(cmd, logger)
	defer stop()

	h := harness.New(runner, harness.Options{
		Parallel: cfg.Parallel,
		Logger:   logger,
		Clock:    opts.Clock,
	})
	subjectLine := strings.Join(cfg.Subject, " ")
	logger.Debug("starting run", "dir", cfg.Dir, "subject", subjectLine, "parallel", h.Parallel(), "timeout", cfg.Timeout)

	summary, err := h.RunDir(ctx, cfg.Dir, cfg.Filter)
	if err != nil {
		if errors.Is(err, fixture.ErrDirectoryNotFound) {
			return formatter.CommandError(ErrCodeDirNotFound, "fixture directory not found", err)
		}
		return formatter.CommandError(ErrCodeGeneric, "failed to discover fixtures", err)
	}

	fingerprint, err := summary.Fingerprint()
	if err != nil {
		return formatter.CommandError(ErrCodeGeneric, "failed to fingerprint run", err)
	}
	run := store.Run{
		ID:          runIDs.Generate(),
		Dir:         cfg.Dir,
		Subject:     subjectLine,
		Fingerprint: fingerprint,
		Summary:     summary,
	}

	// Text reports are written before recording so a store failure never
	// hides the results. The JSON envelope waits for the store, so it can
	// carry both the results and the store error.
	if !formatter.IsJSON() {
		text := report.Text{Verbose: opts.Verbose, Color: useColor(opts.NoColor, formatter.Writer)}
		if err := text.Write(formatter.Writer, summary); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if cfg.DB != "" {
		// Record even when the run was interrupted.
		if err := recordRun(context.WithoutCancel(ctx), cfg.DB, run, logger); err != nil {
			exitErr := WrapExitError(ExitCommandError, "failed to record run", err)
			_ = formatter.Failure(ErrCodeStore, exitErr.Error(), run)
			return exitErr
		}
	}

	if formatter.IsJSON() {
		if summary.OK() {
			err = formatter.Success(run)
		} else {
			err = formatter.Failure(ErrCodeTestFailed, failedMessage(summary), run)
		}
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if !summary.OK() {
		return NewExitError(ExitFailure, failedMessage(summary))
	}
	return nil
}

// resolveRunConfig layers explicitly set flags over the config file.
func resolveRunConfig(opts *RunOptions, cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir = opts.Dir
	}
	if flags.Changed("subject") {
		cfg.Subject = subject.ParseCommand(opts.Subject)
	}
	if flags.Changed("timeout") {
		d, err := config.ParseTimeout(opts.Timeout)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Timeout = d
	}
	if flags.Changed("parallel") {
		cfg.Parallel = opts.Parallel
	}
	if flags.Changed("filter") {
		cfg.Filter = opts.Filter
	}
	if flags.Changed("db") {
		cfg.DB = opts.Database
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func recordRun(ctx context.Context, path string, run store.Run, logger *slog.Logger) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	inserted, err := st.RecordRun(ctx, run)
	if err != nil {
		return err
	}
	if !inserted {
		logger.Warn("run already recorded", "id", run.ID, "db", path)
		return nil
	}
	logger.Info("run recorded", "id", run.ID, "db", path, "fingerprint", run.Fingerprint)
	return nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM. The
// command's own context is used as parent when set (for testing).
func signalContext(cmd *cobra.Command, logger *slog.Logger) (context.Context, context.CancelFunc) {
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, canceling remaining fixtures", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

func failedMessage(s harness.Summary) string {
	return fmt.Sprintf("%d of %d fixtures failed", s.Failed, s.Total)
}

// useColor reports whether the text report should be colored: only when
// writing to a terminal stdout and not disabled by flag or NO_COLOR.
func useColor(disabled bool, w io.Writer) bool {
	if disabled || color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && f == os.Stdout
}
