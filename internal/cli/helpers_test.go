package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jsonconform/internal/testutil"
)

// fixtureDir holds the checked-in fixtures used with fakeValidator.
const fixtureDir = "testdata/fixtures"

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// fakeValidator answers for the fixtures in testdata/fixtures: it gets
// pass2.json wrong and prints nothing for fail7.json.
func fakeValidator() *testutil.FakeSubject {
	return testutil.NewFakeSubject(map[string]testutil.Response{
		"fail1.json": {Stdout: "FAIL\n"},
		"pass1.json": {Stdout: "PASS\n"},
		"pass2.json": {Stdout: "FAIL\n", Stderr: "nesting too deep\n", ExitCode: 1},
	})
}

// deterministicRunOptions returns run options with a fake subject, a fixed
// clock and sequential run IDs, so output is identical on every run.
func deterministicRunOptions(format string) *RunOptions {
	return &RunOptions{
		RootOptions: &RootOptions{Format: format},
		Runner:      fakeValidator(),
		RunIDs:      testutil.NewSequentialRunIDs(""),
		Clock:       testutil.NewDeterministicClock(),
	}
}

// execute runs cmd with args and returns what it wrote to stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// recordFakeRun records one deterministic run of fakeValidator in a new
// database and returns the database path. The run ID is "run-0001".
func recordFakeRun(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "history.db")
	_, _, err := execute(newRunCommand(deterministicRunOptions("text")),
		"--dir", fixtureDir, "--subject", "validator --strict", "--db", db, "--no-color")
	require.Equal(t, ExitFailure, GetExitCode(err))
	return db
}
