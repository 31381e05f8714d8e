package subject_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jsonconform/internal/subject"
	"github.com/roach88/jsonconform/internal/testutil"
)

func TestParseCommand(t *testing.T) {
	assert.Equal(t, []string{"cargo", "run", "--release"}, subject.ParseCommand("cargo run --release"))
	assert.Equal(t, []string{"./validator"}, subject.ParseCommand("  ./validator  "))
	assert.Empty(t, subject.ParseCommand("   "))
}

func TestCommand_String(t *testing.T) {
	cmd := subject.NewCommand([]string{"cargo", "run", "--release"}, 0)
	assert.Equal(t, "cargo run --release", cmd.String())
}

func TestCommand_CapturesStdoutAndStderr(t *testing.T) {
	script := testutil.SubjectScript(t, `echo PASS; echo "parsed $1" >&2`)
	cmd := subject.NewCommand([]string{script}, 0)

	inv, err := cmd.Run(context.Background(), "fixtures/pass1.json")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, "PASS\n", inv.Stdout)
	assert.Equal(t, "parsed fixtures/pass1.json\n", inv.Stderr)
	assert.Equal(t, 0, inv.ExitCode)
}

func TestCommand_FixedArgumentsPrecedeFixture(t *testing.T) {
	script := testutil.SubjectScript(t, `echo "$1 $2"`)
	cmd := subject.NewCommand([]string{script, "--strict"}, 0)

	inv, err := cmd.Run(context.Background(), "pass1.json")
	require.NoError(t, err)
	assert.Equal(t, "--strict pass1.json\n", inv.Stdout)
}

func TestCommand_NonZeroExitIsNotAnError(t *testing.T) {
	script := testutil.SubjectScript(t, `echo FAIL; exit 3`)
	cmd := subject.NewCommand([]string{script}, 0)

	inv, err := cmd.Run(context.Background(), "fail1.json")
	require.NoError(t, err)
	assert.Equal(t, "FAIL\n", inv.Stdout)
	assert.Equal(t, 3, inv.ExitCode)
}

func TestCommand_MissingExecutable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-validator")
	cmd := subject.NewCommand([]string{missing}, 0)

	inv, err := cmd.Run(context.Background(), "pass1.json")
	require.Error(t, err)
	assert.Nil(t, inv)
	assert.ErrorIs(t, err, subject.ErrSpawn)
}

func TestCommand_EmptyArgv(t *testing.T) {
	cmd := subject.NewCommand(nil, 0)

	_, err := cmd.Run(context.Background(), "pass1.json")
	assert.ErrorIs(t, err, subject.ErrSpawn)
}

func TestCommand_TimeoutKillsChild(t *testing.T) {
	script := testutil.SubjectScript(t, `echo started; exec sleep 30`)
	cmd := subject.NewCommand([]string{script}, 200*time.Millisecond)

	start := time.Now()
	inv, err := cmd.Run(context.Background(), "pass1.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, subject.ErrTimeout)
	assert.Contains(t, err.Error(), "exceeded 200ms")
	require.NotNil(t, inv)
	assert.Equal(t, "started\n", inv.Stdout)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestCommand_ParentCancel(t *testing.T) {
	script := testutil.SubjectScript(t, `exec sleep 30`)
	cmd := subject.NewCommand([]string{script}, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err := cmd.Run(ctx, "pass1.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, subject.ErrCanceled)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, subject.ErrTimeout))
}

func TestCommand_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	script := testutil.SubjectScript(t, `pwd`)
	cmd := subject.NewCommand([]string{script}, 0)
	cmd.Dir = dir

	inv, err := cmd.Run(context.Background(), "pass1.json")
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Contains(t, []string{dir + "\n", resolved + "\n"}, inv.Stdout)
}
