package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jsonconform/internal/store"
)

func TestShowCommand_TextGolden(t *testing.T) {
	db := recordFakeRun(t)

	stdout, _, err := execute(NewRootCommand(), "show", "--db", db, "--no-color", "run-0001")
	require.NoError(t, err)
	newGoldie(t).Assert(t, "show_text", []byte(stdout))
}

func TestShowCommand_JSON(t *testing.T) {
	db := recordFakeRun(t)

	stdout, _, err := execute(NewRootCommand(), "--format", "json", "show", "--db", db, "run-0001")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   store.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-0001", resp.Data.ID)
	require.Len(t, resp.Data.Summary.Outcomes, 4)
	assert.Equal(t, "fail1.json", resp.Data.Summary.Outcomes[0].Fixture)
	assert.Equal(t, "pass2.json", resp.Data.Summary.Outcomes[3].Fixture)
	assert.Equal(t, "nesting too deep\n", resp.Data.Summary.Outcomes[3].Stderr)

	fp, err := resp.Data.Summary.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, resp.Data.Fingerprint, fp)
}

func TestShowCommand_NotFound(t *testing.T) {
	db := recordFakeRun(t)

	_, _, err := execute(NewRootCommand(), "show", "--db", db, "run-9999")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestShowCommand_RequiresRunID(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	_, _, err := execute(NewRootCommand(), "show", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
