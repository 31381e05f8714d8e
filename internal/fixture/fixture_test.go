package fixture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644))
	}
}

func TestExpectedVerdict(t *testing.T) {
	tests := []struct {
		name string
		want Verdict
	}{
		{"pass1.json", VerdictPass},
		{"pass.json", VerdictPass},
		{"passing_edge.json", VerdictPass},
		{"fail1.json", VerdictFail},
		{"Pass1.json", VerdictFail},
		{"PASS1.json", VerdictFail},
		{"n_structure.json", VerdictFail},
		{"xpass.json", VerdictFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpectedVerdict(tt.name))
		})
	}
}

func TestNew(t *testing.T) {
	f := New(filepath.Join("tests", "pass3.json"))
	assert.Equal(t, "pass3.json", f.Name)
	assert.Equal(t, filepath.Join("tests", "pass3.json"), f.Path)
	assert.True(t, f.ExpectPass)
	assert.Equal(t, VerdictPass, f.Expected())

	f = New("fail3.json")
	assert.False(t, f.ExpectPass)
	assert.Equal(t, VerdictFail, f.Expected())
}

func TestDiscover_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "pass2.json", "fail10.json", "pass1.json", "fail2.json", "README.md", "pass3.json.bak")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))

	fixtures, err := Discover(dir, "")
	require.NoError(t, err)

	var names []string
	for _, f := range fixtures {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"fail10.json", "fail2.json", "pass1.json", "pass2.json"}, names)
	assert.Equal(t, filepath.Join(dir, "fail10.json"), fixtures[0].Path)
}

func TestDiscover_Filter(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "pass1.json", "pass2.json", "fail1.json")

	fixtures, err := Discover(dir, "pass*")
	require.NoError(t, err)
	assert.Len(t, fixtures, 2)
	for _, f := range fixtures {
		assert.True(t, f.ExpectPass)
	}
}

func TestDiscover_InvalidFilter(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "pass1.json")

	_, err := Discover(dir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
	assert.False(t, errors.Is(err, ErrDirectoryNotFound))
}

func TestDiscover_EmptyDirectory(t *testing.T) {
	fixtures, err := Discover(t.TempDir(), "")
	require.NoError(t, err)
	assert.Empty(t, fixtures)
}

func TestDiscover_MissingDirectory(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDirectoryNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "pass1.json")

	_, err := Discover(filepath.Join(dir, "pass1.json"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDirectoryNotFound)
	assert.Contains(t, err.Error(), "not a directory")
}
