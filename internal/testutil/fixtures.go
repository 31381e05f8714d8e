package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FixtureDir creates a temporary directory holding one file per entry of
// files, keyed by file name. It returns the directory path.
func FixtureDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
	return dir
}

// SubjectScript writes an executable /bin/sh script with the given body and
// returns its path. The fixture path arrives as "$1".
//
// Tests that use it are skipped on Windows.
func SubjectScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("subject scripts require /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "subject.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("write subject script: %v", err)
	}
	return path
}

// EchoSubject returns a subject script that prints the fixture's contents.
// Combined with FixtureDir this lets a test decide what the subject "says"
// about each fixture.
func EchoSubject(t *testing.T) string {
	t.Helper()
	return SubjectScript(t, `cat "$1"`)
}
