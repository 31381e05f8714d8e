package fixture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Verdict is the literal string a subject program prints on its first line.
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictFail Verdict = "FAIL"
)

// Extension is the file extension that marks a fixture.
const Extension = ".json"

// PassPrefix marks fixtures that hold valid JSON.
const PassPrefix = "pass"

// ErrDirectoryNotFound is returned when the fixture directory is missing,
// unreadable, or not a directory.
var ErrDirectoryNotFound = errors.New("fixture directory not found")

// Fixture is a single input file and the verdict expected for it.
type Fixture struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	ExpectPass bool   `json:"expect_pass"`
}

// New builds a fixture for path, deriving the expectation from its base name.
func New(path string) Fixture {
	name := filepath.Base(path)
	return Fixture{
		Name:       name,
		Path:       path,
		ExpectPass: strings.HasPrefix(name, PassPrefix),
	}
}

// Expected returns the verdict the subject must print for this fixture.
func (f Fixture) Expected() Verdict {
	return ExpectedVerdict(f.Name)
}

// ExpectedVerdict maps a fixture file name to its expected verdict.
func ExpectedVerdict(name string) Verdict {
	if strings.HasPrefix(name, PassPrefix) {
		return VerdictPass
	}
	return VerdictFail
}

// Discover lists the .json fixtures directly inside dir, sorted by name.
// Subdirectories are not descended into.
//
// If filter is non-empty it is matched against the file name without the
// extension using filepath.Match.
func Discover(dir string, filter string) ([]Fixture, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryNotFound, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrDirectoryNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryNotFound, dir, err)
	}

	fixtures := make([]Fixture, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, Extension) {
			continue
		}

		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(name, Extension))
			if err != nil {
				return nil, fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				continue
			}
		}

		fixtures = append(fixtures, New(filepath.Join(dir, name)))
	}

	// os.ReadDir already sorts, but the order is part of the contract.
	sort.Slice(fixtures, func(i, j int) bool {
		return fixtures[i].Name < fixtures[j].Name
	})

	return fixtures, nil
}
