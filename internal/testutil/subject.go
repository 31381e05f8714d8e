package testutil

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/roach88/jsonconform/internal/subject"
)

// Response is the scripted reaction of a FakeSubject to one fixture.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error         // returned alongside the invocation (or alone, see NoProcess)
	Delay    time.Duration // blocks until elapsed or the context is done

	// NoProcess makes Run return a nil Invocation, as if the program
	// never started.
	NoProcess bool
}

// FakeSubject is an in-process subject.Runner with canned responses keyed
// by fixture base name. Unknown fixtures produce no output.
//
// Thread-safety: FakeSubject is safe for concurrent use via internal mutex.
type FakeSubject struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []string
}

var _ subject.Runner = (*FakeSubject)(nil)

// NewFakeSubject creates a fake from a name->response table.
func NewFakeSubject(responses map[string]Response) *FakeSubject {
	if responses == nil {
		responses = map[string]Response{}
	}
	return &FakeSubject{responses: responses}
}

// Run implements subject.Runner.
func (f *FakeSubject) Run(ctx context.Context, path string) (*subject.Invocation, error) {
	name := filepath.Base(path)

	f.mu.Lock()
	f.calls = append(f.calls, name)
	resp := f.responses[name]
	f.mu.Unlock()

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return &subject.Invocation{}, ctx.Err()
		}
	}

	if resp.NoProcess {
		return nil, resp.Err
	}
	return &subject.Invocation{
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
		ExitCode: resp.ExitCode,
	}, resp.Err
}

// Calls returns the fixture names the fake was invoked with, sorted.
func (f *FakeSubject) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := append([]string(nil), f.calls...)
	sort.Strings(calls)
	return calls
}
