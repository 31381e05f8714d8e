// Package config resolves runner settings from defaults, an optional YAML
// file and command-line overrides.
//
// A config file looks like:
//
//	dir: ./tests/json_org_tests
//	subject: ["cargo", "run", "--release"]   # or "cargo run --release"
//	timeout: 10s                              # or 10 (seconds)
//	parallel: 4
//	filter: "pass*"
//	db: ./jsonconform.db
//
// The resolved configuration is checked against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSrc string

// DefaultFile is read from the working directory when no --config is given.
const DefaultFile = "jsonconform.yaml"

// DefaultDir is where fixtures are looked for when nothing else is configured.
const DefaultDir = "./tests/json_org_tests"

// DefaultSubject is the subject command used when none is configured.
var DefaultSubject = []string{"cargo", "run", "--release"}

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is a fully resolved runner configuration.
type Config struct {
	Dir      string
	Subject  []string
	Timeout  time.Duration
	Parallel int
	Filter   string
	DB       string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Dir:      DefaultDir,
		Subject:  append([]string(nil), DefaultSubject...),
		Parallel: 1,
	}
}

// Command is a subject command line. In YAML it may be written as a list
// of arguments or as a single whitespace-separated string.
type Command []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Command) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = strings.Fields(node.Value)
		return nil
	case yaml.SequenceNode:
		var args []string
		if err := node.Decode(&args); err != nil {
			return err
		}
		*c = args
		return nil
	default:
		return fmt.Errorf("line %d: subject must be a string or a list of strings", node.Line)
	}
}

// Timeout is a per-fixture timeout. In YAML it may be a Go duration string
// ("1m30s") or an integer number of seconds.
type Timeout time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Timeout) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: timeout must be a duration", node.Line)
	}
	d, err := ParseTimeout(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*t = Timeout(d)
	return nil
}

// File mirrors the YAML config file. Unset fields keep their defaults.
type File struct {
	Dir      string   `yaml:"dir"`
	Subject  Command  `yaml:"subject"`
	Timeout  *Timeout `yaml:"timeout"`
	Parallel *int     `yaml:"parallel"`
	Filter   string   `yaml:"filter"`
	DB       string   `yaml:"db"`
}

// Decode parses a YAML config. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &f, nil
}

// Apply overlays the fields set in f onto c.
func (f *File) Apply(c Config) Config {
	if f.Dir != "" {
		c.Dir = f.Dir
	}
	if len(f.Subject) > 0 {
		c.Subject = append([]string(nil), f.Subject...)
	}
	if f.Timeout != nil {
		c.Timeout = time.Duration(*f.Timeout)
	}
	if f.Parallel != nil {
		c.Parallel = *f.Parallel
	}
	if f.Filter != "" {
		c.Filter = f.Filter
	}
	if f.DB != "" {
		c.DB = f.DB
	}
	return c
}

// Load resolves the configuration from a file layered over the defaults.
//
// If path is empty, DefaultFile is used when it exists and the defaults
// alone otherwise. An explicit path that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	cfg = f.Apply(cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks c against the embedded CUE schema.
func Validate(c Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	subject := c.Subject
	if subject == nil {
		subject = []string{}
	}
	value := ctx.Encode(map[string]any{
		"dir":        c.Dir,
		"subject":    subject,
		"timeout_ns": int64(c.Timeout),
		"parallel":   c.Parallel,
		"filter":     c.Filter,
		"db":         c.DB,
	})

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, formatCUEError(err))
	}
	return nil
}

// formatCUEError flattens CUE's error list into one line per problem.
func formatCUEError(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path := strings.Join(e.Path(), "."); path != "" {
			msg = path + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}

// maxTimeoutSeconds is the largest whole-second timeout a time.Duration holds.
const maxTimeoutSeconds = math.MaxInt64 / int64(time.Second)

// ParseTimeout accepts a Go duration ("2s", "1m30s") or a bare integer
// number of seconds ("10"). Negative values are rejected; zero disables
// the timeout.
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	var d time.Duration
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > maxTimeoutSeconds {
			return 0, fmt.Errorf("invalid timeout %q: out of range", s)
		}
		d = time.Duration(n) * time.Second
	} else {
		d, err = time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout %q: use a duration like 10s or a number of seconds", s)
		}
	}

	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", s)
	}
	return d, nil
}
