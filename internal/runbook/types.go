package runbook

import (
	"fmt"
	"time"
)

// Duration wraps time.Duration for YAML unmarshalling.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a textual duration, accepting empty strings.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = dur
	return nil
}

// MarshalText renders the duration using time.Duration formatting.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Book mirrors the runbook.yaml document structure.
type Book struct {
	Version  string               `yaml:"version"`
	Book     Meta                 `yaml:"book"`
	Defaults Defaults             `yaml:"defaults"`
	Tasks    map[string]*TaskSpec `yaml:"tasks"`
}

// Meta contains metadata about the runbook document.
type Meta struct {
	Name    string `yaml:"name"`
	Workdir string `yaml:"workdir"`
}

// Defaults captures settings applied to tasks that do not override them.
type Defaults struct {
	Encoding string            `yaml:"encoding"`
	Env      map[string]string `yaml:"env"`
}

// TaskSpec declares a single supervised command. A task with no env of its
// own (inline, file or defaults) inherits the ambient environment; any
// declared env fully replaces it.
type TaskSpec struct {
	Command  string            `yaml:"command"`
	Env      map[string]string `yaml:"env"`
	EnvFile  string            `yaml:"envFile"`
	Workdir  string            `yaml:"workdir"`
	Encoding string            `yaml:"encoding"`

	// Timeout, when positive, bounds the invocation: the caller arms a
	// timer that terminates the task's process group once it fires.
	Timeout Duration `yaml:"timeout"`

	// ResolvedWorkdir is the absolute working directory computed at load
	// time. Empty means the task runs in a fresh scratch directory.
	ResolvedWorkdir string `yaml:"-"`
}
