package runbook

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/runward/runward/internal/subprocess"
)

var taskNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Validate checks the runbook for structural problems after loading.
func (b *Book) Validate() error {
	if len(b.Tasks) == 0 {
		return errors.New("runbook defines no tasks")
	}

	names := make([]string, 0, len(b.Tasks))
	for name := range b.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !taskNamePattern.MatchString(name) {
			return fmt.Errorf("invalid task name %q", name)
		}
		task := b.Tasks[name]
		if task == nil {
			return fmt.Errorf("task %s has no definition", name)
		}
		if strings.TrimSpace(task.Command) == "" {
			return fmt.Errorf("%s: command must not be empty", taskField(name, "command"))
		}
		if err := subprocess.ValidateEncoding(task.Encoding); err != nil {
			return fmt.Errorf("%s: %w", taskField(name, "encoding"), err)
		}
		if task.Timeout.Duration < 0 {
			return fmt.Errorf("%s: must not be negative", taskField(name, "timeout"))
		}
	}
	return nil
}

// Task looks up a task by name.
func (b *Book) Task(name string) (*TaskSpec, error) {
	task, ok := b.Tasks[name]
	if !ok || task == nil {
		return nil, fmt.Errorf("unknown task %s", name)
	}
	return task, nil
}

// TaskNames returns the task names in sorted order.
func (b *Book) TaskNames() []string {
	names := make([]string, 0, len(b.Tasks))
	for name := range b.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func taskField(name, field string) string {
	return fmt.Sprintf("tasks.%s.%s", name, field)
}
