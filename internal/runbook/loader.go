package runbook

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads a runbook manifest from the provided path, resolves working
// directories and env files relative to the manifest, applies defaults and
// validates the result.
func Load(path string) (*Book, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve runbook path: %w", err)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open runbook: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	var doc Book
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", absPath, err)
	}

	bookDir := filepath.Dir(absPath)
	bookWorkdir := resolveWorkdir(bookDir, os.ExpandEnv(doc.Book.Workdir))
	doc.Book.Workdir = bookWorkdir

	for name, task := range doc.Tasks {
		if task == nil {
			continue
		}

		if task.Workdir != "" {
			task.ResolvedWorkdir = resolveWorkdir(bookWorkdir, os.ExpandEnv(task.Workdir))
		}

		env, err := mergeTaskEnv(&doc.Defaults, task, bookDir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", taskField(name, "envFile"), err)
		}
		task.Env = env

		if task.Encoding == "" {
			task.Encoding = doc.Defaults.Encoding
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", absPath, err)
	}
	return &doc, nil
}

func resolveWorkdir(base, workdir string) string {
	if workdir == "" {
		return base
	}
	if filepath.IsAbs(workdir) {
		return filepath.Clean(workdir)
	}
	return filepath.Clean(filepath.Join(base, workdir))
}

// mergeTaskEnv builds the effective environment of a task. Precedence is
// defaults < env file < inline task env. A nil result means no env was
// declared anywhere, so the task inherits the ambient environment.
func mergeTaskEnv(defaults *Defaults, task *TaskSpec, bookDir string) (map[string]string, error) {
	var fileEnv map[string]string
	if task.EnvFile != "" {
		expanded := os.ExpandEnv(task.EnvFile)
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Clean(filepath.Join(bookDir, expanded))
		}
		task.EnvFile = expanded

		var err error
		fileEnv, err = godotenv.Read(expanded)
		if err != nil {
			return nil, fmt.Errorf("load env file %q: %w", expanded, err)
		}
	}

	if len(defaults.Env) == 0 && fileEnv == nil && task.Env == nil {
		return nil, nil
	}

	merged := make(map[string]string, len(defaults.Env)+len(fileEnv)+len(task.Env))
	for k, v := range defaults.Env {
		merged[k] = os.ExpandEnv(v)
	}
	for k, v := range fileEnv {
		merged[k] = v
	}
	for k, v := range task.Env {
		merged[k] = os.ExpandEnv(v)
	}
	return merged, nil
}
