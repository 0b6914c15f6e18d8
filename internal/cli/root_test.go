package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	stdruntime "runtime"
	"strings"
	"testing"

	"github.com/runward/runward/internal/subprocess"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if stdruntime.GOOS == "windows" {
		t.Skip("cli integration tests require a POSIX shell")
	}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestExecPrintsResultLine(t *testing.T) {
	skipWithoutShell(t)

	out, _, err := runCLI(t, "exec", "--", "echo", "hello world")
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if got := strings.TrimSpace(out); got != "hello world" {
		t.Fatalf("expected %q on stdout, got %q", "hello world", got)
	}
}

func TestExecStreamsJSONRecords(t *testing.T) {
	skipWithoutShell(t)

	_, errOut, err := runCLI(t, "--log-json", "exec", "--", "echo one; echo two")
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if !strings.Contains(errOut, `"task":"exec"`) || !strings.Contains(errOut, `"msg":"one"`) {
		t.Fatalf("expected JSON output records on stderr, got:\n%s", errOut)
	}
	if strings.Index(errOut, `"msg":"one"`) > strings.Index(errOut, `"msg":"two"`) {
		t.Fatalf("records out of order:\n%s", errOut)
	}
}

func TestExecPropagatesExitError(t *testing.T) {
	skipWithoutShell(t)

	_, _, err := runCLI(t, "exec", "--", "exit 42")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	var exitErr *subprocess.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *subprocess.ExitError, got %T: %v", err, err)
	}
	if exitErr.Code != 42 {
		t.Fatalf("expected exit code 42, got %d", exitErr.Code)
	}
}

func TestExecRejectsBadEnvFlag(t *testing.T) {
	_, _, err := runCLI(t, "exec", "--env", "NOSEPARATOR", "--", "true")
	if err == nil || !strings.Contains(err.Error(), "expected KEY=VALUE") {
		t.Fatalf("expected env flag error, got %v", err)
	}
}

func writeRunbook(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "runbook.yaml")
	contents := `
book:
  name: test
tasks:
  greet:
    command: echo hello from the runbook
  fail:
    command: exit 7
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write runbook: %v", err)
	}
	return path
}

func TestRunExecutesRunbookTask(t *testing.T) {
	skipWithoutShell(t)

	path := writeRunbook(t)
	out, _, err := runCLI(t, "run", "greet", "-f", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.TrimSpace(out); got != "hello from the runbook" {
		t.Fatalf("expected task output, got %q", got)
	}
}

func TestRunUnknownTask(t *testing.T) {
	path := writeRunbook(t)
	_, _, err := runCLI(t, "run", "missing", "-f", path)
	if err == nil || !strings.Contains(err.Error(), "unknown task") {
		t.Fatalf("expected unknown task error, got %v", err)
	}
}

func TestRunFailingTask(t *testing.T) {
	skipWithoutShell(t)

	path := writeRunbook(t)
	_, _, err := runCLI(t, "run", "fail", "-f", path)
	var exitErr *subprocess.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *subprocess.ExitError, got %T: %v", err, err)
	}
	if exitErr.Code != 7 {
		t.Fatalf("expected exit code 7, got %d", exitErr.Code)
	}
}

func TestListShowsTasks(t *testing.T) {
	path := writeRunbook(t)
	out, _, err := runCLI(t, "list", "-f", path)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "greet") || !strings.Contains(out, "fail") {
		t.Fatalf("expected task names in listing:\n%s", out)
	}
	if !strings.Contains(out, "TASK") {
		t.Fatalf("expected header in listing:\n%s", out)
	}
}

func TestCommandSummaryTruncates(t *testing.T) {
	long := strings.Repeat("x", 80)
	if got := commandSummary(long); len([]rune(got)) != 60 {
		t.Fatalf("expected 60-rune summary, got %d: %q", len([]rune(got)), got)
	}
	multi := "first line\nsecond line"
	if got := commandSummary(multi); got != "first line ..." {
		t.Fatalf("expected first line summary, got %q", got)
	}
}
