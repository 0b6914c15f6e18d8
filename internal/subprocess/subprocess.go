package subprocess

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ErrBusy is returned when Run is called while another invocation is still
// in flight on the same hook. Concurrent invocations need separate hooks.
var ErrBusy = errors.New("subprocess: invocation already in flight")

// tailLimit bounds how many trailing output lines are retained for error
// reporting.
const tailLimit = 20

// Invocation describes a single command execution. The value is read-only
// for the duration of Run.
type Invocation struct {
	// Command is a shell-interpretable string executed via "<shell> -c".
	Command string

	// Env, when non-nil, fully replaces the ambient environment of the
	// child. A nil Env inherits a copy of the current process environment
	// taken at spawn time.
	Env map[string]string

	// Dir is the child's working directory. When empty, a fresh temporary
	// directory is created and removed once Run returns.
	Dir string

	// OutputEncoding names the text encoding of the merged output stream.
	// Empty means UTF-8. Undecodable bytes are replaced, never fatal.
	OutputEncoding string
}

// SpawnError reports that the command could not be launched at all, as
// opposed to running and exiting non-zero.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn command: %v", e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitError reports a command that ran to completion with a non-zero exit
// code. Tail holds the last captured output lines for diagnostics.
type ExitError struct {
	Code int
	Tail []string
}

func (e *ExitError) Error() string {
	if len(e.Tail) == 0 {
		return fmt.Sprintf("command exited with code %d and produced no output", e.Code)
	}
	return fmt.Sprintf("command exited with code %d, last output:\n%s", e.Code, strings.Join(e.Tail, "\n"))
}

// Hook supervises one command invocation at a time and exposes an
// out-of-band Terminate that signals the whole process group of the child.
type Hook struct {
	logger zerolog.Logger
	sink   func(line string)

	mu   sync.Mutex
	proc *os.Process
	busy bool
}

// Option configures a Hook.
type Option func(*Hook)

// WithLogger attaches a logger used for invocation lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Hook) {
		h.logger = logger
	}
}

// WithLineSink registers a sink invoked for every decoded output line, in
// emission order, as the line arrives.
func WithLineSink(sink func(line string)) Option {
	return func(h *Hook) {
		h.sink = sink
	}
}

// NewHook constructs a hook with no live process.
func NewHook(opts ...Option) *Hook {
	h := &Hook{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Run executes inv.Command through a shell and blocks until the command
// exits. The merged stdout/stderr stream is decoded and forwarded line by
// line while the command runs. On exit code zero Run returns the last
// non-empty output line (empty string if the command produced no output).
// A non-zero exit yields an *ExitError; a launch failure yields a
// *SpawnError. Cancelling ctx kills the entire process group.
func (h *Hook) Run(ctx context.Context, inv Invocation) (string, error) {
	if strings.TrimSpace(inv.Command) == "" {
		return "", &SpawnError{Err: errors.New("command must not be empty")}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	h.mu.Lock()
	if h.busy {
		h.mu.Unlock()
		return "", ErrBusy
	}
	h.busy = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.busy = false
		h.proc = nil
		h.mu.Unlock()
	}()

	dir := inv.Dir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "runwardtmp")
		if err != nil {
			return "", &SpawnError{Err: fmt.Errorf("create scratch dir: %w", err)}
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	shell, err := lookupShell()
	if err != nil {
		return "", &SpawnError{Err: err}
	}

	cmd := exec.CommandContext(ctx, shell, "-c", inv.Command)
	cmd.Dir = dir
	cmd.Env = buildEnv(inv.Env)

	// Merge stderr into stdout at the fd level so interleaving matches
	// what the command actually emitted.
	pr, pw, err := os.Pipe()
	if err != nil {
		return "", &SpawnError{Err: fmt.Errorf("output pipe: %w", err)}
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	configureCmdSysProcAttr(cmd)

	decoded, err := decodeReader(pr, inv.OutputEncoding)
	if err != nil {
		pr.Close()
		pw.Close()
		return "", &SpawnError{Err: err}
	}

	h.logger.Debug().Str("shell", shell).Str("dir", dir).Msg("running command")

	// Publish the handle atomically with Start so a concurrent Terminate
	// never observes a live process behind a nil handle.
	h.mu.Lock()
	if err := cmd.Start(); err != nil {
		h.mu.Unlock()
		pr.Close()
		pw.Close()
		return "", &SpawnError{Err: fmt.Errorf("start %s: %w", shell, err)}
	}
	h.proc = cmd.Process
	h.mu.Unlock()

	// The child process group holds its own copy of the write end; closing
	// ours lets the read loop observe EOF when the group dies.
	pw.Close()
	defer pr.Close()

	var lastLine string
	var tail []string

	reader := bufio.NewReaderSize(decoded, 64*1024)
	for {
		raw, readErr := reader.ReadString('\n')
		if raw != "" {
			line := strings.TrimSpace(raw)
			if line != "" {
				lastLine = line
			}
			tail = appendTail(tail, line)
			if h.sink != nil {
				h.sink(line)
			}
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				// Abandoning the stream mid-read would leave the child
				// blocked writing into a full pipe and Wait stuck;
				// consume the remainder so the exit can be observed.
				_, _ = io.Copy(io.Discard, decoded)
			}
			break
		}
	}

	waitErr := cmd.Wait()

	h.mu.Lock()
	h.proc = nil
	h.mu.Unlock()

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code := exitErr.ExitCode()
			h.logger.Info().Int("exit_code", code).Msg("command failed")
			return "", &ExitError{Code: code, Tail: tail}
		}
		return "", &SpawnError{Err: waitErr}
	}

	h.logger.Info().Int("exit_code", 0).Msg("command exited")
	return lastLine, nil
}

// Terminate requests termination of the in-flight invocation by signalling
// the child's entire process group. It does not wait for the process to
// exit and is a silent no-op when no invocation is live. Safe to call from
// any goroutine, including concurrently with Run.
func (h *Hook) Terminate() {
	h.mu.Lock()
	proc := h.proc
	h.mu.Unlock()
	if proc == nil {
		return
	}
	if err := terminateGroup(proc); err != nil {
		h.logger.Warn().Err(err).Int("pid", proc.Pid).Msg("terminate process group")
		return
	}
	h.logger.Info().Int("pid", proc.Pid).Msg("termination requested")
}

func lookupShell() (string, error) {
	if path, err := exec.LookPath("bash"); err == nil {
		return path, nil
	}
	path, err := exec.LookPath("sh")
	if err != nil {
		return "", fmt.Errorf("no usable shell found: %w", err)
	}
	return path, nil
}

// buildEnv materialises the child environment. A nil map inherits a copy of
// the ambient environment; a non-nil map replaces it entirely.
func buildEnv(env map[string]string) []string {
	if env == nil {
		return os.Environ()
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, env[k]))
	}
	return pairs
}

func appendTail(tail []string, line string) []string {
	if len(tail) == tailLimit {
		copy(tail, tail[1:])
		tail[len(tail)-1] = line
		return tail
	}
	return append(tail, line)
}
