package cli

import (
	stdcontext "context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/runward/runward/internal/cliutil"
	"github.com/runward/runward/internal/metrics"
	"github.com/runward/runward/internal/subprocess"
)

// execute runs one invocation under supervision: it wires the line sink,
// arms the optional timeout, forwards interrupts as group terminations and
// prints the result line to stdout.
func (c *context) execute(cmd *cobra.Command, task string, inv subprocess.Invocation, timeout time.Duration) error {
	stderr := cmd.ErrOrStderr()
	logger := newLogger(stderr, *c.logJSON, *c.verbose)

	var sink func(string)
	if *c.logJSON {
		enc := json.NewEncoder(stderr)
		sink = func(line string) {
			record := cliutil.NewOutputRecord(task, cliutil.RedactSecrets(line))
			cliutil.EncodeLogRecord(enc, stderr, record)
		}
	} else {
		sink = func(line string) {
			logger.Info().Str("source", cliutil.SourceOutput).Msg(cliutil.RedactSecrets(line))
		}
	}

	if len(inv.Env) > 0 {
		logger.Debug().Strs("env", cliutil.DescribeEnv(inv.Env)).Msg("using explicit environment")
	}

	hook := subprocess.NewHook(
		subprocess.WithLogger(logger),
		subprocess.WithLineSink(sink),
	)

	if timeout > 0 {
		timer := time.AfterFunc(timeout, func() {
			logger.Warn().Dur("timeout", timeout).Msg("timeout reached, terminating process group")
			metrics.IncrementTermination()
			hook.Terminate()
		})
		defer timer.Stop()
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-cmd.Context().Done():
			logger.Warn().Msg("interrupt received, terminating process group")
			metrics.IncrementTermination()
			hook.Terminate()
		case <-done:
		}
	}()

	start := time.Now()
	line, err := hook.Run(stdcontext.Background(), inv)
	metrics.ObserveInvocation(task, outcomeFor(err), time.Since(start))
	if err != nil {
		return fmt.Errorf("task %s: %w", task, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
	return nil
}

func outcomeFor(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	var exitErr *subprocess.ExitError
	if errors.As(err, &exitErr) {
		return metrics.OutcomeExitError
	}
	return metrics.OutcomeSpawnError
}
