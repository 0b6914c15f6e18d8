package cli

import (
	stdcontext "context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runward/runward/internal/runbook"
	"github.com/runward/runward/internal/subprocess"
)

func NewRootCmd() *cobra.Command {
	root, _ := newRootCommand()
	return root
}

func newRootCommand() (*cobra.Command, *context) {
	var bookFile string
	var logJSON bool
	var verbose bool

	root := &cobra.Command{
		Use:   "runward",
		Short: "Supervised shell command runner",
	}

	root.PersistentFlags().
		StringVarP(&bookFile, "file", "f", "runbook.yaml", "Path to runbook definition")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit output lines as JSON log records")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	ctx := &context{bookFile: &bookFile, logJSON: &logJSON, verbose: &verbose}
	root.AddCommand(newExecCmd(ctx))
	root.AddCommand(newRunCmd(ctx))
	root.AddCommand(newListCmd(ctx))

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root, ctx
}

// Execute runs the CLI entrypoint. On a non-zero child exit the process
// exit code mirrors the child's.
func Execute() {
	ctx, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetContext(ctx)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr *subprocess.ExitError
		if errors.As(err, &exitErr) && exitErr.Code > 0 {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

type context struct {
	bookFile *string
	logJSON  *bool
	verbose  *bool
}

func (c *context) loadBook() (*runbook.Book, error) {
	return runbook.Load(*c.bookFile)
}
