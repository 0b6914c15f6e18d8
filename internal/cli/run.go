package cli

import (
	"github.com/spf13/cobra"

	"github.com/runward/runward/internal/subprocess"
)

func newRunCmd(ctx *context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <task>",
		Short: "Run a named task from the runbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := ctx.loadBook()
			if err != nil {
				return err
			}
			task, err := book.Task(args[0])
			if err != nil {
				return err
			}
			inv := subprocess.Invocation{
				Command:        task.Command,
				Env:            task.Env,
				Dir:            task.ResolvedWorkdir,
				OutputEncoding: task.Encoding,
			}
			return ctx.execute(cmd, args[0], inv, task.Timeout.Duration)
		},
	}
	return cmd
}
