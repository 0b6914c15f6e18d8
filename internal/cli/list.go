package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(ctx *context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks defined in the runbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := ctx.loadBook()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TASK\tTIMEOUT\tCOMMAND")
			for _, name := range book.TaskNames() {
				task := book.Tasks[name]
				timeout := "-"
				if task.Timeout.Duration > 0 {
					timeout = task.Timeout.String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, timeout, commandSummary(task.Command))
			}
			return w.Flush()
		},
	}
	return cmd
}

func commandSummary(command string) string {
	line := command
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx] + " ..."
	}
	if runes := []rune(line); len(runes) > 60 {
		line = string(runes[:57]) + "..."
	}
	return line
}
