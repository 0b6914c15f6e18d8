package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/runward/runward/internal/subprocess"
)

func newExecCmd(ctx *context) *cobra.Command {
	var envFlags []string
	var envFile string
	var workdir string
	var encoding string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "exec [flags] -- <command>",
		Short: "Run a single shell command under supervision",
		Long: "Exec runs a shell command, streams its merged stdout/stderr and prints " +
			"the last non-empty output line on success. Declaring any --env or " +
			"--env-file replaces the ambient environment entirely; omitting both " +
			"inherits it.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := collectEnv(envFlags, envFile)
			if err != nil {
				return err
			}
			inv := subprocess.Invocation{
				Command:        strings.Join(args, " "),
				Env:            env,
				Dir:            workdir,
				OutputEncoding: encoding,
			}
			return ctx.execute(cmd, "exec", inv, timeout)
		},
	}

	cmd.Flags().StringArrayVarP(&envFlags, "env", "e", nil, "Environment entry KEY=VALUE (repeatable, replaces ambient env)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load environment entries from a dotenv file")
	cmd.Flags().StringVarP(&workdir, "workdir", "w", "", "Working directory (default is a fresh scratch dir)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Output text encoding (default utf-8)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Terminate the process group after this duration")

	return cmd
}
