package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/spf13/cobra"
)

// configPath is the --config flag shared by every command.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "sysmon",
	Short: "Watch CPU, memory, GPU, disks, network, and processes on this machine",
	Long: `sysmon samples this machine's resource usage on a fixed interval and shows
it as a live dashboard, a console view, a local web view, or a one-shot report.

Settings are read from --config, ./.sysmon.yaml, or ~/.config/sysmon/config.yaml,
in that order. SYSMON_* environment variables override file values.

Examples:
  sysmon
  sysmon console
  sysmon snapshot --format json
  sysmon serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context(), monitorFlags, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default: ./.sysmon.yaml, then ~/.config/sysmon/config.yaml)")
	AddCommonFlags(rootCmd, &monitorFlags)
}

// Execute runs the root command and exits with the right status. SIGINT and
// SIGTERM cancel the command's context so presenters can shut down cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	os.Exit(exitCode(err))
}

// exitCode prints err, if it carries a message, and maps it to a status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}
	fmt.Fprint(os.Stderr, formatError(err))
	return 1
}

// formatError makes sure the message ends with a newline. Structured errors
// already do; cobra's flag errors do not.
func formatError(err error) string {
	msg := err.Error()
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	return msg
}
