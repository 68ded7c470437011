package cli

import (
	"context"
	"io"
	"os"

	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var monitorFlags CommonFlags

// monitorCmd is also what the bare root command runs.
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Full-screen resource dashboard",
	Long: `Open the live dashboard: overview cards with history sparklines, plus
tabs for processes, disks, network, alerts, and system information.

When stdout is not a terminal, a text report is printed instead.

Keys:
  1-6 / tab   switch tabs          s   change process sort
  r           reset statistics     e   export report to a file
  c           copy report          i   refresh system info
  n           toggle alerts        w   save settings
  ?           help                 q   quit

Examples:
  sysmon monitor
  sysmon monitor --interval 2s --count 20
  sysmon > report.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context(), monitorFlags, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	AddCommonFlags(monitorCmd, &monitorFlags)
}

// Swapped out in tests.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// monitorCommand starts the TUI dashboard, or writes a text report to out
// when stdout is not a terminal.
func monitorCommand(ctx context.Context, flags CommonFlags, out io.Writer) error {
	if !stdoutIsTerminal() {
		return snapshotCommand(ctx, SnapshotOptions{Format: "text", Flags: flags}, out)
	}

	log := logger.NewEnvLogger("[monitor]")
	p, err := newPipeline(ctx, flags, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p.start(ctx)

	model := monitor.NewModel(p.store, p.sampler, p.holder, monitor.WithLogger(log))
	return monitor.Run(ctx, model)
}
