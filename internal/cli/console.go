package cli

import (
	"context"
	"io"
	"os"

	"github.com/rileyhilliard/sysmon/internal/console"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/spf13/cobra"
)

var consoleFlags CommonFlags

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Clear-and-redraw console view",
	Long: `Print memory, CPU, GPU, and the top processes, clearing the screen and
redrawing after every sample. Works in terminals without alt-screen support.

Examples:
  sysmon console
  sysmon console --interval 5s --count 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return consoleCommand(cmd.Context(), consoleFlags, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	AddCommonFlags(consoleCmd, &consoleFlags)
}

// consoleCommand redraws the console view on out until ctx is cancelled.
func consoleCommand(ctx context.Context, flags CommonFlags, out io.Writer) error {
	log := logger.NewEnvLogger("[console]")
	p, err := newPipeline(ctx, flags, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p.start(ctx)

	if out == nil {
		out = os.Stdout
	}
	return console.New(p.store, p.holder, out, console.WithLogger(log)).Run(ctx)
}
