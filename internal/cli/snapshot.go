package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/export"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/ui"
	"github.com/spf13/cobra"
)

// SnapshotOptions holds options for the snapshot command.
type SnapshotOptions struct {
	Format      string // json, yaml, or text
	Output      string // File or directory to write; empty prints to stdout
	Copy        bool   // Put the report on the clipboard instead of stdout
	FailOnAlert bool   // Exit 2 when any alert is active
	Flags       CommonFlags
}

// AlertExitCode is the status for `snapshot --fail-on-alert` with active alerts.
const AlertExitCode = 2

var snapshotOpts SnapshotOptions

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Take one sample and print a report",
	Long: `Sample the machine once, after a short warm-up so CPU and network rates
have a baseline, and print a report.

Examples:
  sysmon snapshot
  sysmon snapshot --format json
  sysmon snapshot --format yaml --output reports/
  sysmon snapshot --copy
  sysmon snapshot --fail-on-alert || echo "something is running hot"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotCommand(cmd.Context(), snapshotOpts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOpts.Format, "format", "f", "text", "report format: text, json, or yaml")
	snapshotCmd.Flags().StringVarP(&snapshotOpts.Output, "output", "o", "", "write the report to this file or directory")
	snapshotCmd.Flags().BoolVar(&snapshotOpts.Copy, "copy", false, "copy the report to the clipboard")
	snapshotCmd.Flags().BoolVar(&snapshotOpts.FailOnAlert, "fail-on-alert", false,
		fmt.Sprintf("exit %d when any alert is active", AlertExitCode))
	snapshotCmd.Flags().IntVar(&snapshotOpts.Flags.Count, "count", 0, "number of processes in the report")
}

// snapshotCommand collects one snapshot and writes it where opts says.
func snapshotCommand(ctx context.Context, opts SnapshotOptions, out io.Writer) error {
	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	p, err := newPipeline(ctx, opts.Flags, logger.NewEnvLogger("[snapshot]"))
	if err != nil {
		return err
	}

	snap, err := p.sampler.Collect(ctx)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrSensor,
			"Could not take a sample",
			"Run again; set SYSMON_DEBUG=1 to see what failed")
	}

	switch {
	case opts.Copy:
		if err := export.CopyToClipboard(snap, format); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s Report copied to clipboard\n", ui.SymbolSuccess)
	case opts.Output != "":
		path, err := export.WriteFile(opts.Output, snap, format, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s Report written to %s\n", ui.SymbolSuccess, path)
	default:
		if err := export.Encode(out, snap, format); err != nil {
			return err
		}
	}

	if opts.FailOnAlert && len(snap.Alerts) > 0 {
		return errors.NewExitError(AlertExitCode)
	}
	return nil
}
