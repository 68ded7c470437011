package cli

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/spf13/cobra"
)

// CommonFlags holds the flags shared by the live views (monitor, console, serve).
type CommonFlags struct {
	Interval string
	Count    int
}

// AddCommonFlags registers --interval and --count on a command.
func AddCommonFlags(cmd *cobra.Command, flags *CommonFlags) {
	cmd.Flags().StringVar(&flags.Interval, "interval", "", "refresh interval for this run (e.g., 2s, 1m)")
	cmd.Flags().IntVar(&flags.Count, "count", 0, "number of processes to show for this run")
}

// ParseInterval parses an interval flag into whole seconds. Returns 0 if the
// flag is empty.
func ParseInterval(flag string) (int, error) {
	if flag == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 1s, 5s, or 1m.")
	}
	if d < time.Second || d%time.Second != 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval %s is not a whole number of seconds", d),
			"The sampler ticks in whole seconds; use 1s or more.")
	}
	return int(d / time.Second), nil
}

// Apply overrides the loaded settings for this run only. Nothing is saved.
func (f CommonFlags) Apply(s *config.Settings) error {
	seconds, err := ParseInterval(f.Interval)
	if err != nil {
		return err
	}
	if seconds > 0 {
		s.RefreshIntervalSeconds = seconds
	}
	if f.Count != 0 {
		s.ProcessCount = f.Count
	}
	return config.Validate(*s)
}
