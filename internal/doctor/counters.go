package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/rileyhilliard/sysmon/internal/counters"
	"github.com/rileyhilliard/sysmon/internal/metrics"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

// OpenFunc opens the counter reader under test.
type OpenFunc func(ctx context.Context) (counters.Reader, error)

// CounterOpenCheck reports whether the counter subsystem initializes at all.
// Nothing else works without it.
type CounterOpenCheck struct {
	Err error
}

func (c *CounterOpenCheck) Name() string     { return "counters_open" }
func (c *CounterOpenCheck) Category() string { return CategoryCounters }

func (c *CounterOpenCheck) Run(ctx context.Context) CheckResult {
	if c.Err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot read system counters: %s", firstLine(c.Err)),
			Suggestion: "sysmon cannot start on this machine until this is fixed",
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: "System counters readable"}
}

func (c *CounterOpenCheck) Fix() error { return nil }

// SubsystemCheck reads one subsystem from an already refreshed reader. A
// failing subsystem only empties its panel, so it is a warning.
type SubsystemCheck struct {
	Subsystem string
	Read      func() (string, error)
}

func (c *SubsystemCheck) Name() string     { return "counters_" + strings.ToLower(c.Subsystem) }
func (c *SubsystemCheck) Category() string { return CategoryCounters }

func (c *SubsystemCheck) Run(ctx context.Context) CheckResult {
	detail, err := c.Read()
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s unavailable: %v", c.Subsystem, err),
			Suggestion: fmt.Sprintf("The %s panel stays empty; other panels still update", strings.ToLower(c.Subsystem)),
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: %s", c.Subsystem, detail),
	}
}

func (c *SubsystemCheck) Fix() error { return nil }

// NewCounterChecks opens a reader, refreshes it once, and returns a check per
// subsystem. When the reader cannot be opened the only check is the failure.
func NewCounterChecks(ctx context.Context, open OpenFunc) []Check {
	reader, err := open(ctx)
	if err != nil {
		return []Check{&CounterOpenCheck{Err: err}}
	}
	refreshErr := reader.Refresh(ctx)

	return []Check{
		&CounterOpenCheck{Err: refreshErr},
		&SubsystemCheck{Subsystem: "Memory", Read: func() (string, error) {
			m, err := reader.Memory()
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s total, %.1f%% used", ui.FormatBytes(m.Total), metrics.NewMemory(m.Total, m.Used).Percentage), nil
		}},
		&SubsystemCheck{Subsystem: "CPU", Read: func() (string, error) {
			u, err := reader.CPU()
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d logical core%s", len(u.PerCore), pluralize(len(u.PerCore))), nil
		}},
		&SubsystemCheck{Subsystem: "Processes", Read: func() (string, error) {
			procs, err := reader.Processes()
			if err != nil {
				return "", err
			}
			if len(procs) == 0 {
				return "", fmt.Errorf("no processes visible")
			}
			return fmt.Sprintf("%d visible", len(procs)), nil
		}},
		&SubsystemCheck{Subsystem: "Disks", Read: func() (string, error) {
			disks, err := reader.Disks()
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d mounted", len(disks)), nil
		}},
		&SubsystemCheck{Subsystem: "Network", Read: func() (string, error) {
			ifaces, err := reader.Network()
			if err != nil {
				return "", err
			}
			external := 0
			for _, iface := range ifaces {
				if !metrics.IsLoopback(iface.Name) {
					external++
				}
			}
			return fmt.Sprintf("%d interface%s besides loopback", external, pluralize(external)), nil
		}},
	}
}

// firstLine returns the headline of an error, without the failure symbol
// structured errors start with.
func firstLine(err error) string {
	msg := strings.TrimSpace(err.Error())
	msg = strings.TrimPrefix(msg, ui.SymbolFail+" ")
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
