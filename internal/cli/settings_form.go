package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/sysmon/internal/config"
)

// Dashboard sections the form can show or hide.
const (
	panelCPU       = "cpu"
	panelMemory    = "memory"
	panelGPU       = "gpu"
	panelProcesses = "processes"
	panelDisks     = "disks"
	panelNetwork   = "network"
)

var panelNames = []string{panelCPU, panelMemory, panelGPU, panelProcesses, panelDisks, panelNetwork}

// settingsForm holds the form's field values as the user edits them.
type settingsForm struct {
	Interval      string
	ProcessCount  string
	CPUThreshold  string
	MemThreshold  string
	GPUThreshold  string
	Notifications bool
	DarkTheme     bool
	Panels        []string
}

func newSettingsForm(s config.Settings) *settingsForm {
	f := &settingsForm{
		Interval:      strconv.Itoa(s.RefreshIntervalSeconds),
		ProcessCount:  strconv.Itoa(s.ProcessCount),
		CPUThreshold:  formatFloat(s.CPUThreshold),
		MemThreshold:  formatFloat(s.MemoryThreshold),
		GPUThreshold:  formatFloat(s.GPUTempThreshold),
		Notifications: s.NotificationsEnabled,
		DarkTheme:     s.DarkTheme,
	}
	shown := map[string]bool{
		panelCPU:       s.ShowCPU,
		panelMemory:    s.ShowMemory,
		panelGPU:       s.ShowGPU,
		panelProcesses: s.ShowProcesses,
		panelDisks:     s.ShowDisks,
		panelNetwork:   s.ShowNetwork,
	}
	for _, name := range panelNames {
		if shown[name] {
			f.Panels = append(f.Panels, name)
		}
	}
	return f
}

// form builds the huh form bound to f's fields.
func (f *settingsForm) form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Refresh interval (seconds)").
				Value(&f.Interval).
				Validate(intBetween(config.MinRefreshIntervalSeconds, config.MaxRefreshIntervalSeconds)),
			huh.NewInput().
				Title("Processes to show").
				Value(&f.ProcessCount).
				Validate(intBetween(1, config.MaxProcessCount)),
			huh.NewMultiSelect[string]().
				Title("Panels").
				Options(huh.NewOptions(panelNames...)...).
				Value(&f.Panels),
			huh.NewConfirm().
				Title("Dark theme").
				Value(&f.DarkTheme),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Alerts").
				Description("Check thresholds on every sample").
				Value(&f.Notifications),
			huh.NewInput().
				Title("CPU alert threshold (%)").
				Value(&f.CPUThreshold).
				Validate(percent),
			huh.NewInput().
				Title("Memory alert threshold (%)").
				Value(&f.MemThreshold).
				Validate(percent),
			huh.NewInput().
				Title("GPU temperature alert threshold (°C)").
				Value(&f.GPUThreshold).
				Validate(floatBetween(0, config.MaxGPUTempThreshold)),
		),
	)
}

// apply copies the form values onto base and validates the result.
func (f *settingsForm) apply(base config.Settings) (config.Settings, error) {
	s := base

	ints := []struct {
		field string
		raw   string
		dst   *int
	}{
		{"refresh interval", f.Interval, &s.RefreshIntervalSeconds},
		{"process count", f.ProcessCount, &s.ProcessCount},
	}
	for _, v := range ints {
		n, err := strconv.Atoi(strings.TrimSpace(v.raw))
		if err != nil {
			return config.Settings{}, fmt.Errorf("%s: %q is not a whole number", v.field, v.raw)
		}
		*v.dst = n
	}

	floats := []struct {
		field string
		raw   string
		dst   *float64
	}{
		{"CPU threshold", f.CPUThreshold, &s.CPUThreshold},
		{"memory threshold", f.MemThreshold, &s.MemoryThreshold},
		{"GPU temperature threshold", f.GPUThreshold, &s.GPUTempThreshold},
	}
	for _, v := range floats {
		n, err := strconv.ParseFloat(strings.TrimSpace(v.raw), 64)
		if err != nil {
			return config.Settings{}, fmt.Errorf("%s: %q is not a number", v.field, v.raw)
		}
		*v.dst = n
	}

	s.NotificationsEnabled = f.Notifications
	s.DarkTheme = f.DarkTheme

	shown := make(map[string]bool, len(f.Panels))
	for _, name := range f.Panels {
		shown[name] = true
	}
	s.ShowCPU = shown[panelCPU]
	s.ShowMemory = shown[panelMemory]
	s.ShowGPU = shown[panelGPU]
	s.ShowProcesses = shown[panelProcesses]
	s.ShowDisks = shown[panelDisks]
	s.ShowNetwork = shown[panelNetwork]

	if err := config.Validate(s); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

func intBetween(lo, hi int) func(string) error {
	return func(raw string) error {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("enter a whole number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// floatBetween accepts numbers in (lo, hi].
func floatBetween(lo, hi float64) func(string) error {
	return func(raw string) error {
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("enter a number")
		}
		if n <= lo || n > hi {
			return fmt.Errorf("must be above %s and at most %s", formatFloat(lo), formatFloat(hi))
		}
		return nil
	}
}

var percent = floatBetween(0, 100)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
