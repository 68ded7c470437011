package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/rileyhilliard/sysmon/internal/metrics"
)

// Color palette using ANSI color codes for terminal compatibility.
// The console view maps directly onto these:
//   green  -> ANSI 2
//   yellow -> ANSI 3
//   red    -> ANSI 1
//   cyan   -> ANSI 6 (headers)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// LevelColor maps a metric level to its color.
func LevelColor(l metrics.Level) lipgloss.Color {
	switch l {
	case metrics.LevelCritical:
		return ColorError
	case metrics.LevelWarning:
		return ColorWarning
	default:
		return ColorSuccess
	}
}

// UsageColor colors a percentage: <50 green, <75 yellow, else red.
func UsageColor(percent float64) lipgloss.Color {
	return LevelColor(metrics.UsageLevel(percent))
}

// TemperatureColor colors a Celsius reading: <70 green, <85 yellow, else red.
func TemperatureColor(celsius float64) lipgloss.Color {
	return LevelColor(metrics.TemperatureLevel(celsius))
}

// Process memory color bands in megabytes.
const (
	ProcessMemoryWarningMB  = 200.0
	ProcessMemoryCriticalMB = 500.0
)

// ProcessMemoryColor colors a process's resident memory: >500 MB red,
// >200 MB yellow, otherwise the default text color.
func ProcessMemoryColor(bytes uint64) lipgloss.Color {
	mb := float64(bytes) / (1024 * 1024)
	switch {
	case mb > ProcessMemoryCriticalMB:
		return ColorError
	case mb > ProcessMemoryWarningMB:
		return ColorWarning
	default:
		return ColorPrimary
	}
}

// Colored renders s in the given foreground color.
func Colored(s string, color lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(color).Render(s)
}

// DisableColors switches all lipgloss output to monochrome. Used when output
// is not a terminal or NO_COLOR is set.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
