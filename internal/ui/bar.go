package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Progress bar block characters.
const (
	BarFilled = '█'
	BarEmpty  = '░'
)

// BarColorFunc returns a color based on percentage.
type BarColorFunc func(percent float64) lipgloss.Color

// BarConfig configures progress bar rendering.
type BarConfig struct {
	Width       int          // Width of the bar in characters
	Brackets    bool         // Whether to wrap bar in [ ]
	ColorFunc   BarColorFunc // Function to determine bar color
	ShowPercent bool         // Whether to append percentage
}

// DefaultBarConfig returns a config for resource monitoring bars.
func DefaultBarConfig(width int) BarConfig {
	return BarConfig{
		Width:       width,
		Brackets:    true,
		ColorFunc:   UsageColor,
		ShowPercent: true,
	}
}

// ClampPercent clamps a percentage to the 0-100 range.
func ClampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// BuildBarString builds the raw bar string (without styling) from filled/empty counts.
// If brackets is true, wraps in [ ].
func BuildBarString(filledCount, emptyCount int, brackets bool) string {
	var sb strings.Builder
	capacity := filledCount + emptyCount
	if brackets {
		capacity += 2
	}
	sb.Grow(capacity)

	if brackets {
		sb.WriteRune('[')
	}
	for i := 0; i < filledCount; i++ {
		sb.WriteRune(BarFilled)
	}
	for i := 0; i < emptyCount; i++ {
		sb.WriteRune(BarEmpty)
	}
	if brackets {
		sb.WriteRune(']')
	}

	return sb.String()
}

// CalculateBarCounts returns the number of filled and empty characters for a bar.
// Percent should be 0-100, width is the total bar width.
func CalculateBarCounts(percent float64, width int) (filled, empty int) {
	filled = int((percent / 100.0) * float64(width))
	if filled > width {
		filled = width
	}
	empty = width - filled
	return
}

// RenderBar renders a progress bar with the given configuration.
// Percent should be 0-100.
func RenderBar(percent float64, config BarConfig) string {
	if config.Width <= 0 {
		return ""
	}

	percent = ClampPercent(percent)
	filled, empty := CalculateBarCounts(percent, config.Width)
	bar := BuildBarString(filled, empty, config.Brackets)

	if config.ColorFunc != nil {
		bar = Colored(bar, config.ColorFunc(percent))
	}
	if config.ShowPercent {
		bar += fmt.Sprintf(" %5.1f%%", percent)
	}

	return bar
}

// GradientBar renders a bar whose filled cells take the usage band of their
// own position, so a full bar runs green through yellow to red.
func GradientBar(width int, percent float64, style ChartStyle) string {
	if width < 1 {
		width = 1
	}
	filled, empty := CalculateBarCounts(ClampPercent(percent), width)

	var sb strings.Builder
	for i := 0; i < filled; i++ {
		at := float64(i+1) / float64(width) * 100
		sb.WriteString(style.paint(style.colorFor(PercentSeries, at), string(BarFilled)))
	}
	if empty > 0 {
		sb.WriteString(style.paint(style.emptyColor(), strings.Repeat(string(BarEmpty), empty)))
	}
	return sb.String()
}
