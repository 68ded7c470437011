package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sysmon/internal/history"
	"github.com/rileyhilliard/sysmon/internal/metrics"
)

// SeriesKind selects how a history series is scaled and colored.
type SeriesKind int

const (
	// PercentSeries is drawn against a fixed 0-100 scale, each column colored
	// by its usage band.
	PercentSeries SeriesKind = iota
	// RateSeries (bytes per second) is drawn from zero up to the peak in the
	// visible window, in a single color.
	RateSeries
)

// ChartStyle colors a chart. The zero value uses the ANSI palette.
type ChartStyle struct {
	Line       lipgloss.Color                     // RateSeries color
	Level      func(metrics.Level) lipgloss.Color // PercentSeries band colors
	Empty      lipgloss.Color                     // unfilled cells
	Background lipgloss.Color
}

func (s ChartStyle) colorFor(kind SeriesKind, v float64) lipgloss.Color {
	if kind == RateSeries {
		if s.Line == "" {
			return ColorInfo
		}
		return s.Line
	}
	level := s.Level
	if level == nil {
		level = LevelColor
	}
	return level(metrics.UsageLevel(v))
}

func (s ChartStyle) emptyColor() lipgloss.Color {
	if s.Empty == "" {
		return ColorMuted
	}
	return s.Empty
}

func (s ChartStyle) paint(c lipgloss.Color, text string) string {
	st := lipgloss.NewStyle().Foreground(c)
	if s.Background != "" {
		st = st.Background(s.Background)
	}
	return st.Render(text)
}

// sparkBlocks are the eight block heights of a one-row sparkline.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws points as one row of block characters, width cells wide,
// newest on the right. Slots older than the first point are blank.
func Sparkline(points []history.Point, width int, kind SeriesKind, style ChartStyle) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	cols := fitColumns(points, width)
	ceiling := chartCeiling(kind, cols)

	var sb strings.Builder
	for _, v := range cols {
		if math.IsNaN(v) {
			sb.WriteString(style.paint(style.emptyColor(), " "))
			continue
		}
		idx := int(math.Round(fillFraction(v, ceiling) * float64(len(sparkBlocks)-1)))
		sb.WriteString(style.paint(style.colorFor(kind, v), string(sparkBlocks[idx])))
	}
	return sb.String()
}

// brailleBits is the dot bit for [row][col] inside one braille cell, rows
// top to bottom.
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBlank = '⠀'

// BrailleChart draws points as a height-row area chart. Each cell holds two
// samples side by side and four dot rows, so the chart resolves width*2
// samples and height*4 levels. Percent columns take the band color of the
// higher of their two samples.
func BrailleChart(points []history.Point, width, height int, kind SeriesKind, style ChartStyle) []string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return nil
	}

	cols := fitColumns(points, width*2)
	ceiling := chartCeiling(kind, cols)
	levels := height * 4

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = make([]rune, width)
		for c := range grid[r] {
			grid[r][c] = brailleBlank
		}
	}
	cellPeak := make([]float64, width)
	for c := range cellPeak {
		cellPeak[c] = math.NaN()
	}

	for i, v := range cols {
		if math.IsNaN(v) {
			continue
		}
		cell, side := i/2, i%2
		if math.IsNaN(cellPeak[cell]) || v > cellPeak[cell] {
			cellPeak[cell] = v
		}
		dots := int(math.Round(fillFraction(v, ceiling) * float64(levels)))
		for d := 0; d < dots; d++ {
			row := height - 1 - d/4
			grid[row][cell] |= brailleBits[3-d%4][side]
		}
	}

	lines := make([]string, height)
	for r, row := range grid {
		var sb strings.Builder
		for c, ch := range row {
			color := style.emptyColor()
			if !math.IsNaN(cellPeak[c]) {
				color = style.colorFor(kind, cellPeak[c])
			}
			sb.WriteString(style.paint(color, string(ch)))
		}
		lines[r] = sb.String()
	}
	return lines
}

// fitColumns maps points onto n slots, newest in the last slot. With more
// points than slots each slot keeps the peak of its bucket so spikes stay
// visible; with fewer, the leading slots are NaN.
func fitColumns(points []history.Point, n int) []float64 {
	out := make([]float64, n)
	if len(points) <= n {
		offset := n - len(points)
		for i := 0; i < offset; i++ {
			out[i] = math.NaN()
		}
		for i, p := range points {
			out[offset+i] = p.Value
		}
		return out
	}

	for i := 0; i < n; i++ {
		start := i * len(points) / n
		end := (i + 1) * len(points) / n
		peak := points[start].Value
		for _, p := range points[start+1 : end] {
			if p.Value > peak {
				peak = p.Value
			}
		}
		out[i] = peak
	}
	return out
}

// chartCeiling is the value drawn at full height.
func chartCeiling(kind SeriesKind, cols []float64) float64 {
	if kind == PercentSeries {
		return 100
	}
	peak := 0.0
	for _, v := range cols {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return 1
	}
	return peak
}

func fillFraction(v, ceiling float64) float64 {
	f := v / ceiling
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
