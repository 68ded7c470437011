package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sysmon/internal/history"
	"github.com/rileyhilliard/sysmon/internal/metrics"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

// Card layout constants
const (
	cardGraphHeight   = 2
	cardMinWidth      = 30
	cardTopProcesses  = 5
	cardProcNameWidth = 20
)

// renderOverview lays the enabled cards out in a grid.
func (m Model) renderOverview() string {
	settings := m.settings.Settings()
	width := m.cardWidth()
	s := m.snap.Sample

	var cards []string
	if settings.ShowCPU {
		cards = append(cards, m.renderCPUCard(width))
	}
	if settings.ShowMemory {
		cards = append(cards, m.renderMemoryCard(width))
	}
	if settings.ShowGPU && s.GPU != nil {
		cards = append(cards, m.renderGPUCard(width))
	}
	if settings.ShowNetwork {
		cards = append(cards, m.renderNetworkCard(width))
	}
	if settings.ShowDisks && len(s.Disks) > 0 {
		cards = append(cards, m.renderDisksCard(width))
	}
	if settings.ShowProcesses && len(s.Processes) > 0 {
		cards = append(cards, m.renderProcessesCard(width))
	}

	if len(cards) == 0 {
		return LabelStyle.Render("  Every panel is hidden. Enable one with 'sysmon config set show_cpu true'.")
	}
	return m.layoutCards(cards)
}

// cardsPerRow returns how many cards fit side by side.
func (m Model) cardsPerRow() int {
	switch m.LayoutMode() {
	case LayoutWide:
		return 3
	case LayoutStandard:
		return 2
	default:
		return 1
	}
}

// cardWidth is the outer width of one card.
func (m Model) cardWidth() int {
	total := m.contentWidth()
	w := total/m.cardsPerRow() - 1
	if w < cardMinWidth {
		return cardMinWidth
	}
	return w
}

// layoutCards arranges cards in rows based on terminal width.
func (m Model) layoutCards(cards []string) string {
	perRow := m.cardsPerRow()

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := i + perRow
		if end > len(cards) {
			end = len(cards)
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(cards[i:end])...)
		rows = append(rows, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func joinWithGap(cards []string) []string {
	out := make([]string, 0, len(cards)*2)
	for i, c := range cards {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, c)
	}
	return out
}

// renderGraph draws a history at the size the layout allows.
func (m Model) renderGraph(points []history.Point, width int, kind ui.SeriesKind, line lipgloss.Color) []string {
	if len(points) == 0 {
		return nil
	}

	switch m.LayoutMode() {
	case LayoutMinimal:
		return nil
	case LayoutCompact:
		return []string{ui.Sparkline(points, width, kind, chartStyle(line))}
	default:
		return ui.BrailleChart(points, width, cardGraphHeight, kind, chartStyle(line))
	}
}

// labelValue right-aligns value after label within width.
func labelValue(label, value string, width int) string {
	l := LabelStyle.Render(label)
	gap := width - lipgloss.Width(l) - lipgloss.Width(value)
	if gap < 1 {
		gap = 1
	}
	return l + strings.Repeat(" ", gap) + value
}

func (m Model) renderCPUCard(width int) string {
	s := m.snap.Sample
	inner := width - 4
	pct := MetricStyle(s.CPUUsagePercent).Render(fmt.Sprintf("%5.1f%%", s.CPUUsagePercent))

	lines := []string{ProgressBar(inner, s.CPUUsagePercent)}
	lines = append(lines, m.renderGraph(m.snap.History.CPU, inner, ui.PercentSeries, ColorGraph)...)

	// Per-core bars, two per line when there is room.
	coreBar := inner/2 - 10
	for i := 0; i < len(s.CPUCores); i += 2 {
		line := coreLine(s.CPUCores[i], coreBar)
		if i+1 < len(s.CPUCores) {
			line += "  " + coreLine(s.CPUCores[i+1], coreBar)
		}
		lines = append(lines, line)
	}

	return Section("CPU", pct, lines, width)
}

func coreLine(c metrics.CoreUsage, barWidth int) string {
	if barWidth < 4 {
		barWidth = 4
	}
	return LabelStyle.Render(fmt.Sprintf("%2d ", c.CoreID)) +
		ui.GradientBar(barWidth, c.UsagePercent, chartStyle(ColorGraph)) +
		MetricStyle(c.UsagePercent).Render(fmt.Sprintf(" %3.0f%%", c.UsagePercent))
}

func (m Model) renderMemoryCard(width int) string {
	mem := m.snap.Sample.Memory
	inner := width - 4
	pct := MetricStyle(mem.Percentage).Render(fmt.Sprintf("%5.1f%%", mem.Percentage))

	lines := []string{
		ProgressBar(inner, mem.Percentage),
		labelValue("Used", ValueStyle.Render(ui.FormatBytes(mem.UsedBytes)), inner),
		labelValue("Free", ValueStyle.Render(ui.FormatBytes(mem.FreeBytes())), inner),
		labelValue("Total", ValueStyle.Render(ui.FormatBytes(mem.TotalBytes)), inner),
	}
	lines = append(lines, m.renderGraph(m.snap.History.Memory, inner, ui.PercentSeries, ColorGraph)...)

	return Section("Memory", pct, lines, width)
}

func (m Model) renderGPUCard(width int) string {
	gpu := m.snap.Sample.GPU
	inner := width - 4
	pct := MetricStyle(gpu.UtilizationPercent).Render(fmt.Sprintf("%5.1f%%", gpu.UtilizationPercent))

	lines := []string{
		ValueStyle.Render(ui.Truncate(gpu.Name, inner)),
		ProgressBar(inner, gpu.UtilizationPercent),
	}
	if gpu.HasMemory() {
		vram := fmt.Sprintf("%s / %s (%.1f%%)",
			ui.FormatMB(*gpu.MemoryUsedBytes), ui.FormatMB(*gpu.MemoryTotalBytes), gpu.MemoryPercent())
		lines = append(lines, labelValue("VRAM", MetricStyle(gpu.MemoryPercent()).Render(vram), inner))
	}
	if gpu.TemperatureCelsius != nil {
		temp := *gpu.TemperatureCelsius
		styled := lipgloss.NewStyle().Foreground(TemperatureColor(temp)).Render(fmt.Sprintf("%.0f°C", temp))
		lines = append(lines, labelValue("Temp", styled, inner))
	}
	lines = append(lines, m.renderGraph(m.snap.History.GPU, inner, ui.PercentSeries, ColorGraph)...)

	return Section("GPU", pct, lines, width)
}

func (m Model) renderNetworkCard(width int) string {
	inner := width - 4
	down, up := m.snap.Sample.NetworkTotals()
	value := ui.SymbolDown + ui.FormatRate(down) + " " + ui.SymbolUp + ui.FormatRate(up)

	lines := []string{labelValue("Download", ValueStyle.Render(ui.FormatRate(down)), inner)}
	lines = append(lines, m.renderGraph(m.snap.History.NetDown, inner, ui.RateSeries, ColorGraph)...)
	lines = append(lines, labelValue("Upload", ValueStyle.Render(ui.FormatRate(up)), inner))
	lines = append(lines, m.renderGraph(m.snap.History.NetUp, inner, ui.RateSeries, ColorGraphUp)...)

	return Section("Network", value, lines, width)
}

func (m Model) renderDisksCard(width int) string {
	inner := width - 4
	disks := m.snap.Sample.Disks

	var lines []string
	for _, d := range disks {
		label := ui.Truncate(d.MountPoint, 12)
		pct := MetricStyle(d.UsagePercent).Render(fmt.Sprintf("%5.1f%%", d.UsagePercent))
		barWidth := inner - 14 - 7
		if barWidth < 4 {
			barWidth = 4
		}
		lines = append(lines, LabelStyle.Render(fmt.Sprintf("%-13s ", label))+ProgressBar(barWidth, d.UsagePercent)+" "+pct)
	}

	return Section("Disks", fmt.Sprintf("%d", len(disks)), lines, width)
}

func (m Model) renderProcessesCard(width int) string {
	inner := width - 4
	procs := m.snap.Sample.Processes
	if len(procs) > cardTopProcesses {
		procs = procs[:cardTopProcesses]
	}

	var lines []string
	for _, p := range procs {
		name := fmt.Sprintf("%-*s", cardProcNameWidth, ui.Truncate(p.Name, cardProcNameWidth))
		mem := lipgloss.NewStyle().Foreground(processMemoryColor(p.MemoryBytes)).Render(ui.FormatMB(p.MemoryBytes))
		lines = append(lines, labelValue(name, mem, inner))
	}

	return Section("Top Memory", fmt.Sprintf("%d", len(m.snap.Sample.Processes)), lines, width)
}

// processMemoryColor mirrors ui.ProcessMemoryColor in the dashboard palette.
func processMemoryColor(bytes uint64) lipgloss.Color {
	mb := float64(bytes) / (1024 * 1024)
	switch {
	case mb > ui.ProcessMemoryCriticalMB:
		return ColorCritical
	case mb > ui.ProcessMemoryWarningMB:
		return ColorWarning
	default:
		return ColorTextPrimary
	}
}
