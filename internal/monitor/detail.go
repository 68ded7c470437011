package monitor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sysmon/internal/metrics"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

// processNameWidth matches the console view's NAME column.
const processNameWidth = 28

// sortProcesses returns a sorted copy of procs.
func sortProcesses(procs []metrics.Process, order SortOrder) []metrics.Process {
	out := make([]metrics.Process, len(procs))
	copy(out, procs)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch order {
		case SortByCPU:
			if a.CPUPercent != b.CPUPercent {
				return a.CPUPercent > b.CPUPercent
			}
		case SortByPID:
			return a.PID < b.PID
		case SortByName:
			if a.Name != b.Name {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		default:
			if a.MemoryBytes != b.MemoryBytes {
				return a.MemoryBytes > b.MemoryBytes
			}
		}
		return a.PID < b.PID
	})
	return out
}

// renderProcesses renders the full top-N table.
func (m Model) renderProcesses(width int) string {
	procs := sortProcesses(m.snap.Sample.Processes, m.sortOrder)
	inner := width - 4

	header := LabelStyle.Bold(true).Render(fmt.Sprintf("%-8s %-*s %12s %8s  %s", "PID", processNameWidth, "NAME", "MEMORY", "CPU%", "STATUS"))
	lines := []string{header}
	for _, p := range procs {
		mem := lipgloss.NewStyle().Foreground(processMemoryColor(p.MemoryBytes)).Render(fmt.Sprintf("%12s", ui.FormatMB(p.MemoryBytes)))
		lines = append(lines, fmt.Sprintf("%-8d %-*s %s %8.1f  %s",
			p.PID, processNameWidth, ui.Truncate(p.Name, processNameWidth), mem, p.CPUPercent, p.Status))
	}
	if len(procs) == 0 {
		lines = append(lines, LabelStyle.Render("No process data"))
	}

	value := fmt.Sprintf("top %d by memory, sorted by %s", len(procs), m.sortOrder)
	return Section("Processes", ui.Truncate(value, inner/2), lines, width)
}

// renderDisks renders one bar per mounted filesystem.
func (m Model) renderDisks(width int) string {
	disks := m.snap.Sample.Disks
	inner := width - 4

	var lines []string
	for _, d := range disks {
		pct := MetricStyle(d.UsagePercent).Render(fmt.Sprintf("%5.1f%%", d.UsagePercent))
		lines = append(lines, ValueStyle.Bold(true).Render(d.MountPoint)+LabelStyle.Render(fmt.Sprintf("  %s  %s", d.Name, d.Filesystem)))

		usage := fmt.Sprintf(" %s / %s ", ui.FormatBytes(d.UsedBytes()), ui.FormatBytes(d.TotalBytes))
		barWidth := inner - lipgloss.Width(usage) - 7
		if barWidth < 4 {
			barWidth = 4
		}
		lines = append(lines, ProgressBar(barWidth, d.UsagePercent)+LabelStyle.Render(usage)+pct, "")
	}
	if len(disks) == 0 {
		lines = append(lines, LabelStyle.Render("No disks reported"))
	}

	return Section("Disks", fmt.Sprintf("%d mounted", len(disks)), lines, width)
}

// renderNetwork renders per-interface rates and the total throughput history.
func (m Model) renderNetwork(width int) string {
	ifaces := m.snap.Sample.Network
	inner := width - 4

	header := LabelStyle.Bold(true).Render(fmt.Sprintf("%-16s %12s %12s %12s %12s", "INTERFACE", "DOWN", "UP", "RECEIVED", "SENT"))
	lines := []string{header}
	for _, n := range ifaces {
		name := ui.Truncate(n.Interface, 16)
		row := fmt.Sprintf("%-16s %12s %12s %12s %12s", name,
			ui.FormatRate(n.ReceivedRate), ui.FormatRate(n.TransmittedRate),
			ui.FormatBytes(n.ReceivedBytes), ui.FormatBytes(n.TransmittedBytes))
		if metrics.IsLoopback(n.Interface) {
			row = LabelStyle.Render(row)
		}
		lines = append(lines, row)
	}

	down, up := m.snap.Sample.NetworkTotals()
	lines = append(lines, "",
		labelValue(ui.SymbolDown+" Download", ValueStyle.Render(ui.FormatRate(down)), inner),
		ui.Sparkline(m.snap.History.NetDown, inner, ui.RateSeries, chartStyle(ColorGraph)),
		labelValue(ui.SymbolUp+" Upload", ValueStyle.Render(ui.FormatRate(up)), inner),
		ui.Sparkline(m.snap.History.NetUp, inner, ui.RateSeries, chartStyle(ColorGraphUp)),
	)

	return Section("Network", fmt.Sprintf("%d interfaces", len(ifaces)), lines, width)
}

// renderAlerts renders the alerts firing now and the recent alert log.
func (m Model) renderAlerts(width int) string {
	settings := m.settings.Settings()

	state := "on"
	if !settings.NotificationsEnabled {
		state = "off"
	}
	thresholds := fmt.Sprintf("Alerts %s | CPU > %.0f%% | Memory > %.0f%% | GPU > %.0f°C | Disk > 90%%",
		state, settings.CPUThreshold, settings.MemoryThreshold, settings.GPUTempThreshold)

	var b strings.Builder

	current := []string{LabelStyle.Render(thresholds), ""}
	if len(m.snap.Alerts) == 0 {
		current = append(current, lipgloss.NewStyle().Foreground(ColorHealthy).Render(ui.SymbolSuccess+" All clear"))
	}
	for _, a := range m.snap.Alerts {
		current = append(current, lipgloss.NewStyle().Foreground(ColorCritical).Render(ui.SymbolAlert+" "+a.Message))
	}
	b.WriteString(Section("Active", fmt.Sprintf("%d", len(m.snap.Alerts)), current, width))
	b.WriteString("\n")

	// Newest first.
	var logLines []string
	for i := len(m.snap.AlertLog) - 1; i >= 0; i-- {
		a := m.snap.AlertLog[i]
		logLines = append(logLines, LabelStyle.Render(a.Timestamp.Format(metrics.WallClockLayout))+"  "+a.Message)
	}
	if len(logLines) == 0 {
		logLines = append(logLines, LabelStyle.Render("No alerts since start or last reset"))
	}
	b.WriteString(Section("History", fmt.Sprintf("%d", len(m.snap.AlertLog)), logLines, width))

	return b.String()
}

// renderSystem renders host metadata and the active settings.
func (m Model) renderSystem(width int) string {
	info := m.snap.Sample.SystemInfo
	inner := width - 4
	settings := m.settings.Settings()

	row := func(label, value string) string {
		return labelValue(label, ValueStyle.Render(value), inner)
	}

	sys := []string{
		row("Hostname", info.Hostname),
		row("OS", strings.TrimSpace(info.OSName+" "+info.OSVersion)),
		row("Kernel", info.KernelVersion),
		row("CPU", info.CPUBrand),
		row("Logical CPUs", fmt.Sprintf("%d", info.CPUCount)),
		row("Uptime", ui.FormatUptime(info.UptimeSeconds)),
	}

	cfg := []string{
		row("Refresh", fmt.Sprintf("%ds", settings.RefreshIntervalSeconds)),
		row("Processes shown", fmt.Sprintf("%d", settings.ProcessCount)),
		row("History", fmt.Sprintf("%d samples", m.snap.History.Capacity)),
		row("Alert log", fmt.Sprintf("%d entries", settings.AlertLogSize)),
	}

	return Section("System", "i to refresh", sys, width) + "\n" + Section("Settings", "w to save", cfg, width)
}
