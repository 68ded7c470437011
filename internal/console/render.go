package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/metrics"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

// Layout constants for the console view.
const (
	// RuleWidth is the width of the section rules when the terminal allows.
	RuleWidth = 71
	// BarWidth is the width of the usage bars when the terminal allows.
	BarWidth = 60
	// NameWidth is the longest process name shown before truncation.
	NameWidth = 28

	indent = "   "
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	startStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

// Render draws one frame of the console view. width is the terminal width;
// zero means unknown.
func Render(snap snapshot.Snapshot, settings config.Settings, width int) string {
	rule, bar := RuleWidth, BarWidth
	if width > 0 {
		rule = min(rule, width)
		bar = max(10, min(bar, width-len(indent)-1))
	}

	var b strings.Builder
	s := snap.Sample

	heavy := titleStyle.Render(strings.Repeat("═", rule))
	b.WriteString(heavy + "\n")
	b.WriteString(titleStyle.Render("🖥️  SYSTEM MONITOR") + " " + dimStyle.Render("["+s.Timestamp.WallClock+"]") + "\n")
	b.WriteString(heavy + "\n\n")

	if settings.ShowMemory {
		mem := s.Memory
		b.WriteString(sectionStyle.Render("💾 MEMORY USAGE") + "\n")
		fmt.Fprintf(&b, "%sTotal: %.2f GB\n", indent, gigabytes(mem.TotalBytes))
		fmt.Fprintf(&b, "%sUsed:  %.2f GB (%.1f%%)\n", indent, gigabytes(mem.UsedBytes), mem.Percentage)
		fmt.Fprintf(&b, "%sFree:  %.2f GB\n", indent, gigabytes(mem.FreeBytes()))
		b.WriteString(indent + usageBar(mem.Percentage, bar) + "\n\n")
	}

	if settings.ShowCPU {
		b.WriteString(sectionStyle.Render("⚡ CPU USAGE") + "\n")
		fmt.Fprintf(&b, "%sUsage: %.1f%%\n", indent, s.CPUUsagePercent)
		b.WriteString(indent + usageBar(s.CPUUsagePercent, bar) + "\n\n")
	}

	if gpu := s.GPU; settings.ShowGPU && gpu != nil {
		b.WriteString(sectionStyle.Render("🎮 GPU USAGE") + "\n")
		fmt.Fprintf(&b, "%sName: %s\n", indent, gpu.Name)
		fmt.Fprintf(&b, "%sUtilization: %.1f%%\n", indent, gpu.UtilizationPercent)
		b.WriteString(indent + usageBar(gpu.UtilizationPercent, bar) + "\n")
		if gpu.HasMemory() {
			fmt.Fprintf(&b, "%sMemory: %.0f MB / %.0f MB (%.1f%%)\n", indent,
				megabytes(*gpu.MemoryUsedBytes), megabytes(*gpu.MemoryTotalBytes), gpu.MemoryPercent())
		}
		if gpu.TemperatureCelsius != nil {
			temp := *gpu.TemperatureCelsius
			styled := boldStyle.Foreground(ui.TemperatureColor(temp)).Render(fmt.Sprintf("%.0f", temp))
			fmt.Fprintf(&b, "%sTemperature: %s°C\n", indent, styled)
		}
		b.WriteString("\n")
	}

	if len(snap.Alerts) > 0 {
		b.WriteString(sectionStyle.Render(ui.SymbolAlert+" ALERTS") + "\n")
		for _, a := range snap.Alerts {
			b.WriteString(indent + ui.Colored(a.Message, ui.ColorError) + "\n")
		}
		b.WriteString("\n")
	}

	if settings.ShowProcesses {
		writeProcesses(&b, s.Processes, rule)
		b.WriteString("\n")
	}

	b.WriteString(heavy + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Press Ctrl+C to exit | Refreshing every %d seconds...", settings.RefreshIntervalSeconds)) + "\n")

	return b.String()
}

func writeProcesses(b *strings.Builder, procs []metrics.Process, rule int) {
	light := dimStyle.Render(strings.Repeat("─", rule))

	b.WriteString(sectionStyle.Render(fmt.Sprintf("📊 TOP %d PROCESSES BY MEMORY", len(procs))) + "\n")
	b.WriteString(light + "\n")
	b.WriteString(boldStyle.Render(fmt.Sprintf("%-8s %-30s %-12s %-12s", "PID", "NAME", "MEMORY", "CPU %")) + "\n")
	b.WriteString(light + "\n")

	for _, p := range procs {
		// Pad before styling so escape codes do not eat column width.
		pid := dimStyle.Render(fmt.Sprintf("%-8d", p.PID))
		name := fmt.Sprintf("%-30s", TruncateName(p.Name))
		mem := ui.Colored(fmt.Sprintf("%-12s", fmt.Sprintf("%.2f MB", megabytes(p.MemoryBytes))), ui.ProcessMemoryColor(p.MemoryBytes))
		cpu := dimStyle.Render(fmt.Sprintf("%.1f%%", p.CPUPercent))
		b.WriteString(pid + " " + name + " " + mem + " " + cpu + "\n")
	}
}

// TruncateName shortens names longer than NameWidth to their first
// NameWidth-1 runes followed by "...".
func TruncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= NameWidth {
		return name
	}
	return string(runes[:NameWidth-1]) + "..."
}

// usageBar draws a block bar colored by usage band with a dimmed remainder.
func usageBar(percent float64, width int) string {
	filled, empty := ui.CalculateBarCounts(ui.ClampPercent(percent), width)
	return ui.Colored(strings.Repeat(string(ui.BarFilled), filled), ui.UsageColor(percent)) +
		dimStyle.Render(strings.Repeat(string(ui.BarEmpty), empty))
}

// StartupMessage is printed once before the first sample is available.
func StartupMessage() string {
	return startStyle.Render("Initializing System Monitor...") + "\n" +
		dimStyle.Render("Loading system information...") + "\n"
}

func gigabytes(b uint64) float64 {
	return float64(b) / (1024 * 1024 * 1024)
}

func megabytes(b uint64) float64 {
	return float64(b) / (1024 * 1024)
}
