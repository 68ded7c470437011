package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/sysmon/internal/metrics"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

// processNameWidth matches the console view's NAME column.
const processNameWidth = 28

// RenderText lays a snapshot out as sections and tables.
func RenderText(snap snapshot.Snapshot) string {
	if !snap.Ready() {
		return "No samples collected yet\n"
	}
	s := snap.Sample

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("System Report - %s\n\n", s.Timestamp.WallClock))

	info := s.SystemInfo
	sb.WriteString(ui.RenderSection("System", []ui.KeyValue{
		{Key: "Host", Value: info.Hostname},
		{Key: "OS", Value: strings.TrimSpace(info.OSName + " " + info.OSVersion)},
		{Key: "Kernel", Value: info.KernelVersion},
		{Key: "CPU", Value: fmt.Sprintf("%s (%d logical)", info.CPUBrand, info.CPUCount)},
		{Key: "Uptime", Value: ui.FormatUptime(info.UptimeSeconds)},
	}))
	sb.WriteString("\n")

	sb.WriteString(ui.RenderSection("Memory", []ui.KeyValue{
		{Key: "Total", Value: ui.FormatBytes(s.Memory.TotalBytes)},
		{Key: "Used", Value: ui.FormatBytes(s.Memory.UsedBytes)},
		{Key: "Free", Value: ui.FormatBytes(s.Memory.FreeBytes())},
		{Key: "Usage", Value: fmt.Sprintf("%.1f%%", s.Memory.Percentage)},
	}))
	sb.WriteString("\n")

	cpu := []ui.KeyValue{{Key: "Usage", Value: fmt.Sprintf("%.1f%%", s.CPUUsagePercent)}}
	for _, core := range s.CPUCores {
		cpu = append(cpu, ui.KeyValue{
			Key:   fmt.Sprintf("Core %d", core.CoreID),
			Value: fmt.Sprintf("%.1f%%", core.UsagePercent),
		})
	}
	sb.WriteString(ui.RenderSection("CPU", cpu))
	sb.WriteString("\n")

	if gpu := s.GPU; gpu != nil {
		rows := []ui.KeyValue{
			{Key: "Name", Value: gpu.Name},
			{Key: "Utilization", Value: fmt.Sprintf("%.1f%%", gpu.UtilizationPercent)},
		}
		if gpu.HasMemory() {
			rows = append(rows, ui.KeyValue{
				Key: "Memory",
				Value: fmt.Sprintf("%s / %s (%.1f%%)",
					ui.FormatMB(*gpu.MemoryUsedBytes), ui.FormatMB(*gpu.MemoryTotalBytes), gpu.MemoryPercent()),
			})
		}
		if gpu.TemperatureCelsius != nil {
			rows = append(rows, ui.KeyValue{Key: "Temperature", Value: fmt.Sprintf("%.0f°C", *gpu.TemperatureCelsius)})
		}
		sb.WriteString(ui.RenderSection("GPU", rows))
		sb.WriteString("\n")
	}

	if len(snap.Alerts) > 0 {
		rows := make([]ui.KeyValue, 0, len(snap.Alerts))
		for _, a := range snap.Alerts {
			rows = append(rows, ui.KeyValue{Key: a.Kind.String(), Value: a.Message})
		}
		sb.WriteString(ui.RenderSection("Alerts", rows))
		sb.WriteString("\n")
	}

	if table := processTable(s.Processes); table != "" {
		sb.WriteString(table + "\n\n")
	}
	if table := diskTable(s.Disks); table != "" {
		sb.WriteString(table + "\n\n")
	}
	if table := networkTable(s.Network); table != "" {
		sb.WriteString(table + "\n")
	}

	return sb.String()
}

func processTable(procs []metrics.Process) string {
	rows := make([][]string, 0, len(procs))
	for _, p := range procs {
		rows = append(rows, []string{
			strconv.Itoa(int(p.PID)),
			ui.Truncate(p.Name, processNameWidth),
			ui.FormatMB(p.MemoryBytes),
			fmt.Sprintf("%.1f", p.CPUPercent),
		})
	}
	return ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "PID", Width: 8},
		{Title: "NAME", Width: processNameWidth + 2},
		{Title: "MEMORY", Width: 12},
		{Title: "CPU%", Width: 8},
	}, rows)
}

func diskTable(disks []metrics.Disk) string {
	rows := make([][]string, 0, len(disks))
	for _, d := range disks {
		rows = append(rows, []string{
			d.MountPoint,
			d.Filesystem,
			ui.FormatBytes(d.UsedBytes()),
			ui.FormatBytes(d.TotalBytes),
			fmt.Sprintf("%.1f%%", d.UsagePercent),
		})
	}
	return ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "MOUNT", Width: 20},
		{Title: "FS", Width: 8},
		{Title: "USED", Width: 10},
		{Title: "TOTAL", Width: 10},
		{Title: "USE%", Width: 7},
	}, rows)
}

func networkTable(ifaces []metrics.NetworkInterface) string {
	rows := make([][]string, 0, len(ifaces))
	for _, n := range ifaces {
		rows = append(rows, []string{
			n.Interface,
			ui.FormatRate(n.ReceivedRate),
			ui.FormatRate(n.TransmittedRate),
			ui.FormatBytes(n.ReceivedBytes),
			ui.FormatBytes(n.TransmittedBytes),
		})
	}
	return ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "INTERFACE", Width: 12},
		{Title: "DOWN", Width: 12},
		{Title: "UP", Width: 12},
		{Title: "RECEIVED", Width: 10},
		{Title: "SENT", Width: 10},
	}, rows)
}
