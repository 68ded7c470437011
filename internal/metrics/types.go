// Package metrics defines the sample data model produced by the sampler and
// the arithmetic used to derive percentages and rates from raw counters.
package metrics

import (
	"slices"
	"time"
)

// WallClockLayout is the display format for Timestamp.WallClock.
const WallClockLayout = "2006-01-02 15:04:05"

// DefaultProcessCount is the top-N size used when settings do not override it.
const DefaultProcessCount = 15

// Timestamp pairs a monotonic offset with a human-readable wall time.
type Timestamp struct {
	// ElapsedSeconds counts from sampler start and never goes backwards.
	ElapsedSeconds float64   `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	WallClock      string    `json:"wall_clock" yaml:"wall_clock"`
	CollectedAt    time.Time `json:"collected_at" yaml:"collected_at"`
}

// NewTimestamp builds a Timestamp from the sampler start time and now.
func NewTimestamp(start, now time.Time) Timestamp {
	elapsed := now.Sub(start).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	return Timestamp{
		ElapsedSeconds: elapsed,
		WallClock:      now.Format(WallClockLayout),
		CollectedAt:    now,
	}
}

// Memory holds RAM usage.
type Memory struct {
	TotalBytes uint64  `json:"total_bytes" yaml:"total_bytes"`
	UsedBytes  uint64  `json:"used_bytes" yaml:"used_bytes"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// NewMemory clamps used to total and derives the percentage.
func NewMemory(total, used uint64) Memory {
	if used > total {
		used = total
	}
	return Memory{
		TotalBytes: total,
		UsedBytes:  used,
		Percentage: Percent(float64(used), float64(total)),
	}
}

// FreeBytes returns total minus used, never underflowing.
func (m Memory) FreeBytes() uint64 {
	return SaturatingSub(m.TotalBytes, m.UsedBytes)
}

// CoreUsage is the utilization of one logical core.
type CoreUsage struct {
	CoreID       int     `json:"core_id" yaml:"core_id"`
	UsagePercent float64 `json:"usage_percent" yaml:"usage_percent"`
}

// GPU describes the primary graphics device. Optional readings are nil when
// the device or driver does not report them.
type GPU struct {
	Name               string   `json:"name" yaml:"name"`
	UtilizationPercent float64  `json:"utilization_percent" yaml:"utilization_percent"`
	MemoryUsedBytes    *uint64  `json:"memory_used_bytes,omitempty" yaml:"memory_used_bytes,omitempty"`
	MemoryTotalBytes   *uint64  `json:"memory_total_bytes,omitempty" yaml:"memory_total_bytes,omitempty"`
	TemperatureCelsius *float64 `json:"temperature_celsius,omitempty" yaml:"temperature_celsius,omitempty"`
}

// HasMemory reports whether both halves of the VRAM pair are present.
func (g *GPU) HasMemory() bool {
	return g != nil && g.MemoryUsedBytes != nil && g.MemoryTotalBytes != nil
}

// MemoryPercent returns VRAM usage, or 0 when the pair is missing.
func (g *GPU) MemoryPercent() float64 {
	if !g.HasMemory() {
		return 0
	}
	return Percent(float64(*g.MemoryUsedBytes), float64(*g.MemoryTotalBytes))
}

// Clone returns a deep copy.
func (g *GPU) Clone() *GPU {
	if g == nil {
		return nil
	}
	out := *g
	if g.MemoryUsedBytes != nil {
		v := *g.MemoryUsedBytes
		out.MemoryUsedBytes = &v
	}
	if g.MemoryTotalBytes != nil {
		v := *g.MemoryTotalBytes
		out.MemoryTotalBytes = &v
	}
	if g.TemperatureCelsius != nil {
		v := *g.TemperatureCelsius
		out.TemperatureCelsius = &v
	}
	return &out
}

// Process is one entry of the top-N list.
type Process struct {
	PID         int32   `json:"pid" yaml:"pid"`
	Name        string  `json:"name" yaml:"name"`
	CPUPercent  float64 `json:"cpu_percent" yaml:"cpu_percent"`
	MemoryBytes uint64  `json:"memory_bytes" yaml:"memory_bytes"`
	Status      string  `json:"status" yaml:"status"`
}

// Disk is one mounted filesystem.
type Disk struct {
	Name           string  `json:"name" yaml:"name"`
	MountPoint     string  `json:"mount_point" yaml:"mount_point"`
	Filesystem     string  `json:"filesystem" yaml:"filesystem"`
	TotalBytes     uint64  `json:"total_bytes" yaml:"total_bytes"`
	AvailableBytes uint64  `json:"available_bytes" yaml:"available_bytes"`
	UsagePercent   float64 `json:"usage_percent" yaml:"usage_percent"`
}

// NewDisk derives the usage percentage from total and available bytes.
func NewDisk(name, mount, fs string, total, available uint64) Disk {
	return Disk{
		Name:           name,
		MountPoint:     mount,
		Filesystem:     fs,
		TotalBytes:     total,
		AvailableBytes: available,
		UsagePercent:   Percent(float64(SaturatingSub(total, available)), float64(total)),
	}
}

// UsedBytes returns total minus available.
func (d Disk) UsedBytes() uint64 {
	return SaturatingSub(d.TotalBytes, d.AvailableBytes)
}

// NetworkInterface carries cumulative counters and per-second rates.
type NetworkInterface struct {
	Interface        string  `json:"interface" yaml:"interface"`
	ReceivedBytes    uint64  `json:"received_bytes" yaml:"received_bytes"`
	TransmittedBytes uint64  `json:"transmitted_bytes" yaml:"transmitted_bytes"`
	ReceivedRate     float64 `json:"received_rate" yaml:"received_rate"`
	TransmittedRate  float64 `json:"transmitted_rate" yaml:"transmitted_rate"`
}

// SystemInfo is static host metadata captured at startup.
type SystemInfo struct {
	OSName        string `json:"os_name" yaml:"os_name"`
	OSVersion     string `json:"os_version" yaml:"os_version"`
	KernelVersion string `json:"kernel_version" yaml:"kernel_version"`
	Hostname      string `json:"hostname" yaml:"hostname"`
	CPUCount      int    `json:"cpu_count" yaml:"cpu_count"`
	CPUBrand      string `json:"cpu_brand" yaml:"cpu_brand"`
	UptimeSeconds uint64 `json:"uptime_seconds" yaml:"uptime_seconds"`
}

// Sample is everything collected in one tick. A Sample is never mutated
// after the sampler hands it to the store.
type Sample struct {
	Timestamp       Timestamp          `json:"timestamp" yaml:"timestamp"`
	Memory          Memory             `json:"memory" yaml:"memory"`
	CPUUsagePercent float64            `json:"cpu_usage_percent" yaml:"cpu_usage_percent"`
	CPUCores        []CoreUsage        `json:"cpu_cores" yaml:"cpu_cores"`
	GPU             *GPU               `json:"gpu,omitempty" yaml:"gpu,omitempty"`
	Processes       []Process          `json:"processes" yaml:"processes"`
	Disks           []Disk             `json:"disks" yaml:"disks"`
	Network         []NetworkInterface `json:"network" yaml:"network"`
	SystemInfo      SystemInfo         `json:"system_info" yaml:"system_info"`
}

// Clone returns a deep copy that shares no slices or pointers with s.
func (s Sample) Clone() Sample {
	out := s
	out.CPUCores = slices.Clone(s.CPUCores)
	out.Processes = slices.Clone(s.Processes)
	out.Disks = slices.Clone(s.Disks)
	out.Network = slices.Clone(s.Network)
	out.GPU = s.GPU.Clone()
	return out
}

// NetworkTotals sums rates over all interfaces except loopback.
func (s Sample) NetworkTotals() (down, up float64) {
	for _, iface := range s.Network {
		if IsLoopback(iface.Interface) {
			continue
		}
		down += iface.ReceivedRate
		up += iface.TransmittedRate
	}
	return down, up
}

// IsLoopback reports whether an interface name is a loopback device.
func IsLoopback(name string) bool {
	switch name {
	case "lo", "lo0", "Loopback Pseudo-Interface 1":
		return true
	}
	return false
}
