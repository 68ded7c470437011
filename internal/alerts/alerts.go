// Package alerts turns a sample into threshold alerts.
//
// Evaluate is pure: the same sample and thresholds always produce the same
// alerts, and nothing is remembered between ticks. Log is a separate, capped
// record of what Evaluate produced over time.
package alerts

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/sysmon/internal/metrics"
)

// DiskSpaceLowPercent is the fixed disk usage threshold. It is not configurable.
const DiskSpaceLowPercent = 90.0

// Kind identifies which threshold fired.
type Kind int

const (
	CPUHigh Kind = iota
	MemoryHigh
	GPUTempHigh
	DiskSpaceLow
)

var kindNames = map[Kind]string{
	CPUHigh:      "cpu_high",
	MemoryHigh:   "memory_high",
	GPUTempHigh:  "gpu_temp_high",
	DiskSpaceLow: "disk_space_low",
}

// String returns the snake_case name used in reports.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown alert kind %q", string(text))
}

// Thresholds configures Evaluate. Enabled gates every check, disk included.
type Thresholds struct {
	Enabled bool
	CPU     float64
	Memory  float64
	GPUTemp float64
}

// DefaultThresholds matches the stock settings.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Enabled: true,
		CPU:     90,
		Memory:  90,
		GPUTemp: 85,
	}
}

// Alert is one threshold crossing observed in one sample.
type Alert struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Message   string    `json:"message" yaml:"message"`
	Value     float64   `json:"value" yaml:"value"`
	// Subject names the disk mount point for DiskSpaceLow.
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty"`
}

// Evaluate returns every alert the sample triggers. Comparisons are strict,
// so a value equal to its threshold does not fire.
func Evaluate(sample metrics.Sample, t Thresholds) []Alert {
	if !t.Enabled {
		return nil
	}

	at := sample.Timestamp.CollectedAt
	var out []Alert

	if sample.CPUUsagePercent > t.CPU {
		out = append(out, Alert{
			Timestamp: at,
			Kind:      CPUHigh,
			Message:   fmt.Sprintf("CPU usage %.1f%% exceeds %.1f%%", sample.CPUUsagePercent, t.CPU),
			Value:     sample.CPUUsagePercent,
		})
	}

	if sample.Memory.Percentage > t.Memory {
		out = append(out, Alert{
			Timestamp: at,
			Kind:      MemoryHigh,
			Message:   fmt.Sprintf("Memory usage %.1f%% exceeds %.1f%%", sample.Memory.Percentage, t.Memory),
			Value:     sample.Memory.Percentage,
		})
	}

	if gpu := sample.GPU; gpu != nil && gpu.TemperatureCelsius != nil {
		if temp := *gpu.TemperatureCelsius; temp > t.GPUTemp {
			out = append(out, Alert{
				Timestamp: at,
				Kind:      GPUTempHigh,
				Message:   fmt.Sprintf("GPU temperature %.0f°C exceeds %.0f°C", temp, t.GPUTemp),
				Value:     temp,
			})
		}
	}

	for _, d := range sample.Disks {
		if d.UsagePercent > DiskSpaceLowPercent {
			out = append(out, Alert{
				Timestamp: at,
				Kind:      DiskSpaceLow,
				Message:   fmt.Sprintf("Disk %s is %.1f%% full", d.MountPoint, d.UsagePercent),
				Value:     d.UsagePercent,
				Subject:   d.MountPoint,
			})
		}
	}

	return out
}
