package config

import (
	"time"

	"github.com/rileyhilliard/sysmon/internal/alerts"
	"github.com/rileyhilliard/sysmon/internal/history"
	"github.com/rileyhilliard/sysmon/internal/metrics"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Settings is the user-tunable behavior of the monitor. It is a plain value:
// copies never share state, so a Holder can hand one to any goroutine.
type Settings struct {
	Version int `json:"version" yaml:"version" mapstructure:"version"`

	// RefreshIntervalSeconds is the sampler tick. Minimum 1.
	RefreshIntervalSeconds int `json:"refresh_interval_seconds" yaml:"refresh_interval_seconds" mapstructure:"refresh_interval_seconds"`

	// Panel visibility in the dashboard.
	ShowCPU       bool `json:"show_cpu" yaml:"show_cpu" mapstructure:"show_cpu"`
	ShowMemory    bool `json:"show_memory" yaml:"show_memory" mapstructure:"show_memory"`
	ShowGPU       bool `json:"show_gpu" yaml:"show_gpu" mapstructure:"show_gpu"`
	ShowProcesses bool `json:"show_processes" yaml:"show_processes" mapstructure:"show_processes"`
	ShowDisks     bool `json:"show_disks" yaml:"show_disks" mapstructure:"show_disks"`
	ShowNetwork   bool `json:"show_network" yaml:"show_network" mapstructure:"show_network"`

	// NotificationsEnabled gates every alert check.
	NotificationsEnabled bool `json:"notifications_enabled" yaml:"notifications_enabled" mapstructure:"notifications_enabled"`

	CPUThreshold     float64 `json:"cpu_threshold" yaml:"cpu_threshold" mapstructure:"cpu_threshold"`
	MemoryThreshold  float64 `json:"memory_threshold" yaml:"memory_threshold" mapstructure:"memory_threshold"`
	GPUTempThreshold float64 `json:"gpu_temp_threshold" yaml:"gpu_temp_threshold" mapstructure:"gpu_temp_threshold"`

	// ProcessCount is the top-N size of the process table.
	ProcessCount int `json:"process_count" yaml:"process_count" mapstructure:"process_count"`

	DarkTheme bool `json:"dark_theme" yaml:"dark_theme" mapstructure:"dark_theme"`

	// HistoryCapacity is the number of points kept per chart series.
	// It only takes effect at startup.
	HistoryCapacity int `json:"history_capacity" yaml:"history_capacity" mapstructure:"history_capacity"`

	// AlertLogSize caps the rolling alert log.
	AlertLogSize int `json:"alert_log_size" yaml:"alert_log_size" mapstructure:"alert_log_size"`

	Serve ServeConfig `json:"serve" yaml:"serve" mapstructure:"serve"`
}

// ServeConfig controls the local web view.
type ServeConfig struct {
	// Addr is the listen address. Loopback by default.
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// RateLimit is requests per second allowed per client IP.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	// Burst is the token bucket size for RateLimit.
	Burst int `json:"burst" yaml:"burst" mapstructure:"burst"`
}

// DefaultSettings returns Settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Version:                CurrentConfigVersion,
		RefreshIntervalSeconds: 2,
		ShowCPU:                true,
		ShowMemory:             true,
		ShowGPU:                true,
		ShowProcesses:          true,
		ShowDisks:              true,
		ShowNetwork:            true,
		NotificationsEnabled:   true,
		CPUThreshold:           90,
		MemoryThreshold:        90,
		GPUTempThreshold:       85,
		ProcessCount:           metrics.DefaultProcessCount,
		DarkTheme:              true,
		HistoryCapacity:        history.DefaultCapacity,
		AlertLogSize:           alerts.DefaultLogSize,
		Serve: ServeConfig{
			Addr:      "127.0.0.1:8765",
			RateLimit: 10,
			Burst:     20,
		},
	}
}

// RefreshInterval returns the tick as a duration, never below one second.
func (s Settings) RefreshInterval() time.Duration {
	if s.RefreshIntervalSeconds < 1 {
		return time.Second
	}
	return time.Duration(s.RefreshIntervalSeconds) * time.Second
}

// Thresholds converts the alert fields for alerts.Evaluate.
func (s Settings) Thresholds() alerts.Thresholds {
	return alerts.Thresholds{
		Enabled: s.NotificationsEnabled,
		CPU:     s.CPUThreshold,
		Memory:  s.MemoryThreshold,
		GPUTemp: s.GPUTempThreshold,
	}
}
