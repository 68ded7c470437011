package config

import (
	"fmt"
	"net"

	"github.com/rileyhilliard/sysmon/internal/errors"
)

// Limits enforced by Validate.
const (
	MinRefreshIntervalSeconds = 1
	MaxRefreshIntervalSeconds = 3600
	MaxProcessCount           = 500
	MinHistoryCapacity        = 2
	MaxHistoryCapacity        = 3600
	MaxGPUTempThreshold       = 150.0
)

// Validate checks settings for values the sampler cannot work with and
// returns a structured error naming the first offending key.
func Validate(s Settings) error {
	if s.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but sysmon only knows up to %d)", s.Version, CurrentConfigVersion),
			"Upgrade sysmon or lower the version field")
	}

	if s.RefreshIntervalSeconds < MinRefreshIntervalSeconds || s.RefreshIntervalSeconds > MaxRefreshIntervalSeconds {
		return invalid("refresh_interval_seconds", s.RefreshIntervalSeconds,
			fmt.Sprintf("Use a whole number of seconds between %d and %d", MinRefreshIntervalSeconds, MaxRefreshIntervalSeconds))
	}

	percentages := []struct {
		key   string
		value float64
	}{
		{"cpu_threshold", s.CPUThreshold},
		{"memory_threshold", s.MemoryThreshold},
	}
	for _, p := range percentages {
		if p.value <= 0 || p.value > 100 {
			return invalid(p.key, p.value, "Use a percentage above 0 and at most 100")
		}
	}

	if s.GPUTempThreshold <= 0 || s.GPUTempThreshold > MaxGPUTempThreshold {
		return invalid("gpu_temp_threshold", s.GPUTempThreshold,
			fmt.Sprintf("Use a temperature in °C above 0 and at most %.0f", MaxGPUTempThreshold))
	}

	if s.ProcessCount < 1 || s.ProcessCount > MaxProcessCount {
		return invalid("process_count", s.ProcessCount,
			fmt.Sprintf("Use a value between 1 and %d", MaxProcessCount))
	}

	if s.HistoryCapacity < MinHistoryCapacity || s.HistoryCapacity > MaxHistoryCapacity {
		return invalid("history_capacity", s.HistoryCapacity,
			fmt.Sprintf("Use a value between %d and %d", MinHistoryCapacity, MaxHistoryCapacity))
	}

	if s.AlertLogSize < 1 {
		return invalid("alert_log_size", s.AlertLogSize, "Use a positive number of entries")
	}

	if _, _, err := net.SplitHostPort(s.Serve.Addr); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("serve.addr %q is not a host:port address", s.Serve.Addr),
			"Use something like 127.0.0.1:8765")
	}

	if s.Serve.RateLimit <= 0 || s.Serve.Burst < 1 {
		return errors.New(errors.ErrConfig,
			"serve.rate_limit and serve.burst must be positive",
			"Set serve.rate_limit: 10 and serve.burst: 20")
	}

	return nil
}

func invalid(key string, value interface{}, suggestion string) error {
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Invalid %s: %v", key, value),
		suggestion)
}
