package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the per-directory config file name.
	ConfigFileName = ".sysmon.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/sysmon"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. SYSMON_CPU_THRESHOLD.
	EnvPrefix = "SYSMON"
)

// Load reads settings from the specified path. Keys missing from the file
// keep their defaults, and SYSMON_* environment variables override both.
func Load(path string) (Settings, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return Settings{}, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'sysmon config init' to create a config file, or specify one with --config")
		}
		return Settings{}, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseSettings(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .sysmon.yaml in current directory
// 3. ~/.config/sysmon/config.yaml (global)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if global := DefaultPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// DefaultPath returns ~/.config/sysmon/config.yaml, or "" without a home dir.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LoadOrDefault finds and loads the config file, or returns defaults (with
// environment overrides applied) when there is none. The returned path is
// empty in the latter case.
func LoadOrDefault(explicit string) (Settings, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return Settings{}, "", err
	}

	if path == "" {
		s, err := parseSettings(newViper(), "environment")
		return s, "", err
	}

	s, err := Load(path)
	return s, path, err
}

// newViper returns a viper instance primed with defaults and env bindings.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// parseSettings converts viper config to Settings with defaults merged in.
func parseSettings(v *viper.Viper, source string) (Settings, error) {
	s := DefaultSettings()
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+source)
	}
	return s, nil
}

// setDefaults registers every key so AutomaticEnv can override it even when
// the file does not mention it.
func setDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("version", d.Version)
	v.SetDefault("refresh_interval_seconds", d.RefreshIntervalSeconds)
	v.SetDefault("show_cpu", d.ShowCPU)
	v.SetDefault("show_memory", d.ShowMemory)
	v.SetDefault("show_gpu", d.ShowGPU)
	v.SetDefault("show_processes", d.ShowProcesses)
	v.SetDefault("show_disks", d.ShowDisks)
	v.SetDefault("show_network", d.ShowNetwork)
	v.SetDefault("notifications_enabled", d.NotificationsEnabled)
	v.SetDefault("cpu_threshold", d.CPUThreshold)
	v.SetDefault("memory_threshold", d.MemoryThreshold)
	v.SetDefault("gpu_temp_threshold", d.GPUTempThreshold)
	v.SetDefault("process_count", d.ProcessCount)
	v.SetDefault("dark_theme", d.DarkTheme)
	v.SetDefault("history_capacity", d.HistoryCapacity)
	v.SetDefault("alert_log_size", d.AlertLogSize)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("serve.rate_limit", d.Serve.RateLimit)
	v.SetDefault("serve.burst", d.Serve.Burst)
}
