package doctor

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/sysmon/internal/config"
)

// ConfigFileCheck reports which config file is in use. Running on defaults
// is a warning, fixed by writing the defaults to InitPath.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
	InitPath   string // Where Fix writes a default config
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(ctx context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %v", firstLine(err)),
			Suggestion: "Check the --config path and file permissions",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using defaults",
			Suggestion: "Run 'sysmon config init' to create one",
			Fixable:    c.InitPath != "",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", path),
	}
}

func (c *ConfigFileCheck) Fix() error {
	if c.InitPath == "" {
		return nil
	}
	return config.Save(c.InitPath, config.DefaultSettings())
}

// ConfigValuesCheck loads the effective settings, environment overrides
// included, and validates them.
type ConfigValuesCheck struct {
	ConfigPath string
}

func (c *ConfigValuesCheck) Name() string     { return "config_values" }
func (c *ConfigValuesCheck) Category() string { return CategoryConfig }

func (c *ConfigValuesCheck) Run(ctx context.Context) CheckResult {
	s, _, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load settings: %v", firstLine(err)),
			Suggestion: "Check the YAML syntax in your config file",
		}
	}

	if err := config.Validate(s); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Invalid settings: %v", firstLine(err)),
			Suggestion: "Fix the value with 'sysmon config set <key> <value>'",
		}
	}

	alerts := "alerts on"
	if !s.NotificationsEnabled {
		alerts = "alerts off"
	}
	return CheckResult{
		Name:   c.Name(),
		Status: StatusPass,
		Message: fmt.Sprintf("Settings valid: refresh every %ds, top %d processes, %s",
			s.RefreshIntervalSeconds, s.ProcessCount, alerts),
	}
}

func (c *ConfigValuesCheck) Fix() error {
	return nil // Bad values need a human decision
}

// NewConfigChecks creates all config-related checks.
func NewConfigChecks(configPath, initPath string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath, InitPath: initPath},
		&ConfigValuesCheck{ConfigPath: configPath},
	}
}
