package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/config"
)

// inEmptyDir runs the test from an empty directory with an empty HOME.
func inEmptyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)
	return dir
}

func TestConfigFileCheck(t *testing.T) {
	t.Run("no file is a fixable warning", func(t *testing.T) {
		dir := inEmptyDir(t)
		initPath := filepath.Join(dir, config.ConfigFileName)
		check := &ConfigFileCheck{InitPath: initPath}

		result := check.Run(context.Background())
		assert.Equal(t, StatusWarn, result.Status)
		assert.True(t, result.Fixable)

		require.NoError(t, check.Fix())
		_, err := os.Stat(initPath)
		require.NoError(t, err)

		result = check.Run(context.Background())
		assert.Equal(t, StatusPass, result.Status)
		assert.Contains(t, result.Message, initPath)
	})

	t.Run("no init path is not fixable", func(t *testing.T) {
		inEmptyDir(t)
		result := (&ConfigFileCheck{}).Run(context.Background())
		assert.False(t, result.Fixable)
	})

	t.Run("explicit missing file fails", func(t *testing.T) {
		inEmptyDir(t)
		result := (&ConfigFileCheck{ConfigPath: "/nope/sysmon.yaml"}).Run(context.Background())
		assert.Equal(t, StatusFail, result.Status)
		assert.Contains(t, result.Message, "Specified config file not found")
		assert.NotContains(t, result.Message, "\n")
	})
}

func TestConfigValuesCheck(t *testing.T) {
	tests := []struct {
		name    string
		content string
		status  CheckStatus
		message string
	}{
		{
			name:    "defaults",
			status:  StatusPass,
			message: "refresh every 2s, top 15 processes, alerts on",
		},
		{
			name:    "custom values",
			content: "refresh_interval_seconds: 5\nnotifications_enabled: false\n",
			status:  StatusPass,
			message: "refresh every 5s, top 15 processes, alerts off",
		},
		{
			name:    "out of range",
			content: "process_count: 0\n",
			status:  StatusFail,
			message: "process_count",
		},
		{
			name:    "broken yaml",
			content: "refresh_interval_seconds: [\n",
			status:  StatusFail,
			message: "Failed to load settings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := inEmptyDir(t)
			if tt.content != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(tt.content), 0644))
			}

			result := (&ConfigValuesCheck{}).Run(context.Background())
			assert.Equal(t, tt.status, result.Status)
			assert.Contains(t, result.Message, tt.message)
		})
	}
}

func TestNewConfigChecks(t *testing.T) {
	checks := NewConfigChecks("", "x.yaml")
	require.Len(t, checks, 2)
	for _, c := range checks {
		assert.Equal(t, CategoryConfig, c.Category())
	}
}
