package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
)

func TestSettingsForm_RoundTrip(t *testing.T) {
	s := config.DefaultSettings()
	s.ShowGPU = false
	s.ShowNetwork = false
	s.CPUThreshold = 82.5

	f := newSettingsForm(s)
	assert.Equal(t, []string{"cpu", "memory", "processes", "disks"}, f.Panels)
	assert.Equal(t, "82.5", f.CPUThreshold)
	assert.Equal(t, "2", f.Interval)

	got, err := f.apply(s)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestSettingsForm_Apply(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(f *settingsForm)
		check   func(t *testing.T, s config.Settings)
		wantErr bool
	}{
		{
			name: "numbers with spaces",
			edit: func(f *settingsForm) {
				f.Interval = " 5 "
				f.ProcessCount = "20"
				f.GPUThreshold = "90"
			},
			check: func(t *testing.T, s config.Settings) {
				assert.Equal(t, 5, s.RefreshIntervalSeconds)
				assert.Equal(t, 20, s.ProcessCount)
				assert.Equal(t, 90.0, s.GPUTempThreshold)
			},
		},
		{
			name: "hide every panel",
			edit: func(f *settingsForm) { f.Panels = nil },
			check: func(t *testing.T, s config.Settings) {
				assert.False(t, s.ShowCPU)
				assert.False(t, s.ShowMemory)
				assert.False(t, s.ShowGPU)
				assert.False(t, s.ShowProcesses)
				assert.False(t, s.ShowDisks)
				assert.False(t, s.ShowNetwork)
			},
		},
		{
			name: "alerts off",
			edit: func(f *settingsForm) { f.Notifications = false },
			check: func(t *testing.T, s config.Settings) {
				assert.False(t, s.NotificationsEnabled)
			},
		},
		{
			name:    "interval not a number",
			edit:    func(f *settingsForm) { f.Interval = "fast" },
			wantErr: true,
		},
		{
			name:    "threshold not a number",
			edit:    func(f *settingsForm) { f.MemThreshold = "ninety" },
			wantErr: true,
		},
		{
			name:    "threshold out of range",
			edit:    func(f *settingsForm) { f.CPUThreshold = "150" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := config.DefaultSettings()
			f := newSettingsForm(base)
			tt.edit(f)

			got, err := f.apply(base)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestSettingsForm_ValidationErrorIsStructured(t *testing.T) {
	f := newSettingsForm(config.DefaultSettings())
	f.ProcessCount = "0"

	_, err := f.apply(config.DefaultSettings())
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFieldValidators(t *testing.T) {
	tests := []struct {
		name     string
		validate func(string) error
		input    string
		wantErr  bool
	}{
		{"int in range", intBetween(1, 10), "5", false},
		{"int at upper bound", intBetween(1, 10), "10", false},
		{"int below range", intBetween(1, 10), "0", true},
		{"int not a number", intBetween(1, 10), "five", true},
		{"int fraction", intBetween(1, 10), "2.5", true},
		{"percent", percent, "75.5", false},
		{"percent at 100", percent, "100", false},
		{"percent zero", percent, "0", true},
		{"percent over", percent, "100.1", true},
		{"float garbage", floatBetween(0, 150), "hot", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettingsForm_Builds(t *testing.T) {
	f := newSettingsForm(config.DefaultSettings())
	assert.NotNil(t, f.form())
}
