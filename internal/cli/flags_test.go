package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		want    int
		wantErr bool
	}{
		{name: "empty", flag: "", want: 0},
		{name: "seconds", flag: "5s", want: 5},
		{name: "minutes", flag: "2m", want: 120},
		{name: "sub-second", flag: "500ms", wantErr: true},
		{name: "fractional seconds", flag: "1500ms", wantErr: true},
		{name: "negative", flag: "-3s", wantErr: true},
		{name: "no unit", flag: "5", wantErr: true},
		{name: "garbage", flag: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInterval(tt.flag)
			if tt.wantErr {
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommonFlags_Apply(t *testing.T) {
	tests := []struct {
		name         string
		flags        CommonFlags
		wantInterval int
		wantCount    int
		wantErr      bool
	}{
		{name: "no overrides", flags: CommonFlags{}, wantInterval: 2, wantCount: 15},
		{name: "interval", flags: CommonFlags{Interval: "3s"}, wantInterval: 3, wantCount: 15},
		{name: "count", flags: CommonFlags{Count: 25}, wantInterval: 2, wantCount: 25},
		{name: "count out of range", flags: CommonFlags{Count: -1}, wantErr: true},
		{name: "bad interval", flags: CommonFlags{Interval: "x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.DefaultSettings()
			err := tt.flags.Apply(&s)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantInterval, s.RefreshIntervalSeconds)
			assert.Equal(t, tt.wantCount, s.ProcessCount)
		})
	}
}

func TestAddCommonFlags(t *testing.T) {
	var flags CommonFlags
	cmd := &cobra.Command{Use: "test"}
	AddCommonFlags(cmd, &flags)

	require.NoError(t, cmd.Flags().Parse([]string{"--interval", "4s", "--count", "7"}))
	assert.Equal(t, "4s", flags.Interval)
	assert.Equal(t, 7, flags.Count)
}
