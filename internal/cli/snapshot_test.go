package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/counters"
	countertest "github.com/rileyhilliard/sysmon/internal/counters/testing"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/export"
	"github.com/rileyhilliard/sysmon/internal/logger"
)

func TestSnapshotCommand_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, out []byte)
	}{
		{
			name:   "text",
			format: "text",
			check: func(t *testing.T, out []byte) {
				assert.Contains(t, string(out), "System Report - ")
				assert.Contains(t, string(out), "editor")
			},
		},
		{
			name:   "json",
			format: "json",
			check: func(t *testing.T, out []byte) {
				snap, err := export.Decode(bytes.NewReader(out), export.FormatJSON)
				require.NoError(t, err)
				assert.True(t, snap.Ready())
				assert.Equal(t, "fakehost", snap.Sample.SystemInfo.Hostname)
			},
		},
		{
			name:   "yaml alias",
			format: "yml",
			check: func(t *testing.T, out []byte) {
				snap, err := export.Decode(bytes.NewReader(out), export.FormatYAML)
				require.NoError(t, err)
				assert.Len(t, snap.Sample.Processes, 2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			useFakeCounters(t, countertest.NewFakeReader())

			var out bytes.Buffer
			err := snapshotCommand(context.Background(), SnapshotOptions{Format: tt.format}, &out)
			require.NoError(t, err)
			tt.check(t, out.Bytes())
		})
	}
}

func TestSnapshotCommand_UnknownFormat(t *testing.T) {
	isolate(t)
	reader := countertest.NewFakeReader()
	useFakeCounters(t, reader)

	err := snapshotCommand(context.Background(), SnapshotOptions{Format: "xml"}, &bytes.Buffer{})
	assert.True(t, errors.IsCode(err, errors.ErrExport))
	assert.Zero(t, reader.RefreshCalls(), "no sampling before the format is known")
}

func TestSnapshotCommand_WritesFile(t *testing.T) {
	dir := isolate(t)
	useFakeCounters(t, countertest.NewFakeReader())

	reports := filepath.Join(dir, "reports")
	require.NoError(t, os.Mkdir(reports, 0755))

	var out bytes.Buffer
	err := snapshotCommand(context.Background(), SnapshotOptions{Format: "json", Output: reports}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Report written to "+reports)
	matches, err := filepath.Glob(filepath.Join(reports, "sysmon-report-*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSnapshotCommand_FailOnAlert(t *testing.T) {
	tests := []struct {
		name     string
		cpu      float64
		failOn   bool
		wantCode int
		wantErr  bool
	}{
		{name: "hot CPU with flag", cpu: 97, failOn: true, wantCode: AlertExitCode, wantErr: true},
		{name: "hot CPU without flag", cpu: 97, failOn: false},
		{name: "calm CPU with flag", cpu: 20, failOn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			reader := countertest.NewFakeReader()
			reader.CPUValue = counters.CPUUsage{Aggregate: tt.cpu, PerCore: []float64{tt.cpu}}
			useFakeCounters(t, reader)

			err := snapshotCommand(context.Background(), SnapshotOptions{Format: "text", FailOnAlert: tt.failOn}, &bytes.Buffer{})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			code, ok := errors.GetExitCode(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestSnapshotCommand_AppliesCountOverride(t *testing.T) {
	isolate(t)
	useFakeCounters(t, countertest.NewFakeReader())

	var out bytes.Buffer
	opts := SnapshotOptions{Format: "json", Flags: CommonFlags{Count: 1}}
	require.NoError(t, snapshotCommand(context.Background(), opts, &out))

	snap, err := export.Decode(&out, export.FormatJSON)
	require.NoError(t, err)
	require.Len(t, snap.Sample.Processes, 1)
	assert.Equal(t, "editor", snap.Sample.Processes[0].Name)
}

func TestSnapshotCommand_StartupFailure(t *testing.T) {
	isolate(t)
	useFakeCounters(t, countertest.NewFakeReader())
	newReader = func(ctx context.Context, log logger.Logger) (counters.Reader, error) {
		return nil, errors.New(errors.ErrStartup, "Cannot initialize system counters", "")
	}

	err := snapshotCommand(context.Background(), SnapshotOptions{Format: "text"}, &bytes.Buffer{})
	assert.True(t, errors.IsCode(err, errors.ErrStartup))
}

func TestMonitorCommand_NotATerminal(t *testing.T) {
	isolate(t)
	useFakeCounters(t, countertest.NewFakeReader())

	prev := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdoutIsTerminal = prev })

	var out bytes.Buffer
	require.NoError(t, monitorCommand(context.Background(), CommonFlags{}, &out))
	assert.Contains(t, out.String(), "System Report - ")
}
