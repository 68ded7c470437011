package doctor

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/counters"
	countertest "github.com/rileyhilliard/sysmon/internal/counters/testing"
	"github.com/rileyhilliard/sysmon/internal/errors"
)

func openFake(r *countertest.FakeReader) OpenFunc {
	return func(ctx context.Context) (counters.Reader, error) { return r, nil }
}

func resultsByName(checks []Check) map[string]CheckResult {
	out := make(map[string]CheckResult)
	for i, r := range RunAll(context.Background(), checks) {
		out[checks[i].Name()] = r
	}
	return out
}

func TestNewCounterChecks_Healthy(t *testing.T) {
	reader := countertest.NewFakeReader()
	checks := NewCounterChecks(context.Background(), openFake(reader))
	require.Len(t, checks, 6)
	assert.Equal(t, 1, reader.RefreshCalls())

	for _, c := range checks {
		assert.Equal(t, CategoryCounters, c.Category(), c.Name())
	}
	got := resultsByName(checks)
	for name, r := range got {
		assert.Equal(t, StatusPass, r.Status, name)
	}
	assert.Equal(t, "Memory: 7.5 GB total, 50.0% used", got["counters_memory"].Message)
	assert.Equal(t, "CPU: 2 logical cores", got["counters_cpu"].Message)
	assert.Equal(t, "Processes: 2 visible", got["counters_processes"].Message)
	assert.Equal(t, "Disks: 1 mounted", got["counters_disks"].Message)
	assert.Equal(t, "Network: 1 interface besides loopback", got["counters_network"].Message)
}

func TestNewCounterChecks_SubsystemFailures(t *testing.T) {
	reader := countertest.NewFakeReader()
	reader.ProcessesErr = stderrors.New("permission denied")
	reader.DisksErr = stderrors.New("no mounts")

	got := resultsByName(NewCounterChecks(context.Background(), openFake(reader)))

	assert.Equal(t, StatusPass, got["counters_open"].Status)
	assert.Equal(t, StatusWarn, got["counters_processes"].Status)
	assert.Contains(t, got["counters_processes"].Message, "permission denied")
	assert.Contains(t, got["counters_processes"].Suggestion, "processes panel")
	assert.Equal(t, StatusWarn, got["counters_disks"].Status)
	assert.Equal(t, StatusPass, got["counters_memory"].Status)
}

func TestNewCounterChecks_EmptyProcessList(t *testing.T) {
	reader := countertest.NewFakeReader()
	reader.ProcessesValue = nil

	got := resultsByName(NewCounterChecks(context.Background(), openFake(reader)))
	assert.Equal(t, StatusWarn, got["counters_processes"].Status)
}

func TestNewCounterChecks_OpenFails(t *testing.T) {
	open := func(ctx context.Context) (counters.Reader, error) {
		return nil, errors.WrapWithCode(stderrors.New("no /proc"), errors.ErrStartup,
			"Cannot initialize system counters", "Mount /proc")
	}

	checks := NewCounterChecks(context.Background(), open)
	require.Len(t, checks, 1)

	result := checks[0].Run(context.Background())
	assert.Equal(t, StatusFail, result.Status)
	assert.Equal(t, "Cannot read system counters: Cannot initialize system counters", result.Message)
}

func TestNewCounterChecks_RefreshFails(t *testing.T) {
	reader := countertest.NewFakeReader()
	reader.RefreshErr = stderrors.New("cpu times unreadable")

	got := resultsByName(NewCounterChecks(context.Background(), openFake(reader)))
	assert.Equal(t, StatusFail, got["counters_open"].Status)
	assert.Contains(t, got["counters_open"].Message, "cpu times unreadable")
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", stderrors.New("boom"), "boom"},
		{"structured", errors.New(errors.ErrConfig, "Bad config", "Fix it"), "Bad config"},
		{"multi-line", stderrors.New("first\nsecond"), "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstLine(tt.err))
		})
	}
}
