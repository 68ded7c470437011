package monitor

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/alerts"
	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/history"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/metrics"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
)

func init() {
	// Force TrueColor output in tests so we can verify ANSI color codes
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// ANSI sequences for the semantic palette under TrueColor.
const (
	ansiHealthy  = "38;2;57;255;20"
	ansiWarning  = "38;2;255;170;0"
	ansiCritical = "38;2;255;0;85"
)

var collected = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

// fakeSource serves whatever snapshot the test last set.
type fakeSource struct {
	mu    sync.Mutex
	snap  snapshot.Snapshot
	reads int
}

func (f *fakeSource) Read() snapshot.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.snap.Clone()
}

func (f *fakeSource) set(s snapshot.Snapshot) {
	f.mu.Lock()
	f.snap = s
	f.mu.Unlock()
}

// fakeController records sampler requests.
type fakeController struct {
	resets      int
	infoRefresh int
}

func (f *fakeController) Reset()             { f.resets++ }
func (f *fakeController) RefreshSystemInfo() { f.infoRefresh++ }

func u64(v uint64) *uint64    { return &v }
func f64(v float64) *float64 { return &v }

func testSample() metrics.Sample {
	return metrics.Sample{
		Timestamp:       metrics.NewTimestamp(collected.Add(-30*time.Second), collected),
		Memory:          metrics.NewMemory(16<<30, 8<<30),
		CPUUsagePercent: 95,
		CPUCores:        []metrics.CoreUsage{{CoreID: 0, UsagePercent: 91.5}, {CoreID: 1, UsagePercent: 20}},
		GPU: &metrics.GPU{
			Name:               "NVIDIA GeForce RTX 4090",
			UtilizationPercent: 37,
			MemoryUsedBytes:    u64(1 << 30),
			MemoryTotalBytes:   u64(24 << 30),
			TemperatureCelsius: f64(64),
		},
		Processes: []metrics.Process{
			{PID: 4242, Name: "a-very-long-process-name-that-keeps-going", CPUPercent: 12.5, MemoryBytes: 600 << 20, Status: "running"},
			{PID: 77, Name: "postgres", CPUPercent: 40, MemoryBytes: 300 << 20, Status: "sleep"},
			{PID: 1, Name: "init", CPUPercent: 0.1, MemoryBytes: 10 << 20, Status: "sleep"},
		},
		Disks: []metrics.Disk{metrics.NewDisk("/dev/nvme0n1p2", "/", "ext4", 1_000_000_000_000, 50_000_000_000)},
		Network: []metrics.NetworkInterface{
			{Interface: "eth0", ReceivedBytes: 10 << 30, TransmittedBytes: 42, ReceivedRate: 1 << 20, TransmittedRate: 2048},
			{Interface: "lo", ReceivedBytes: 5 << 20, TransmittedBytes: 5 << 20, ReceivedRate: 999, TransmittedRate: 999},
		},
		SystemInfo: metrics.SystemInfo{
			OSName: "ubuntu", OSVersion: "24.04", KernelVersion: "6.8.0", Hostname: "workstation",
			CPUCount: 2, CPUBrand: "Test CPU", UptimeSeconds: 90061,
		},
	}
}

func testSnapshot() snapshot.Snapshot {
	sample := testSample()
	firing := alerts.Evaluate(sample, alerts.DefaultThresholds())
	older := alerts.Alert{
		Timestamp: collected.Add(-time.Minute),
		Kind:      alerts.MemoryHigh,
		Message:   "Memory usage 93.0% exceeds 90.0%",
		Value:     93,
	}
	return snapshot.Snapshot{
		Seq:    3,
		Sample: sample,
		History: history.Series{
			Capacity: 60,
			CPU:      []history.Point{{Time: collected, Value: 40}, {Time: collected, Value: 95}},
			Memory:   []history.Point{{Time: collected, Value: 50}},
			GPU:      []history.Point{{Time: collected, Value: 37}},
			NetDown:  []history.Point{{Time: collected, Value: 1 << 20}},
			NetUp:    []history.Point{{Time: collected, Value: 2048}},
		},
		Alerts:   firing,
		AlertLog: append([]alerts.Alert{older}, firing...),
	}
}

type testEnv struct {
	source     *fakeSource
	controller *fakeController
	settings   *config.Holder
	log        *logger.BufferLogger
	dir        string
}

// newTestModel builds a sized model over snap.
func newTestModel(t *testing.T, snap snapshot.Snapshot, width int) (Model, *testEnv) {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		source:     &fakeSource{snap: snap},
		controller: &fakeController{},
		settings:   config.NewHolder(config.DefaultSettings(), filepath.Join(dir, "config.yaml")),
		log:        logger.NewBufferLogger(),
		dir:        dir,
	}
	m := NewModel(env.source, env.controller, env.settings,
		WithLogger(env.log),
		WithClock(func() time.Time { return collected }),
		WithExportDir(dir),
	)
	if width > 0 {
		m = resize(t, m, width, 40)
	}
	return m, env
}

func resize(t *testing.T, m Model, width, height int) Model {
	t.Helper()
	out, _ := update(t, m, tea.WindowSizeMsg{Width: width, Height: height})
	return out
}

// update runs one message through the model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	require.True(t, ok)
	return out, cmd
}

// press sends a key by name ("q", "tab", "ctrl+c", "1").
func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, keyMsg(key))
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}
