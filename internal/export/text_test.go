package export

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/sysmon/internal/snapshot"
)

func TestRenderText(t *testing.T) {
	out := RenderText(testSnapshot())

	tests := []struct {
		name     string
		contains string
	}{
		{"header", "System Report - 2026-05-01 10:00:00"},
		{"hostname", "workstation"},
		{"uptime", "1d 1h 1m"},
		{"memory total", "16.0 GB"},
		{"cpu", "95.0%"},
		{"per core", "Core 1"},
		{"gpu name", "NVIDIA GeForce RTX 4090"},
		{"gpu vram", "1024 MB / 24564 MB"},
		{"gpu temp", "64°C"},
		{"alert", "cpu_high"},
		{"disk alert", "disk_space_low"},
		{"process table", "PID"},
		{"process name truncated", "a-very-long-process-name-..."},
		{"process memory", "600 MB"},
		{"disk", "95.0%"},
		{"network rate", "1.0 MB/s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, out, tt.contains)
		})
	}
}

func TestRenderTextWithoutGPU(t *testing.T) {
	snap := testSnapshot()
	snap.Sample.GPU = nil
	snap.Alerts = nil

	out := RenderText(snap)
	assert.NotContains(t, out, "GPU")
	assert.NotContains(t, out, "Alerts")
}

func TestRenderTextNotReady(t *testing.T) {
	assert.Equal(t, "No samples collected yet\n", RenderText(snapshot.Snapshot{}))
}
