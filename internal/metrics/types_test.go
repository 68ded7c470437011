package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u64(v uint64) *uint64 { return &v }
func f64(v float64) *float64 { return &v }

func TestNewTimestamp(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)
	ts := NewTimestamp(start, start.Add(1500*time.Millisecond))

	assert.InDelta(t, 1.5, ts.ElapsedSeconds, 1e-9)
	assert.Equal(t, "2026-01-02 03:04:06", ts.WallClock)

	backwards := NewTimestamp(start, start.Add(-time.Second))
	assert.Equal(t, 0.0, backwards.ElapsedSeconds)
}

func TestGPUMemoryPercent(t *testing.T) {
	var missing *GPU
	assert.False(t, missing.HasMemory())
	assert.Equal(t, 0.0, missing.MemoryPercent())

	half := &GPU{MemoryUsedBytes: u64(4), MemoryTotalBytes: u64(8)}
	assert.True(t, half.HasMemory())
	assert.InDelta(t, 50.0, half.MemoryPercent(), 1e-9)

	partial := &GPU{MemoryUsedBytes: u64(4)}
	assert.False(t, partial.HasMemory())
}

func TestSampleClone(t *testing.T) {
	original := Sample{
		CPUCores:  []CoreUsage{{CoreID: 0, UsagePercent: 10}},
		Processes: []Process{{PID: 1, Name: "init"}},
		Disks:     []Disk{{Name: "sda"}},
		Network:   []NetworkInterface{{Interface: "eth0"}},
		GPU:       &GPU{Name: "gpu", TemperatureCelsius: f64(60), MemoryUsedBytes: u64(1), MemoryTotalBytes: u64(2)},
	}

	clone := original.Clone()
	clone.CPUCores[0].UsagePercent = 99
	clone.Processes[0].Name = "changed"
	clone.Disks[0].Name = "changed"
	clone.Network[0].Interface = "changed"
	*clone.GPU.TemperatureCelsius = 99
	*clone.GPU.MemoryUsedBytes = 99

	assert.Equal(t, 10.0, original.CPUCores[0].UsagePercent)
	assert.Equal(t, "init", original.Processes[0].Name)
	assert.Equal(t, "sda", original.Disks[0].Name)
	assert.Equal(t, "eth0", original.Network[0].Interface)
	require.NotNil(t, original.GPU.TemperatureCelsius)
	assert.Equal(t, 60.0, *original.GPU.TemperatureCelsius)
	assert.Equal(t, uint64(1), *original.GPU.MemoryUsedBytes)
}

func TestSampleCloneNilGPU(t *testing.T) {
	clone := Sample{}.Clone()
	assert.Nil(t, clone.GPU)
}

func TestSampleCloneKeepsEmptySlices(t *testing.T) {
	clone := Sample{
		CPUCores:  []CoreUsage{},
		Processes: []Process{},
		Disks:     []Disk{},
		Network:   []NetworkInterface{},
	}.Clone()

	assert.NotNil(t, clone.CPUCores)
	assert.NotNil(t, clone.Processes)
	assert.NotNil(t, clone.Disks)
	assert.NotNil(t, clone.Network)
	assert.Nil(t, Sample{}.Clone().Processes, "nil stays nil")
}

func TestNetworkTotals(t *testing.T) {
	s := Sample{Network: []NetworkInterface{
		{Interface: "lo", ReceivedRate: 500, TransmittedRate: 500},
		{Interface: "eth0", ReceivedRate: 100, TransmittedRate: 40},
		{Interface: "en0", ReceivedRate: 1, TransmittedRate: 2},
	}}

	down, up := s.NetworkTotals()
	assert.InDelta(t, 101.0, down, 1e-9)
	assert.InDelta(t, 42.0, up, 1e-9)
}

func TestIsLoopback(t *testing.T) {
	assert.True(t, IsLoopback("lo"))
	assert.True(t, IsLoopback("lo0"))
	assert.False(t, IsLoopback("eth0"))
	assert.False(t, IsLoopback("lowpan0"))
}
