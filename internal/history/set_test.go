package history

import (
	"testing"
	"time"

	"github.com/rileyhilliard/sysmon/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAt(i int, gpu bool) metrics.Sample {
	s := metrics.Sample{
		Timestamp:       metrics.Timestamp{ElapsedSeconds: float64(i) * 2, CollectedAt: time.Unix(int64(i), 0)},
		CPUUsagePercent: float64(i),
		Memory:          metrics.NewMemory(100, uint64(i)),
		Network: []metrics.NetworkInterface{
			{Interface: "lo", ReceivedRate: 1000, TransmittedRate: 1000},
			{Interface: "eth0", ReceivedRate: 10, TransmittedRate: 5},
			{Interface: "wlan0", ReceivedRate: 1, TransmittedRate: 2},
		},
	}
	if gpu {
		s.GPU = &metrics.GPU{Name: "Test GPU", UtilizationPercent: float64(i * 2)}
	}
	return s
}

func TestSetPush(t *testing.T) {
	s := NewSet(10)
	s.Push(sampleAt(1, true))
	s.Push(sampleAt(2, false))

	series := s.Snapshot()
	assert.Equal(t, 10, series.Capacity)
	assert.Equal(t, []float64{1, 2}, Values(series.CPU))
	assert.Equal(t, []float64{1, 2}, Values(series.Memory))
	assert.Equal(t, []float64{2}, Values(series.GPU), "GPU advances only when present")
	assert.Equal(t, []float64{11, 11}, Values(series.NetDown), "loopback excluded")
	assert.Equal(t, []float64{7, 7}, Values(series.NetUp))

	assert.Equal(t, 2.0, series.CPU[0].Elapsed)
	assert.Equal(t, 4.0, series.NetUp[1].Elapsed)
	assert.Equal(t, 2.0, series.GPU[0].Elapsed)
}

func TestSetBounded(t *testing.T) {
	s := NewSet(DefaultCapacity)
	for i := 0; i < 150; i++ {
		s.Push(sampleAt(i, true))
	}

	series := s.Snapshot()
	for name, pts := range map[string][]Point{
		"cpu":      series.CPU,
		"memory":   series.Memory,
		"gpu":      series.GPU,
		"net_down": series.NetDown,
		"net_up":   series.NetUp,
	} {
		assert.Len(t, pts, DefaultCapacity, name)
	}
	assert.Equal(t, 90.0, series.CPU[0].Value)
}

func TestSetClear(t *testing.T) {
	s := NewSet(5)
	s.Push(sampleAt(1, true))
	s.Clear()

	series := s.Snapshot()
	assert.Empty(t, series.CPU)
	assert.Empty(t, series.GPU)
	assert.Empty(t, series.NetUp)
	assert.Equal(t, 5, s.Capacity())
}

func TestSeriesClone(t *testing.T) {
	s := NewSet(5)
	s.Push(sampleAt(3, true))

	original := s.Snapshot()
	clone := original.Clone()
	require.Len(t, clone.CPU, 1)
	clone.CPU[0].Value = 99

	assert.Equal(t, 3.0, original.CPU[0].Value)
}

func TestSetPushUsesNowForZeroTimestamp(t *testing.T) {
	s := NewSet(2)
	before := time.Now()
	s.Push(metrics.Sample{CPUUsagePercent: 5})

	series := s.Snapshot()
	require.Len(t, series.CPU, 1)
	assert.False(t, series.CPU[0].Time.Before(before))
}
