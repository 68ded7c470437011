package snapshot

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rileyhilliard/sysmon/internal/alerts"
	"github.com/rileyhilliard/sysmon/internal/history"
	"github.com/rileyhilliard/sysmon/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tick builds a snapshot whose every field is derived from seq, so a reader
// can tell whether the fields came from the same publish.
func tick(seq uint64) Snapshot {
	v := float64(seq)
	return Snapshot{
		Seq: seq,
		Sample: metrics.Sample{
			Timestamp:       metrics.Timestamp{ElapsedSeconds: v},
			CPUUsagePercent: v,
			Processes:       []metrics.Process{{PID: int32(seq), MemoryBytes: seq}},
		},
		History: history.Series{
			Capacity: 60,
			CPU:      []history.Point{{Value: v}},
		},
		Alerts: []alerts.Alert{{Kind: alerts.CPUHigh, Value: v}},
	}
}

func TestNewStoreIsEmpty(t *testing.T) {
	s := NewStore()
	snap := s.Read()
	assert.False(t, snap.Ready())
	assert.Equal(t, uint64(0), s.Seq())
}

func TestPublishAndRead(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Publish(tick(1)))

	snap := s.Read()
	assert.True(t, snap.Ready())
	assert.Equal(t, uint64(1), snap.Seq)
	assert.Equal(t, 1.0, snap.Sample.CPUUsagePercent)
}

func TestPublishRejectsStale(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Publish(tick(5)))

	assert.ErrorIs(t, s.Publish(tick(5)), ErrStale)
	assert.ErrorIs(t, s.Publish(tick(3)), ErrStale)
	assert.ErrorIs(t, s.Publish(Snapshot{}), ErrStale)
	assert.Equal(t, uint64(5), s.Read().Seq)
}

func TestReadReturnsIndependentCopy(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Publish(tick(1)))

	first := s.Read()
	first.Sample.Processes[0].Name = "mutated"
	first.History.CPU[0].Value = 99
	first.Alerts[0].Value = 99

	second := s.Read()
	assert.Equal(t, "", second.Sample.Processes[0].Name)
	assert.Equal(t, 1.0, second.History.CPU[0].Value)
	assert.Equal(t, 1.0, second.Alerts[0].Value)
}

func TestReadKeepsEmptySlices(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Publish(Snapshot{
		Seq: 1,
		Sample: metrics.Sample{
			CPUCores:  []metrics.CoreUsage{},
			Processes: []metrics.Process{},
			Disks:     []metrics.Disk{},
			Network:   []metrics.NetworkInterface{},
		},
		History:  history.Series{CPU: []history.Point{}},
		Alerts:   []alerts.Alert{},
		AlertLog: []alerts.Alert{},
	}))

	snap := s.Read()
	assert.NotNil(t, snap.Sample.Processes)
	assert.NotNil(t, snap.History.CPU)
	assert.NotNil(t, snap.Alerts)

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"processes":[]`)
	assert.Contains(t, string(data), `"alerts":[]`)
	assert.NotContains(t, string(data), `"processes":null`)
}

func TestPublishKeepsOwnCopy(t *testing.T) {
	s := NewStore()
	snap := tick(1)
	require.NoError(t, s.Publish(snap))

	snap.Sample.Processes[0].PID = 777
	assert.Equal(t, int32(1), s.Read().Sample.Processes[0].PID)
}

func TestConcurrentPublishAndRead(t *testing.T) {
	s := NewStore()
	const publishes = 1000
	const readers = 10

	done := make(chan struct{})
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []string

	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var lastSeq uint64
			for {
				select {
				case <-done:
					return
				default:
				}
				snap := s.Read()
				if !snap.Ready() {
					continue
				}
				v := float64(snap.Seq)
				consistent := snap.Sample.CPUUsagePercent == v &&
					snap.Sample.Timestamp.ElapsedSeconds == v &&
					len(snap.History.CPU) == 1 && snap.History.CPU[0].Value == v &&
					len(snap.Alerts) == 1 && snap.Alerts[0].Value == v
				if !consistent || snap.Seq < lastSeq {
					mu.Lock()
					failures = append(failures, "torn or out-of-order snapshot")
					mu.Unlock()
					return
				}
				lastSeq = snap.Seq
			}
		}()
	}

	for i := uint64(1); i <= publishes; i++ {
		require.NoError(t, s.Publish(tick(i)))
	}
	close(done)
	wg.Wait()

	assert.Empty(t, failures)
	assert.Equal(t, uint64(publishes), s.Read().Seq)
}

func TestSubscribe(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.Publish(tick(1)))
	require.NoError(t, s.Publish(tick(2)))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a publish notification")
	}

	// Two publishes coalesce into one pending signal.
	select {
	case <-ch:
		t.Fatal("notifications should coalesce")
	default:
	}
}

func TestUnsubscribe(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	cancel()
	cancel()

	require.NoError(t, s.Publish(tick(1)))
	select {
	case <-ch:
		t.Fatal("cancelled subscriber should not be notified")
	default:
	}
}
