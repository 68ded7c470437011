package history

import (
	"slices"
	"time"

	"github.com/rileyhilliard/sysmon/internal/metrics"
)

// Series is a copied, read-only view of a Set.
type Series struct {
	Capacity int     `json:"capacity" yaml:"capacity"`
	CPU      []Point `json:"cpu" yaml:"cpu"`
	Memory   []Point `json:"memory" yaml:"memory"`
	GPU      []Point `json:"gpu" yaml:"gpu"`
	NetDown  []Point `json:"net_down" yaml:"net_down"`
	NetUp    []Point `json:"net_up" yaml:"net_up"`
}

// Clone returns a deep copy.
func (s Series) Clone() Series {
	return Series{
		Capacity: s.Capacity,
		CPU:      slices.Clone(s.CPU),
		Memory:   slices.Clone(s.Memory),
		GPU:      slices.Clone(s.GPU),
		NetDown:  slices.Clone(s.NetDown),
		NetUp:    slices.Clone(s.NetUp),
	}
}

// Set holds the five series updated once per tick.
type Set struct {
	cpu     *Ring
	memory  *Ring
	gpu     *Ring
	netDown *Ring
	netUp   *Ring
}

// NewSet creates five rings of the given capacity.
func NewSet(capacity int) *Set {
	return &Set{
		cpu:     NewRing(capacity),
		memory:  NewRing(capacity),
		gpu:     NewRing(capacity),
		netDown: NewRing(capacity),
		netUp:   NewRing(capacity),
	}
}

// Push records one sample. The GPU series only advances when the sample
// carries a GPU reading. Network values are the summed non-loopback rates.
func (s *Set) Push(sample metrics.Sample) {
	at := sample.Timestamp.CollectedAt
	if at.IsZero() {
		at = time.Now()
	}
	point := func(v float64) Point {
		return Point{Time: at, Elapsed: sample.Timestamp.ElapsedSeconds, Value: v}
	}

	s.cpu.Push(point(sample.CPUUsagePercent))
	s.memory.Push(point(sample.Memory.Percentage))
	if sample.GPU != nil {
		s.gpu.Push(point(sample.GPU.UtilizationPercent))
	}

	down, up := sample.NetworkTotals()
	s.netDown.Push(point(down))
	s.netUp.Push(point(up))
}

// Clear empties all five series.
func (s *Set) Clear() {
	s.cpu.Clear()
	s.memory.Clear()
	s.gpu.Clear()
	s.netDown.Clear()
	s.netUp.Clear()
}

// Capacity returns the per-series capacity.
func (s *Set) Capacity() int {
	return s.cpu.Cap()
}

// Snapshot copies every series.
func (s *Set) Snapshot() Series {
	return Series{
		Capacity: s.cpu.Cap(),
		CPU:      s.cpu.Points(),
		Memory:   s.memory.Points(),
		GPU:      s.gpu.Points(),
		NetDown:  s.netDown.Points(),
		NetUp:    s.netUp.Points(),
	}
}
