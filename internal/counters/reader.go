// Package counters reads raw operating system counters: memory, CPU time,
// processes, filesystems, and network interfaces, plus the primary GPU.
//
// A Reader is refreshed once per tick and then queried field by field. Each
// accessor fails independently so one unreadable subsystem only blanks its
// own part of the sample.
package counters

import (
	"context"

	"github.com/rileyhilliard/sysmon/internal/metrics"
)

// Reader is the sampler's view of the operating system.
type Reader interface {
	// Refresh re-reads every subsystem. Accessors return the values from the
	// most recent Refresh.
	Refresh(ctx context.Context) error
	Memory() (MemoryCounters, error)
	CPU() (CPUUsage, error)
	Processes() ([]ProcessCounters, error)
	Disks() ([]DiskCounters, error)
	Network() ([]InterfaceCounters, error)
	SystemInfo(ctx context.Context) (metrics.SystemInfo, error)
}

// MemoryCounters is RAM in bytes.
type MemoryCounters struct {
	Total uint64
	Used  uint64
}

// CPUUsage holds utilization computed from one read of per-core CPU times,
// so the aggregate and the per-core values describe the same interval.
type CPUUsage struct {
	Aggregate float64
	PerCore   []float64
}

// ProcessCounters is one live process.
type ProcessCounters struct {
	PID         int32
	Name        string
	CPUPercent  float64
	MemoryBytes uint64
	Status      string
}

// DiskCounters is one mounted filesystem.
type DiskCounters struct {
	Device     string
	MountPoint string
	Filesystem string
	Total      uint64
	Available  uint64
}

// InterfaceCounters holds cumulative byte counters for one interface.
type InterfaceCounters struct {
	Name      string
	BytesRecv uint64
	BytesSent uint64
}
