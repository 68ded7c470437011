// Package testing provides test doubles for the counters package.
package testing

import (
	"context"
	"sync"

	"github.com/rileyhilliard/sysmon/internal/counters"
	"github.com/rileyhilliard/sysmon/internal/metrics"
)

// FakeReader is a scripted counters.Reader. Tests set the public fields and
// per-subsystem errors; accessors return whatever is set at call time.
type FakeReader struct {
	mu sync.Mutex

	MemoryValue    counters.MemoryCounters
	CPUValue       counters.CPUUsage
	ProcessesValue []counters.ProcessCounters
	DisksValue     []counters.DiskCounters
	NetworkValue   []counters.InterfaceCounters
	Info           metrics.SystemInfo

	RefreshErr   error
	MemoryErr    error
	CPUErr       error
	ProcessesErr error
	DisksErr     error
	NetworkErr   error
	InfoErr      error

	// OnRefresh runs inside Refresh, after the call is counted. Use it to
	// advance counters between ticks or to panic.
	OnRefresh func(call int)

	refreshCalls int
	infoCalls    int
}

// NewFakeReader returns a reader with a small, healthy machine.
func NewFakeReader() *FakeReader {
	return &FakeReader{
		MemoryValue: counters.MemoryCounters{Total: 8_000_000_000, Used: 4_000_000_000},
		CPUValue:    counters.CPUUsage{Aggregate: 25, PerCore: []float64{20, 30}},
		ProcessesValue: []counters.ProcessCounters{
			{PID: 1, Name: "init", MemoryBytes: 10 << 20, Status: "S"},
			{PID: 42, Name: "editor", CPUPercent: 12.5, MemoryBytes: 300 << 20, Status: "R"},
		},
		DisksValue: []counters.DiskCounters{
			{Device: "/dev/sda1", MountPoint: "/", Filesystem: "ext4", Total: 1000, Available: 400},
		},
		NetworkValue: []counters.InterfaceCounters{
			{Name: "lo", BytesRecv: 100, BytesSent: 100},
			{Name: "eth0", BytesRecv: 1000, BytesSent: 500},
		},
		Info: metrics.SystemInfo{
			OSName:   "testos",
			Hostname: "fakehost",
			CPUCount: 2,
			CPUBrand: "Fake CPU",
		},
	}
}

// Refresh counts the call and runs OnRefresh.
func (f *FakeReader) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.refreshCalls++
	call := f.refreshCalls
	hook := f.OnRefresh
	err := f.RefreshErr
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return err
}

// Memory returns MemoryValue or MemoryErr.
func (f *FakeReader) Memory() (counters.MemoryCounters, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.MemoryValue, f.MemoryErr
}

// CPU returns CPUValue or CPUErr.
func (f *FakeReader) CPU() (counters.CPUUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return counters.CPUUsage{
		Aggregate: f.CPUValue.Aggregate,
		PerCore:   append([]float64(nil), f.CPUValue.PerCore...),
	}, f.CPUErr
}

// Processes returns ProcessesValue or ProcessesErr.
func (f *FakeReader) Processes() ([]counters.ProcessCounters, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]counters.ProcessCounters(nil), f.ProcessesValue...), f.ProcessesErr
}

// Disks returns DisksValue or DisksErr.
func (f *FakeReader) Disks() ([]counters.DiskCounters, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]counters.DiskCounters(nil), f.DisksValue...), f.DisksErr
}

// Network returns NetworkValue or NetworkErr.
func (f *FakeReader) Network() ([]counters.InterfaceCounters, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]counters.InterfaceCounters(nil), f.NetworkValue...), f.NetworkErr
}

// SystemInfo returns Info or InfoErr and counts the call.
func (f *FakeReader) SystemInfo(ctx context.Context) (metrics.SystemInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infoCalls++
	return f.Info, f.InfoErr
}

// Update runs fn with the lock held, for changing values while a sampler
// goroutine is reading them.
func (f *FakeReader) Update(fn func(f *FakeReader)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// RefreshCalls returns how many times Refresh ran.
func (f *FakeReader) RefreshCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

// InfoCalls returns how many times SystemInfo ran.
func (f *FakeReader) InfoCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.infoCalls
}

// FakeGPU is a scripted counters.GPUSource.
type FakeGPU struct {
	mu sync.Mutex

	GPU *metrics.GPU
	Err error

	queries int
}

// Available reports whether a GPU is configured.
func (g *FakeGPU) Available() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.GPU != nil
}

// Query returns a copy of GPU, or Err.
func (g *FakeGPU) Query(ctx context.Context) (*metrics.GPU, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queries++
	if g.Err != nil {
		return nil, g.Err
	}
	return g.GPU.Clone(), nil
}

// Queries returns how many times Query ran.
func (g *FakeGPU) Queries() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.queries
}

var (
	_ counters.Reader    = (*FakeReader)(nil)
	_ counters.GPUSource = (*FakeGPU)(nil)
)
