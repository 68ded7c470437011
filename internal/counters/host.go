package counters

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/metrics"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	psnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// HostReader reads the local machine through gopsutil. It keeps the previous
// CPU times and a per-PID process cache between refreshes, so it is owned by
// a single goroutine and is not safe for concurrent use.
type HostReader struct {
	log logger.Logger

	prevTimes []cpu.TimesStat
	procs     map[int32]*process.Process

	memory    MemoryCounters
	memErr    error
	cpuUsage  CPUUsage
	cpuErr    error
	processes []ProcessCounters
	procErr   error
	disks     []DiskCounters
	diskErr   error
	network   []InterfaceCounters
	netErr    error
}

// NewHostReader primes the CPU and process baselines. It fails when the
// counter subsystem cannot be read at all, which is the one fatal error.
func NewHostReader(ctx context.Context, log logger.Logger) (*HostReader, error) {
	if log == nil {
		log = logger.Default()
	}

	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil || len(times) == 0 {
		if err == nil {
			err = fmt.Errorf("no CPU time counters reported")
		}
		return nil, errors.WrapWithCode(err, errors.ErrStartup,
			"Cannot initialize system counters",
			startupSuggestion())
	}

	r := &HostReader{
		log:       log,
		prevTimes: times,
		procs:     make(map[int32]*process.Process),
	}
	// Seed process CPU baselines so the first real tick has a delta.
	r.refreshProcesses(ctx)
	return r, nil
}

func startupSuggestion() string {
	switch runtime.GOOS {
	case "linux":
		return "Check that /proc is mounted and readable by this user"
	case "darwin":
		return "Check that sysctl and host statistics are accessible"
	default:
		return "Check that this platform is supported by gopsutil"
	}
}

// Refresh re-reads every subsystem. Individual failures are recorded for the
// matching accessor and logged at debug level; Refresh itself only fails when
// ctx is done.
func (r *HostReader) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.refreshMemory(ctx)
	r.refreshCPU(ctx)
	r.refreshProcesses(ctx)
	r.refreshDisks(ctx)
	r.refreshNetwork(ctx)
	return nil
}

func (r *HostReader) refreshMemory(ctx context.Context) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		r.memErr = err
		r.log.Debug("memory read failed: %v", err)
		return
	}
	r.memory = MemoryCounters{Total: vm.Total, Used: vm.Used}
	r.memErr = nil
}

func (r *HostReader) refreshCPU(ctx context.Context) {
	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		r.cpuErr = err
		r.log.Debug("cpu times read failed: %v", err)
		return
	}
	r.cpuUsage = usageFromTimes(r.prevTimes, times)
	r.prevTimes = times
	r.cpuErr = nil
}

func (r *HostReader) refreshProcesses(ctx context.Context) {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		r.procErr = err
		r.log.Debug("process list failed: %v", err)
		return
	}

	seen := make(map[int32]struct{}, len(pids))
	out := make([]ProcessCounters, 0, len(pids))
	for _, pid := range pids {
		p, ok := r.procs[pid]
		if !ok {
			p, err = process.NewProcessWithContext(ctx, pid)
			if err != nil {
				// Exited between listing and opening.
				continue
			}
			r.procs[pid] = p
		}

		pc, ok := readProcess(ctx, p)
		if !ok {
			delete(r.procs, pid)
			continue
		}
		seen[pid] = struct{}{}
		out = append(out, pc)
	}

	for pid := range r.procs {
		if _, ok := seen[pid]; !ok {
			delete(r.procs, pid)
		}
	}

	r.processes = out
	r.procErr = nil
}

// readProcess returns false when the process vanished mid-read.
func readProcess(ctx context.Context, p *process.Process) (ProcessCounters, bool) {
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return ProcessCounters{}, false
	}
	memInfo, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return ProcessCounters{}, false
	}
	// Percent with a zero interval measures since the previous call on p.
	cpuPct, err := p.PercentWithContext(ctx, 0)
	if err != nil {
		cpuPct = 0
	}
	status := ""
	if st, err := p.StatusWithContext(ctx); err == nil && len(st) > 0 {
		status = strings.Join(st, ",")
	}

	return ProcessCounters{
		PID:         p.Pid,
		Name:        name,
		CPUPercent:  cpuPct,
		MemoryBytes: memInfo.RSS,
		Status:      status,
	}, true
}

func (r *HostReader) refreshDisks(ctx context.Context) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		r.diskErr = err
		r.log.Debug("partition list failed: %v", err)
		return
	}

	out := make([]DiskCounters, 0, len(parts))
	for _, part := range parts {
		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			r.log.Debug("disk usage for %s failed: %v", part.Mountpoint, err)
			continue
		}
		out = append(out, DiskCounters{
			Device:     part.Device,
			MountPoint: part.Mountpoint,
			Filesystem: part.Fstype,
			Total:      usage.Total,
			Available:  usage.Free,
		})
	}
	r.disks = out
	r.diskErr = nil
}

func (r *HostReader) refreshNetwork(ctx context.Context) {
	stats, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		r.netErr = err
		r.log.Debug("network counters failed: %v", err)
		return
	}

	out := make([]InterfaceCounters, 0, len(stats))
	for _, s := range stats {
		out = append(out, InterfaceCounters{
			Name:      s.Name,
			BytesRecv: s.BytesRecv,
			BytesSent: s.BytesSent,
		})
	}
	r.network = out
	r.netErr = nil
}

// Memory returns RAM counters from the last refresh.
func (r *HostReader) Memory() (MemoryCounters, error) {
	return r.memory, r.memErr
}

// CPU returns utilization over the interval between the last two refreshes.
func (r *HostReader) CPU() (CPUUsage, error) {
	return CPUUsage{
		Aggregate: r.cpuUsage.Aggregate,
		PerCore:   append([]float64(nil), r.cpuUsage.PerCore...),
	}, r.cpuErr
}

// Processes returns every process read successfully in the last refresh.
func (r *HostReader) Processes() ([]ProcessCounters, error) {
	return append([]ProcessCounters(nil), r.processes...), r.procErr
}

// Disks returns mounted filesystems from the last refresh.
func (r *HostReader) Disks() ([]DiskCounters, error) {
	return append([]DiskCounters(nil), r.disks...), r.diskErr
}

// Network returns cumulative interface counters from the last refresh.
func (r *HostReader) Network() ([]InterfaceCounters, error) {
	return append([]InterfaceCounters(nil), r.network...), r.netErr
}

// SystemInfo reads static host metadata. Missing pieces are left blank.
func (r *HostReader) SystemInfo(ctx context.Context) (metrics.SystemInfo, error) {
	var info metrics.SystemInfo

	hi, err := host.InfoWithContext(ctx)
	if err != nil {
		return info, errors.WrapWithCode(err, errors.ErrSensor,
			"Cannot read host information", "")
	}
	info.OSName = hi.Platform
	if info.OSName == "" {
		info.OSName = hi.OS
	}
	info.OSVersion = hi.PlatformVersion
	info.KernelVersion = hi.KernelVersion
	info.Hostname = hi.Hostname
	info.UptimeSeconds = hi.Uptime

	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		info.CPUCount = n
	} else {
		info.CPUCount = runtime.NumCPU()
	}

	if ci, err := cpu.InfoWithContext(ctx); err == nil && len(ci) > 0 {
		info.CPUBrand = strings.TrimSpace(ci[0].ModelName)
	} else if err != nil {
		r.log.Debug("cpu info failed: %v", err)
	}

	return info, nil
}
