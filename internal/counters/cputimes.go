package counters

import "github.com/shirou/gopsutil/v4/cpu"

// cpuTotal sums the time buckets that make up wall time. Guest time is
// already counted in User on Linux, so it is left out.
func cpuTotal(t cpu.TimesStat) float64 {
	return t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
}

func cpuBusy(t cpu.TimesStat) float64 {
	return cpuTotal(t) - t.Idle - t.Iowait
}

// cpuPercent returns the busy share of the interval between two readings.
func cpuPercent(prev, cur cpu.TimesStat) float64 {
	totalDelta := cpuTotal(cur) - cpuTotal(prev)
	if totalDelta <= 0 {
		return 0
	}
	busyDelta := cpuBusy(cur) - cpuBusy(prev)
	pct := busyDelta / totalDelta * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// usageFromTimes derives per-core and aggregate usage from two per-core
// readings. The aggregate is computed from the summed deltas of the same
// readings rather than from a separate read. Cores missing from prev
// (hotplug) report 0.
func usageFromTimes(prev, cur []cpu.TimesStat) CPUUsage {
	byName := make(map[string]cpu.TimesStat, len(prev))
	for _, t := range prev {
		byName[t.CPU] = t
	}

	usage := CPUUsage{PerCore: make([]float64, len(cur))}
	var prevSum, curSum cpu.TimesStat
	for i, c := range cur {
		p, ok := byName[c.CPU]
		if !ok {
			continue
		}
		usage.PerCore[i] = cpuPercent(p, c)
		prevSum = addTimes(prevSum, p)
		curSum = addTimes(curSum, c)
	}
	usage.Aggregate = cpuPercent(prevSum, curSum)
	return usage
}

func addTimes(a, b cpu.TimesStat) cpu.TimesStat {
	a.User += b.User
	a.System += b.System
	a.Idle += b.Idle
	a.Nice += b.Nice
	a.Iowait += b.Iowait
	a.Irq += b.Irq
	a.Softirq += b.Softirq
	a.Steal += b.Steal
	return a
}
