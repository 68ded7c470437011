package metrics

import "sort"

// Percent returns part/total*100, or 0 when total is not positive.
func Percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

// SaturatingSub returns a-b, or 0 when b > a.
func SaturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// Rate converts two cumulative counter readings into bytes per second.
// A non-positive elapsed time or a counter that went backwards yields 0.
func Rate(previous, current uint64, elapsedSeconds float64) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	return float64(SaturatingSub(current, previous)) / elapsedSeconds
}

// TopProcesses returns at most n processes ordered by memory, largest first.
// Ties are broken by ascending PID so the order is deterministic. The input
// slice is not modified.
func TopProcesses(procs []Process, n int) []Process {
	if n <= 0 {
		return []Process{}
	}
	sorted := make([]Process, len(procs))
	copy(sorted, procs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MemoryBytes != sorted[j].MemoryBytes {
			return sorted[i].MemoryBytes > sorted[j].MemoryBytes
		}
		return sorted[i].PID < sorted[j].PID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Level buckets a usage percentage for coloring.
type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelCritical
)

// Usage color bands.
const (
	UsageWarningPercent  = 50.0
	UsageCriticalPercent = 75.0
)

// Temperature color bands in Celsius.
const (
	TempWarningCelsius  = 70.0
	TempCriticalCelsius = 85.0
)

// UsageLevel classifies a usage percentage: <50 normal, <75 warning, else critical.
func UsageLevel(pct float64) Level {
	switch {
	case pct < UsageWarningPercent:
		return LevelNormal
	case pct < UsageCriticalPercent:
		return LevelWarning
	default:
		return LevelCritical
	}
}

// TemperatureLevel classifies a temperature: <70 normal, <85 warning, else critical.
func TemperatureLevel(celsius float64) Level {
	switch {
	case celsius < TempWarningCelsius:
		return LevelNormal
	case celsius < TempCriticalCelsius:
		return LevelWarning
	default:
		return LevelCritical
	}
}

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "normal"
	}
}
