package counters

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/metrics"
)

// GPUSource reports the primary GPU. The variant is chosen once at startup.
type GPUSource interface {
	// Available reports whether this source can ever return a GPU.
	Available() bool
	// Query returns the current reading, or nil when there is no device.
	Query(ctx context.Context) (*metrics.GPU, error)
}

// Unavailable is the GPUSource for machines without a supported GPU.
type Unavailable struct{}

// Available always returns false.
func (Unavailable) Available() bool { return false }

// Query always returns nil.
func (Unavailable) Query(context.Context) (*metrics.GPU, error) { return nil, nil }

// NvidiaSMIQuery is the nvidia-smi argument list. Columns are parsed by
// ParseNvidiaSMI in this order.
var NvidiaSMIQuery = []string{
	"--query-gpu=name,utilization.gpu,memory.used,memory.total,temperature.gpu",
	"--format=csv,noheader,nounits",
	"--id=0",
}

// nvidiaSMITimeout bounds one query so a wedged driver cannot stall a tick.
const nvidiaSMITimeout = 1500 * time.Millisecond

// CommandRunner runs a program and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// gpuRunner is the runner NvidiaSMI uses when Run is nil. Tests swap it.
var gpuRunner CommandRunner = runCommand

// NvidiaSMI reads GPU index 0 through the nvidia-smi CLI.
type NvidiaSMI struct {
	Path string
	Run  CommandRunner
}

// Available returns true.
func (n *NvidiaSMI) Available() bool { return true }

// Query runs nvidia-smi and parses the first device row.
func (n *NvidiaSMI) Query(ctx context.Context) (*metrics.GPU, error) {
	run := n.Run
	if run == nil {
		run = gpuRunner
	}

	ctx, cancel := context.WithTimeout(ctx, nvidiaSMITimeout)
	defer cancel()

	out, err := run(ctx, n.Path, NvidiaSMIQuery...)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSensor,
			"nvidia-smi query failed",
			"Check the NVIDIA driver with: nvidia-smi")
	}
	return ParseNvidiaSMI(string(out))
}

// DetectGPU picks the GPU source for this machine. lookPath is usually
// exec.LookPath; pass nil to use it.
func DetectGPU(ctx context.Context, lookPath func(string) (string, error), log logger.Logger) GPUSource {
	if log == nil {
		log = logger.Default()
	}
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	path, err := lookPath("nvidia-smi")
	if err != nil {
		log.Debug("no nvidia-smi on PATH, GPU panel disabled")
		return Unavailable{}
	}

	src := &NvidiaSMI{Path: path}
	gpu, err := src.Query(ctx)
	if err != nil || gpu == nil {
		log.Debug("nvidia-smi present but no usable device: %v", err)
		return Unavailable{}
	}

	log.Info("using GPU %q via %s", gpu.Name, path)
	return src
}

// ParseNvidiaSMI parses GPU metrics from nvidia-smi CSV output. Only the
// first row (device 0) is used. Expected columns:
//
//	name, utilization.gpu, memory.used, memory.total, temperature.gpu
//
// Returns nil, nil for empty output or a driver message instead of data.
// A field nvidia-smi cannot report ("[N/A]", "[Unknown Error]", "[GPU is
// lost]", ...) is left empty without dropping the rest of the device;
// utilization falls back to 0.
func ParseNvidiaSMI(output string) (*metrics.GPU, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return nil, nil
	}

	line := strings.TrimSpace(strings.SplitN(output, "\n", 2)[0])

	fields := strings.Split(line, ",")
	if len(fields) < 5 {
		if isDriverMessage(line) {
			return nil, nil
		}
		return nil, fmt.Errorf("nvidia-smi output has insufficient fields: expected 5, got %d", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if fields[0] == "" {
		return nil, fmt.Errorf("nvidia-smi output has no device name")
	}

	gpu := &metrics.GPU{Name: fields[0]}

	if util, ok := parseOptionalFloat(fields[1]); ok {
		gpu.UtilizationPercent = util
	}
	if used, ok := parseOptionalFloat(fields[2]); ok {
		b := mibToBytes(used)
		gpu.MemoryUsedBytes = &b
	}
	if total, ok := parseOptionalFloat(fields[3]); ok {
		b := mibToBytes(total)
		gpu.MemoryTotalBytes = &b
	}
	if temp, ok := parseOptionalFloat(fields[4]); ok {
		gpu.TemperatureCelsius = &temp
	}

	return gpu, nil
}

func isDriverMessage(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "no devices") ||
		strings.Contains(lower, "not found") ||
		strings.Contains(lower, "failed") ||
		strings.Contains(lower, "error")
}

// parseOptionalFloat reports ok=false for blank, bracketed, or unparsable
// values.
func parseOptionalFloat(s string) (float64, bool) {
	if s == "" || strings.EqualFold(s, "N/A") || strings.HasPrefix(s, "[") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func mibToBytes(mib float64) uint64 {
	if mib <= 0 {
		return 0
	}
	return uint64(mib * 1024 * 1024)
}
