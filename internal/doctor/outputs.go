package doctor

import (
	"context"
	"fmt"
	"net"

	"github.com/rileyhilliard/sysmon/internal/counters"
)

// GPUCheck reports whether a supported GPU was found.
type GPUCheck struct {
	Source counters.GPUSource
}

func (c *GPUCheck) Name() string     { return "gpu" }
func (c *GPUCheck) Category() string { return CategoryGPU }

func (c *GPUCheck) Run(ctx context.Context) CheckResult {
	if c.Source == nil || !c.Source.Available() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No supported GPU found, GPU panel hidden",
			Suggestion: "GPU metrics need an NVIDIA driver with nvidia-smi on PATH",
		}
	}

	gpu, err := c.Source.Query(ctx)
	if err != nil || gpu == nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("GPU found but not readable: %v", err),
			Suggestion: "Run nvidia-smi by hand to see the driver's error",
		}
	}

	msg := fmt.Sprintf("%s, %.0f%% busy", gpu.Name, gpu.UtilizationPercent)
	if gpu.TemperatureCelsius != nil {
		msg += fmt.Sprintf(", %.0f°C", *gpu.TemperatureCelsius)
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: msg}
}

func (c *GPUCheck) Fix() error { return nil }

// ClipboardCheck reports whether reports can be copied to the clipboard.
type ClipboardCheck struct {
	Available func() bool
}

func (c *ClipboardCheck) Name() string     { return "clipboard" }
func (c *ClipboardCheck) Category() string { return CategoryOutputs }

func (c *ClipboardCheck) Run(ctx context.Context) CheckResult {
	if !c.Available() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No clipboard utility found, copy is disabled",
			Suggestion: "Install xclip, xsel, or wl-clipboard, or export reports to a file",
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: "Clipboard available"}
}

func (c *ClipboardCheck) Fix() error { return nil }

// ServeAddrCheck reports whether `sysmon serve` can bind its address.
type ServeAddrCheck struct {
	Addr       string
	IsLoopback func(addr string) bool
	// Listen defaults to net.Listen.
	Listen func(network, addr string) (net.Listener, error)
}

func (c *ServeAddrCheck) Name() string     { return "serve_addr" }
func (c *ServeAddrCheck) Category() string { return CategoryOutputs }

func (c *ServeAddrCheck) Run(ctx context.Context) CheckResult {
	listen := c.Listen
	if listen == nil {
		listen = net.Listen
	}

	ln, err := listen("tcp", c.Addr)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Web view cannot listen on %s: %v", c.Addr, err),
			Suggestion: "Pick a free address with 'sysmon config set serve.addr 127.0.0.1:<port>'",
		}
	}
	ln.Close()

	if c.IsLoopback != nil && !c.IsLoopback(c.Addr) {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Web view listens on %s, reachable from other hosts without authentication", c.Addr),
			Suggestion: "Use a loopback address such as 127.0.0.1:8765 unless the network is trusted",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Web view address %s is free", c.Addr),
	}
}

func (c *ServeAddrCheck) Fix() error { return nil }
