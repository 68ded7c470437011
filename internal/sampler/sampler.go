// Package sampler runs the collection loop: read counters, derive rates and
// percentages, update history, evaluate alerts, and publish one consistent
// snapshot per tick.
package sampler

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/sysmon/internal/alerts"
	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/counters"
	"github.com/rileyhilliard/sysmon/internal/history"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/metrics"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
)

// DefaultWarmup is the pause between the baseline read and the first tick,
// so the first CPU reading covers a real interval.
const DefaultWarmup = 500 * time.Millisecond

// Publisher receives each finished snapshot. *snapshot.Store implements it.
type Publisher interface {
	Publish(snapshot.Snapshot) error
}

// Sampler owns the history rings, the alert log, and the previous network
// counters. Only Run's goroutine touches them; Reset and RefreshSystemInfo
// are the only methods safe to call from elsewhere.
type Sampler struct {
	reader   counters.Reader
	gpu      counters.GPUSource
	settings config.Provider
	log      logger.Logger
	now      func() time.Time
	warmup   time.Duration
	interval time.Duration

	start   time.Time
	prevNet map[string]counters.InterfaceCounters
	prevAt  time.Time

	info        metrics.SystemInfo
	infoLoaded  bool
	infoRequest atomic.Bool

	history  *history.Set
	alertLog *alerts.Log
	seq      uint64
	last     snapshot.Snapshot

	resetCh chan struct{}
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithLogger sets the logger. Defaults to logger.Default().
func WithLogger(l logger.Logger) Option {
	return func(s *Sampler) { s.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Sampler) { s.now = now }
}

// WithWarmup sets the delay before the first tick.
func WithWarmup(d time.Duration) Option {
	return func(s *Sampler) { s.warmup = d }
}

// WithInterval fixes the tick interval instead of reading it from settings
// each tick.
func WithInterval(d time.Duration) Option {
	return func(s *Sampler) { s.interval = d }
}

// New creates a sampler. History and alert log sizes come from the settings
// at construction time.
func New(reader counters.Reader, gpu counters.GPUSource, settings config.Provider, opts ...Option) *Sampler {
	if gpu == nil {
		gpu = counters.Unavailable{}
	}
	s := &Sampler{
		reader:   reader,
		gpu:      gpu,
		settings: settings,
		log:      logger.Default(),
		now:      time.Now,
		warmup:   DefaultWarmup,
		prevNet:  make(map[string]counters.InterfaceCounters),
		resetCh:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	cfg := settings.Settings()
	s.history = history.NewSet(cfg.HistoryCapacity)
	s.alertLog = alerts.NewLog(cfg.AlertLogSize)
	s.start = s.now()
	return s
}

// Reset clears history and the alert log at the next loop turn and
// republishes. Repeated calls before then collapse into one.
func (s *Sampler) Reset() {
	select {
	case s.resetCh <- struct{}{}:
	default:
	}
}

// RefreshSystemInfo re-reads system info on the next tick.
func (s *Sampler) RefreshSystemInfo() {
	s.infoRequest.Store(true)
}

// SleepFor returns how long to wait after a tick that took overhead, so
// ticks start interval apart. Never negative.
func SleepFor(interval, overhead time.Duration) time.Duration {
	if d := interval - overhead; d > 0 {
		return d
	}
	return 0
}

// Run samples until ctx is cancelled and returns ctx.Err(). It reads a
// baseline, waits for the warm-up, then ticks. A tick that panics is logged
// and skipped; the loop keeps going.
func (s *Sampler) Run(ctx context.Context, pub Publisher) error {
	s.log.Info("[sampler] starting, warm-up %s", s.warmup)

	if err := s.reader.Refresh(ctx); err != nil && ctx.Err() == nil {
		s.log.Debug("[sampler] baseline refresh failed: %v", err)
	}
	if !s.wait(ctx, s.warmup, pub) {
		return ctx.Err()
	}

	for {
		started := s.now()
		if snap, err := s.tick(ctx); err != nil {
			s.log.Error("[sampler] skipping tick: %v", err)
		} else if err := pub.Publish(snap); err != nil {
			s.log.Warn("[sampler] publish rejected: %v", err)
		}

		if !s.wait(ctx, SleepFor(s.tickInterval(), s.now().Sub(started)), pub) {
			s.log.Info("[sampler] stopped")
			return ctx.Err()
		}
	}
}

// Collect reads a baseline, waits for the warm-up, and returns one snapshot.
// It is the one-shot form of Run.
func (s *Sampler) Collect(ctx context.Context) (snapshot.Snapshot, error) {
	if err := s.reader.Refresh(ctx); err != nil {
		return snapshot.Snapshot{}, err
	}
	timer := time.NewTimer(s.warmup)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return snapshot.Snapshot{}, ctx.Err()
	case <-timer.C:
	}
	return s.tick(ctx)
}

// wait sleeps for d while servicing reset requests. It returns false when
// ctx is cancelled.
func (s *Sampler) wait(ctx context.Context, d time.Duration, pub Publisher) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-s.resetCh:
			s.applyReset(pub)
		case <-timer.C:
			return true
		}
	}
}

func (s *Sampler) applyReset(pub Publisher) {
	s.history.Clear()
	s.alertLog.Clear()
	s.log.Info("[sampler] statistics reset")

	if s.seq == 0 {
		return
	}
	s.seq++
	snap := snapshot.Snapshot{
		Seq:     s.seq,
		Sample:  s.last.Sample,
		History: s.history.Snapshot(),
		Alerts:  s.last.Alerts,
	}
	s.last = snap
	if err := pub.Publish(snap); err != nil {
		s.log.Warn("[sampler] publish after reset rejected: %v", err)
	}
}

func (s *Sampler) tickInterval() time.Duration {
	if s.interval > 0 {
		return s.interval
	}
	return s.settings.Settings().RefreshInterval()
}

// tick produces the next snapshot. Sequence numbers only advance on success.
func (s *Sampler) tick(ctx context.Context) (snap snapshot.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panicked: %v", r)
		}
	}()

	cfg := s.settings.Settings()
	sample := s.sample(ctx, cfg)
	s.history.Push(sample)

	current := alerts.Evaluate(sample, cfg.Thresholds())
	if current == nil {
		current = []alerts.Alert{}
	}
	s.alertLog.Append(current...)

	s.seq++
	snap = snapshot.Snapshot{
		Seq:      s.seq,
		Sample:   sample,
		History:  s.history.Snapshot(),
		Alerts:   current,
		AlertLog: s.alertLog.Entries(),
	}
	s.last = snap
	return snap, nil
}

// Sample refreshes the reader and builds one sample using the current
// settings. Subsystems that fail are left empty.
func (s *Sampler) Sample(ctx context.Context) metrics.Sample {
	return s.sample(ctx, s.settings.Settings())
}

func (s *Sampler) sample(ctx context.Context, cfg config.Settings) metrics.Sample {
	if err := s.reader.Refresh(ctx); err != nil {
		s.log.Debug("[sampler] refresh: %v", err)
	}
	now := s.now()

	out := metrics.Sample{
		Timestamp: metrics.NewTimestamp(s.start, now),
		CPUCores:  []metrics.CoreUsage{},
		Processes: []metrics.Process{},
		Disks:     []metrics.Disk{},
		Network:   []metrics.NetworkInterface{},
	}

	if mem, err := s.reader.Memory(); err != nil {
		s.log.Debug("[sampler] memory: %v", err)
	} else {
		out.Memory = metrics.NewMemory(mem.Total, mem.Used)
	}

	if usage, err := s.reader.CPU(); err != nil {
		s.log.Debug("[sampler] cpu: %v", err)
	} else {
		out.CPUUsagePercent = usage.Aggregate
		for i, pct := range usage.PerCore {
			out.CPUCores = append(out.CPUCores, metrics.CoreUsage{CoreID: i, UsagePercent: pct})
		}
	}

	if gpu, err := s.gpu.Query(ctx); err != nil {
		s.log.Debug("[sampler] gpu: %v", err)
	} else {
		out.GPU = gpu
	}

	if procs, err := s.reader.Processes(); err != nil {
		s.log.Debug("[sampler] processes: %v", err)
	} else {
		all := make([]metrics.Process, 0, len(procs))
		for _, p := range procs {
			all = append(all, metrics.Process{
				PID:         p.PID,
				Name:        p.Name,
				CPUPercent:  p.CPUPercent,
				MemoryBytes: p.MemoryBytes,
				Status:      p.Status,
			})
		}
		out.Processes = metrics.TopProcesses(all, cfg.ProcessCount)
	}

	if disks, err := s.reader.Disks(); err != nil {
		s.log.Debug("[sampler] disks: %v", err)
	} else {
		for _, d := range disks {
			out.Disks = append(out.Disks, metrics.NewDisk(d.Device, d.MountPoint, d.Filesystem, d.Total, d.Available))
		}
	}

	if ifaces, err := s.reader.Network(); err != nil {
		s.log.Debug("[sampler] network: %v", err)
	} else {
		out.Network = s.networkRates(ifaces, now)
	}

	out.SystemInfo = s.systemInfo(ctx)
	return out
}

// networkRates pairs each interface with its previous reading. The first
// reading of an interface, and any reading with no elapsed time, has rate 0.
func (s *Sampler) networkRates(ifaces []counters.InterfaceCounters, now time.Time) []metrics.NetworkInterface {
	elapsed := 0.0
	if !s.prevAt.IsZero() {
		elapsed = now.Sub(s.prevAt).Seconds()
	}

	out := make([]metrics.NetworkInterface, 0, len(ifaces))
	next := make(map[string]counters.InterfaceCounters, len(ifaces))
	for _, iface := range ifaces {
		ni := metrics.NetworkInterface{
			Interface:        iface.Name,
			ReceivedBytes:    iface.BytesRecv,
			TransmittedBytes: iface.BytesSent,
		}
		if prev, ok := s.prevNet[iface.Name]; ok {
			ni.ReceivedRate = metrics.Rate(prev.BytesRecv, iface.BytesRecv, elapsed)
			ni.TransmittedRate = metrics.Rate(prev.BytesSent, iface.BytesSent, elapsed)
		}
		out = append(out, ni)
		next[iface.Name] = iface
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Interface < out[j].Interface })
	s.prevNet = next
	s.prevAt = now
	return out
}

func (s *Sampler) systemInfo(ctx context.Context) metrics.SystemInfo {
	requested := s.infoRequest.Swap(false)
	if s.infoLoaded && !requested {
		return s.info
	}
	info, err := s.reader.SystemInfo(ctx)
	if err != nil {
		s.log.Debug("[sampler] system info: %v", err)
		return s.info
	}
	s.info = info
	s.infoLoaded = true
	return s.info
}
