// Package snapshot holds the single piece of state shared between the
// sampler goroutine and every presenter.
package snapshot

import (
	"errors"
	"slices"
	"sync"

	"github.com/rileyhilliard/sysmon/internal/alerts"
	"github.com/rileyhilliard/sysmon/internal/history"
	"github.com/rileyhilliard/sysmon/internal/metrics"
)

// ErrStale is returned by Publish when the snapshot is not newer than the
// one already visible.
var ErrStale = errors.New("snapshot: sequence not newer than current")

// Snapshot is everything a presenter needs to draw one frame.
type Snapshot struct {
	// Seq increases by one per published tick. Zero means nothing has been
	// published yet.
	Seq      uint64         `json:"seq" yaml:"seq"`
	Sample   metrics.Sample `json:"sample" yaml:"sample"`
	History  history.Series `json:"history" yaml:"history"`
	Alerts   []alerts.Alert `json:"alerts" yaml:"alerts"`
	AlertLog []alerts.Alert `json:"alert_log" yaml:"alert_log"`
}

// Ready reports whether the snapshot came from a real tick.
func (s Snapshot) Ready() bool {
	return s.Seq > 0
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Seq:      s.Seq,
		Sample:   s.Sample.Clone(),
		History:  s.History.Clone(),
		Alerts:   slices.Clone(s.Alerts),
		AlertLog: slices.Clone(s.AlertLog),
	}
}

// Store is a mutex-protected single-slot holder. Publish replaces the whole
// snapshot at once, so readers never see a sample from one tick paired with
// history from another.
type Store struct {
	mu      sync.RWMutex
	current Snapshot

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{subs: make(map[chan struct{}]struct{})}
}

// Publish makes snap visible to readers. The store keeps its own copy.
func (s *Store) Publish(snap Snapshot) error {
	owned := snap.Clone()

	s.mu.Lock()
	if owned.Seq <= s.current.Seq {
		s.mu.Unlock()
		return ErrStale
	}
	s.current = owned
	s.mu.Unlock()

	s.notify()
	return nil
}

// Read returns a private copy of the latest snapshot. The lock is held only
// for the copy, never while the caller renders.
func (s *Store) Read() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Seq returns the sequence of the latest snapshot without copying it.
func (s *Store) Seq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Seq
}

// Subscribe returns a channel that receives a signal after each publish.
// Signals coalesce: a slow reader sees at most one pending wakeup. Call the
// returned function to stop receiving.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, ch)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
