package config

import "sync"

// Provider hands out the current settings. The sampler reads it once per
// tick, so changes apply from the next tick on.
type Provider interface {
	Settings() Settings
}

// Holder is the concurrency-safe Provider shared by the sampler, the
// presenters, and the config file watcher.
type Holder struct {
	mu       sync.RWMutex
	settings Settings
	path     string
}

// NewHolder creates a holder seeded with s. path is where Save writes; an
// empty path means DefaultPath.
func NewHolder(s Settings, path string) *Holder {
	return &Holder{settings: s, path: path}
}

// Settings returns a copy of the current settings.
func (h *Holder) Settings() Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settings
}

// Path returns the file Save writes to.
func (h *Holder) Path() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.path == "" {
		return DefaultPath()
	}
	return h.path
}

// Set replaces the settings if they validate.
func (h *Holder) Set(s Settings) error {
	if err := Validate(s); err != nil {
		return err
	}
	h.mu.Lock()
	h.settings = s
	h.mu.Unlock()
	return nil
}

// Update applies fn to a copy of the current settings and stores the result
// if it validates. The read-modify-write is atomic with respect to other
// Update and Set calls.
func (h *Holder) Update(fn func(*Settings)) (Settings, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.settings
	fn(&next)
	if err := Validate(next); err != nil {
		return h.settings, err
	}
	h.settings = next
	return next, nil
}

// Save persists the current settings to Path.
func (h *Holder) Save() error {
	return Save(h.Path(), h.Settings())
}
