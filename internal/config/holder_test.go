package config

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolderSetValidates(t *testing.T) {
	h := NewHolder(DefaultSettings(), "")

	bad := DefaultSettings()
	bad.ProcessCount = 0
	require.Error(t, h.Set(bad))
	assert.Equal(t, 15, h.Settings().ProcessCount)

	good := DefaultSettings()
	good.ProcessCount = 5
	require.NoError(t, h.Set(good))
	assert.Equal(t, 5, h.Settings().ProcessCount)
}

func TestHolderUpdate(t *testing.T) {
	h := NewHolder(DefaultSettings(), "")

	next, err := h.Update(func(s *Settings) { s.NotificationsEnabled = !s.NotificationsEnabled })
	require.NoError(t, err)
	assert.False(t, next.NotificationsEnabled)
	assert.False(t, h.Settings().NotificationsEnabled)

	_, err = h.Update(func(s *Settings) { s.RefreshIntervalSeconds = -1 })
	require.Error(t, err)
	assert.Equal(t, 2, h.Settings().RefreshIntervalSeconds)
}

func TestHolderConcurrentUpdates(t *testing.T) {
	h := NewHolder(DefaultSettings(), "")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.Update(func(s *Settings) { s.ProcessCount++ })
			_ = h.Settings()
		}()
	}
	wg.Wait()
	assert.Equal(t, 35, h.Settings().ProcessCount)
}

func TestHolderSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	h := NewHolder(DefaultSettings(), path)
	assert.Equal(t, path, h.Path())

	_, err := h.Update(func(s *Settings) { s.DarkTheme = false })
	require.NoError(t, err)
	require.NoError(t, h.Save())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.False(t, loaded.DarkTheme)
}

func TestHolderPathDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	h := NewHolder(DefaultSettings(), "")
	assert.Equal(t, DefaultPath(), h.Path())
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "cpu_threshold: 60\n")
	h := NewHolder(DefaultSettings(), path)

	require.NoError(t, Reload(path, h))
	assert.Equal(t, 60.0, h.Settings().CPUThreshold)

	writeFile(t, dir, "config.yaml", "cpu_threshold: 500\n")
	require.Error(t, Reload(path, h))
	assert.Equal(t, 60.0, h.Settings().CPUThreshold, "invalid edit keeps last good settings")
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "process_count: 10\n")
	h := NewHolder(DefaultSettings(), path)
	require.NoError(t, Reload(path, h))

	require.NoError(t, Watch(path, h, logger.Noop()))
	writeFile(t, dir, "config.yaml", "process_count: 12\n")

	assert.Eventually(t, func() bool {
		return h.Settings().ProcessCount == 12
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatchRequiresPath(t *testing.T) {
	err := Watch("", NewHolder(DefaultSettings(), ""), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No config file to watch")
}
