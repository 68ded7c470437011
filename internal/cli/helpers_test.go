package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/counters"
	countertest "github.com/rileyhilliard/sysmon/internal/counters/testing"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/sampler"
)

// isolate runs the test in an empty working directory with an empty HOME,
// so config discovery only sees files the test writes. It returns the
// working directory.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(dir)

	prevConfig := configPath
	configPath = ""
	t.Cleanup(func() { configPath = prevConfig })

	return dir
}

// useFakeCounters replaces the host reader and GPU detection with fakes and
// removes the sampler warm-up.
func useFakeCounters(t *testing.T, reader *countertest.FakeReader) {
	t.Helper()

	prevReader, prevGPU, prevOpts := newReader, detectGPU, samplerOptions
	t.Cleanup(func() {
		newReader, detectGPU, samplerOptions = prevReader, prevGPU, prevOpts
	})

	newReader = func(ctx context.Context, log logger.Logger) (counters.Reader, error) {
		return reader, nil
	}
	detectGPU = func(ctx context.Context, log logger.Logger) counters.GPUSource {
		return counters.Unavailable{}
	}
	samplerOptions = []sampler.Option{sampler.WithWarmup(0)}
}

// writeConfig writes a config file into dir and returns its path.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".sysmon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
