package cli

import (
	"context"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/counters"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/sampler"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
)

// Swapped out in tests.
var (
	newReader = func(ctx context.Context, log logger.Logger) (counters.Reader, error) {
		r, err := counters.NewHostReader(ctx, log)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	detectGPU = func(ctx context.Context, log logger.Logger) counters.GPUSource {
		return counters.DetectGPU(ctx, nil, log)
	}
	samplerOptions []sampler.Option
)

// pipeline is the sampler, its settings, and the store it publishes into.
type pipeline struct {
	holder  *config.Holder
	sampler *sampler.Sampler
	store   *snapshot.Store
	log     logger.Logger
}

// loadSettings resolves the config file, applies per-run flag overrides, and
// validates the result. path is empty when no file was found.
func loadSettings(flags CommonFlags) (config.Settings, string, error) {
	s, path, err := config.LoadOrDefault(configPath)
	if err != nil {
		return config.Settings{}, "", err
	}
	if err := flags.Apply(&s); err != nil {
		return config.Settings{}, "", err
	}
	return s, path, nil
}

// newPipeline builds everything a presenter needs. It fails only when
// settings are invalid or the counters cannot be read at all.
func newPipeline(ctx context.Context, flags CommonFlags, log logger.Logger) (*pipeline, error) {
	settings, path, err := loadSettings(flags)
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Debug("using config %s", path)
	}

	reader, err := newReader(ctx, log)
	if err != nil {
		log.Error("startup failed: counters unavailable")
		return nil, err
	}

	holder := config.NewHolder(settings, path)
	opts := append([]sampler.Option{sampler.WithLogger(log)}, samplerOptions...)
	return &pipeline{
		holder:  holder,
		sampler: sampler.New(reader, detectGPU(ctx, log), holder, opts...),
		store:   snapshot.NewStore(),
		log:     log,
	}, nil
}

// start runs the sampler in the background until ctx is cancelled and, when
// settings came from a file, reloads them on edit. Flag overrides are lost on
// the first reload.
func (p *pipeline) start(ctx context.Context) {
	if path := p.holder.Path(); path != "" {
		if err := config.Watch(path, p.holder, p.log); err != nil {
			p.log.Warn("config reload disabled: %v", err)
		}
	}
	go func() {
		err := p.sampler.Run(ctx, p.store)
		p.log.Debug("sampler exited: %v", err)
	}()
}
