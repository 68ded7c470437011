package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/spf13/viper"
)

// Watch reloads path into h whenever the file changes on disk. Edits that
// fail to parse or validate are logged and ignored, so a running monitor
// keeps its last good settings.
func Watch(path string, h *Holder, log logger.Logger) error {
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file to watch",
			"Run 'sysmon config init' to create one")
	}
	if log == nil {
		log = logger.Default()
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file for watching",
			"Check the file exists and is valid YAML")
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Debug("config file changed: %s (%s)", e.Name, e.Op)
		if err := Reload(path, h); err != nil {
			log.Warn("ignoring config change: %v", err)
			return
		}
		log.Info("reloaded settings from %s", path)
	})
	v.WatchConfig()
	return nil
}

// Reload loads and validates path, then stores the result in h.
func Reload(path string, h *Holder) error {
	s, err := Load(path)
	if err != nil {
		return err
	}
	return h.Set(s)
}
