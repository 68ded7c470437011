package monitor

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/export"
)

// exportCmd writes the current snapshot as a JSON report.
func (m Model) exportCmd() tea.Cmd {
	snap := m.source.Read()
	dir, at := m.exportDir, m.now()
	log := m.log
	return func() tea.Msg {
		path, err := export.WriteFile(dir, snap, export.FormatJSON, at)
		if err != nil {
			log.Warn("[monitor] export failed: %v", err)
			return statusMsg{text: "Export failed", err: true}
		}
		return statusMsg{text: "Report saved to " + path}
	}
}

// copyCmd puts the text report on the clipboard.
func (m Model) copyCmd() tea.Cmd {
	snap := m.source.Read()
	log := m.log
	return func() tea.Msg {
		if err := export.CopyToClipboard(snap, export.FormatText); err != nil {
			log.Warn("[monitor] copy failed: %v", err)
			return statusMsg{text: "Clipboard unavailable", err: true}
		}
		return statusMsg{text: "Report copied to clipboard"}
	}
}

// toggleNotificationsCmd flips alert evaluation. The sampler picks the
// change up on its next tick; nothing is written until w.
func (m Model) toggleNotificationsCmd() tea.Cmd {
	updated, err := m.settings.Update(func(s *config.Settings) {
		s.NotificationsEnabled = !s.NotificationsEnabled
	})
	if err != nil {
		return func() tea.Msg { return statusMsg{text: "Cannot change alerts", err: true} }
	}
	state := "off"
	if updated.NotificationsEnabled {
		state = "on"
	}
	return m.flash(fmt.Sprintf("Alerts %s (w to save)", state))
}

// saveSettingsCmd writes the current settings to the config file.
func (m Model) saveSettingsCmd() tea.Cmd {
	settings := m.settings
	log := m.log
	return func() tea.Msg {
		if err := settings.Save(); err != nil {
			log.Warn("[monitor] save failed: %v", err)
			return statusMsg{text: "Settings not saved", err: true}
		}
		return statusMsg{text: "Settings saved"}
	}
}
