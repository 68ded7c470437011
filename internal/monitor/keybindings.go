package monitor

import (
	tea "github.com/charmbracelet/bubbletea"
)

// SortOrder defines how the process table is ordered.
type SortOrder int

const (
	SortByMemory SortOrder = iota
	SortByCPU
	SortByPID
	SortByName
)

// String returns a human-readable label for the sort order.
func (s SortOrder) String() string {
	switch s {
	case SortByMemory:
		return "memory"
	case SortByCPU:
		return "CPU"
	case SortByPID:
		return "PID"
	case SortByName:
		return "name"
	default:
		return "memory"
	}
}

// Next cycles to the next sort order.
func (s SortOrder) Next() SortOrder {
	return SortOrder((int(s) + 1) % 4)
}

// Tab is one page of the dashboard.
type Tab int

const (
	TabOverview Tab = iota
	TabProcesses
	TabDisks
	TabNetwork
	TabAlerts
	TabSystem
	tabCount
)

// String returns the tab's title.
func (t Tab) String() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabProcesses:
		return "Processes"
	case TabDisks:
		return "Disks"
	case TabNetwork:
		return "Network"
	case TabAlerts:
		return "Alerts"
	case TabSystem:
		return "System"
	default:
		return "Overview"
	}
}

// Next cycles forward through the tabs.
func (t Tab) Next() Tab {
	return Tab((int(t) + 1) % int(tabCount))
}

// Prev cycles backward through the tabs.
func (t Tab) Prev() Tab {
	return Tab((int(t) + int(tabCount) - 1) % int(tabCount))
}

// Key bindings as constants for consistency.
const (
	KeyQuit          = "q"
	KeyQuitAlt       = "ctrl+c"
	KeyReset         = "r"
	KeyExport        = "e"
	KeyCopy          = "c"
	KeySystemInfo    = "i"
	KeyNotifications = "n"
	KeySave          = "w"
	KeyCycleSort     = "s"
	KeyNextTab       = "tab"
	KeyPrevTab       = "shift+tab"
	KeyCollapse      = "esc"
	KeyToggleHelp    = "?"
)

// tabKeys jump straight to a tab.
var tabKeys = map[string]Tab{
	"1": TabOverview,
	"2": TabProcesses,
	"3": TabDisks,
	"4": TabNetwork,
	"5": TabAlerts,
	"6": TabSystem,
}

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	// If help is showing, Esc closes it
	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	if tab, ok := tabKeys[key]; ok {
		m.setTab(tab)
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyNextTab:
		m.setTab(m.tab.Next())
		return true, nil

	case KeyPrevTab:
		m.setTab(m.tab.Prev())
		return true, nil

	case KeyCollapse:
		m.setTab(TabOverview)
		return true, nil

	case KeyReset:
		m.sampler.Reset()
		return true, m.flash("Statistics reset")

	case KeySystemInfo:
		m.sampler.RefreshSystemInfo()
		return true, m.flash("Refreshing system info")

	case KeyExport:
		return true, m.exportCmd()

	case KeyCopy:
		return true, m.copyCmd()

	case KeyNotifications:
		return true, m.toggleNotificationsCmd()

	case KeySave:
		return true, m.saveSettingsCmd()

	case KeyCycleSort:
		m.sortOrder = m.sortOrder.Next()
		m.refreshViewport()
		return true, nil
	}

	return false, nil
}
