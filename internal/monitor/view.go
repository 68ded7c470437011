package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch {
	case !m.snap.Ready():
		b.WriteString(m.renderWarmup())
	case m.tab == TabOverview:
		b.WriteString(m.renderOverview())
	case m.viewportReady:
		b.WriteString(m.viewport.View())
	default:
		b.WriteString(m.renderTabBody())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar with host and sample time.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("sysmon")

	var parts []string
	if !m.snap.Ready() {
		parts = append(parts, "waiting for first sample")
	} else {
		s := m.snap.Sample
		if host := s.SystemInfo.Hostname; host != "" {
			parts = append(parts, host)
		}
		parts = append(parts, s.Timestamp.WallClock)
		switch n := len(m.snap.Alerts); n {
		case 0:
		case 1:
			parts = append(parts, "1 alert")
		default:
			parts = append(parts, fmt.Sprintf("%d alerts", n))
		}
	}

	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(" | " + strings.Join(parts, " | "))

	style := HeaderStyle
	if !m.settings.Settings().DarkTheme {
		style = style.UnsetBackground()
	}
	return style.Render(title + stats)
}

// renderTabs renders the page selector.
func (m Model) renderTabs() string {
	tabs := make([]string, 0, int(tabCount))
	for t := TabOverview; t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == TabAlerts && len(m.snap.Alerts) > 0 {
			label += fmt.Sprintf(" (%d)", len(m.snap.Alerts))
		}
		if t == m.tab {
			tabs = append(tabs, TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderWarmup is shown until the sampler publishes its first snapshot.
func (m Model) renderWarmup() string {
	return "  " + m.spinner.View() + " " + LabelStyle.Render("Initializing System Monitor...")
}

// renderFooter renders the flash message or the keyboard hints.
func (m Model) renderFooter() string {
	if m.status != "" {
		if m.statusErr {
			return FooterStyle.Render(StatusErrorStyle.Render(m.status))
		}
		return FooterStyle.Render(StatusMessageStyle.Render(m.status))
	}

	hints := []string{
		"q quit",
		"tab page",
		"r reset",
		"e export",
		"c copy",
		"? help",
	}
	if m.tab == TabProcesses {
		hints = append(hints, "s sort: "+m.sortOrder.String())
	}
	hints = append(hints, fmt.Sprintf("every %ds", m.settings.Settings().RefreshIntervalSeconds))

	return FooterStyle.Render(strings.Join(hints, " | "))
}

// renderTabBody renders the scrollable content of the active tab.
func (m Model) renderTabBody() string {
	if !m.snap.Ready() {
		return ""
	}
	width := m.contentWidth()
	switch m.tab {
	case TabProcesses:
		return m.renderProcesses(width)
	case TabDisks:
		return m.renderDisks(width)
	case TabNetwork:
		return m.renderNetwork(width)
	case TabAlerts:
		return m.renderAlerts(width)
	case TabSystem:
		return m.renderSystem(width)
	default:
		return m.renderOverview()
	}
}

// contentWidth is the usable width for full-width sections.
func (m Model) contentWidth() int {
	if m.width == 0 {
		return 80
	}
	if w := m.width - 2; w > 40 {
		return w
	}
	return 40
}
