package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutMinimal is for terminals < 80 columns: numbers only, no graphs
	LayoutMinimal LayoutMode = iota
	// LayoutCompact is for terminals 80-120 columns: one card per row, inline sparklines
	LayoutCompact
	// LayoutStandard is for terminals 120-160 columns: two cards per row with braille graphs
	LayoutStandard
	// LayoutWide is for terminals 160+ columns: three cards per row
	LayoutWide
)

// Width breakpoints for layout modes
const (
	BreakpointCompact  = 80
	BreakpointStandard = 120
	BreakpointWide     = 160
)

// DefaultPollInterval is how often the dashboard reads the snapshot store.
// It is independent of the sampler's tick; redraws between ticks show the
// same snapshot.
const DefaultPollInterval = 250 * time.Millisecond

// statusDuration is how long a flash message stays in the footer.
const statusDuration = 3 * time.Second

// Source is where the dashboard reads snapshots from.
type Source interface {
	Read() snapshot.Snapshot
}

// Controller is the part of the sampler the dashboard can poke.
type Controller interface {
	Reset()
	RefreshSystemInfo()
}

// SettingsStore is the mutable settings the dashboard toggles and saves.
// *config.Holder implements it.
type SettingsStore interface {
	Settings() config.Settings
	Update(fn func(*config.Settings)) (config.Settings, error)
	Save() error
}

// Model is the Bubble Tea model for the monitoring dashboard.
type Model struct {
	source   Source
	sampler  Controller
	settings SettingsStore
	log      logger.Logger
	now      func() time.Time

	pollInterval time.Duration
	exportDir    string

	snap      snapshot.Snapshot
	width     int
	height    int
	tab       Tab
	sortOrder SortOrder
	showHelp  bool
	quitting  bool

	// Warm-up spinner, shown until the first snapshot arrives
	spinner spinner.Model

	// Scrollable body for every tab except the overview
	viewport      viewport.Model
	viewportReady bool

	status    string
	statusErr bool
	statusSeq int
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithClock replaces time.Now, used for report file names.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithPollInterval changes how often the store is read.
func WithPollInterval(d time.Duration) Option {
	return func(m *Model) { m.pollInterval = d }
}

// WithExportDir sets where the export key writes reports. Empty means the
// working directory.
func WithExportDir(dir string) Option {
	return func(m *Model) { m.exportDir = dir }
}

// tickMsg signals it is time to read the store again.
type tickMsg time.Time

// statusMsg sets the footer flash message.
type statusMsg struct {
	text string
	err  bool
}

// clearStatusMsg expires a flash message unless a newer one replaced it.
type clearStatusMsg struct {
	seq int
}

// NewModel creates a dashboard reading from source. sampler receives reset
// and system-info requests; settings backs the n and w keys.
func NewModel(source Source, sampler Controller, settings SettingsStore, opts ...Option) Model {
	m := Model{
		source:       source,
		sampler:      sampler,
		settings:     settings,
		log:          logger.Default(),
		now:          time.Now,
		pollInterval: DefaultPollInterval,
		spinner:      ui.NewSpinner(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.snap = source.Read()
	return m
}

// Init starts the poll timer and the warm-up spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.spinner.Tick)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}
		if m.tab != TabOverview && m.viewportReady {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Reserve space for header, tabs, and footer
		headerHeight := 3
		footerHeight := 2
		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.viewportReady {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.viewportReady = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.refreshViewport()

	case tickMsg:
		m.snap = m.source.Read()
		m.refreshViewport()
		return m, m.tickCmd()

	case spinner.TickMsg:
		if m.snap.Ready() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statusMsg:
		m.statusSeq++
		m.status = msg.text
		m.statusErr = msg.err
		seq := m.statusSeq
		return m, tea.Tick(statusDuration, func(time.Time) tea.Msg {
			return clearStatusMsg{seq: seq}
		})

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// Tab returns the active tab.
func (m Model) Tab() Tab {
	return m.tab
}

// Snapshot returns the snapshot currently on screen.
func (m Model) Snapshot() snapshot.Snapshot {
	return m.snap
}

// Status returns the footer flash message, if any.
func (m Model) Status() string {
	return m.status
}

// LayoutMode picks a layout from the terminal width.
func (m Model) LayoutMode() LayoutMode {
	switch {
	case m.width >= BreakpointWide:
		return LayoutWide
	case m.width >= BreakpointStandard:
		return LayoutStandard
	case m.width >= BreakpointCompact:
		return LayoutCompact
	default:
		return LayoutMinimal
	}
}

func (m *Model) setTab(t Tab) {
	m.tab = t
	if m.viewportReady {
		m.viewport.GotoTop()
	}
	m.refreshViewport()
}

// refreshViewport re-renders the active tab into the viewport, keeping the
// scroll position.
func (m *Model) refreshViewport() {
	if !m.viewportReady || m.tab == TabOverview {
		return
	}
	m.viewport.SetContent(m.renderTabBody())
}

// tickCmd returns a command that sends a tick after the poll interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// flash returns a command that shows text in the footer.
func (m Model) flash(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}
