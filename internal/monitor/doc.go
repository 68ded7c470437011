// Package monitor implements the full-screen TUI dashboard for local host
// metrics.
//
// The dashboard never samples anything itself. A sampler goroutine publishes
// snapshots to a store; the dashboard polls that store on its own timer and
// redraws whatever it finds, so a slow terminal never delays sampling.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds UI state (active tab, sort order, last snapshot, layout)
//   - Update: Processes messages (keystrokes, poll ticks, flash messages)
//   - View: Renders the current state to a string for display
//
// # Message Flow
//
//  1. tickMsg fires every DefaultPollInterval
//  2. The model copies the latest snapshot out of the store
//  3. View() re-renders the active tab from that copy
//
// Until the first snapshot arrives the body shows a warm-up spinner.
//
// # Layout Modes
//
// The overview adapts to terminal width with four layout modes:
//
//	LayoutMinimal  (<80 cols)  - Numbers only, no graphs
//	LayoutCompact  (80-120)    - One card per row, inline sparklines
//	LayoutStandard (120-160)   - Two cards per row, braille graphs
//	LayoutWide     (160+)      - Three cards per row
//
// The other tabs render full width into a scrollable viewport.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C    - Quit
//	Tab, 1-6     - Switch page
//	s            - Cycle process sort (memory/CPU/PID/name)
//	r            - Reset history and the alert log
//	e            - Export a JSON report
//	c            - Copy a text report to the clipboard
//	i            - Refresh system info
//	n            - Toggle alerts
//	w            - Save settings
//	Esc          - Back to overview
//	?            - Toggle help overlay
package monitor
