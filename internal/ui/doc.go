// Package ui provides the terminal building blocks shared by the dashboard,
// the console view, and the text report.
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility. Metric values are
// colored by band:
//
//	usage        <50% green, <75% yellow, else red
//	temperature  <70C green, <85C yellow, else red
//	process RSS  >200 MB yellow, >500 MB red
//
// Use DisableColors() to switch to monochrome output.
//
// # Components
//
//	RenderBar       - [████░░░░]  50.0% usage bars
//	Sparkline       - ▁▂▄█ one-row history, percent or byte-rate scaled
//	BrailleChart    - multi-row braille area chart of the same series
//	GradientBar     - per-cell banded bar for core usage
//	NewTable        - Bubbles table with the shared styling
//	RenderSection   - titled key/value blocks for text reports
//	FormatBytes     - human-readable sizes and rates
package ui
