package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Action completed
	SymbolFail     = "✗" // Action failed
	SymbolPending  = "○" // No data yet
	SymbolComplete = "●" // Live reading
	SymbolAlert    = "▲" // Threshold exceeded
	SymbolUp       = "↑" // Transmit
	SymbolDown     = "↓" // Receive
)
