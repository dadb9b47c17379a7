package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Operation completed successfully
	SymbolFail    = "✗" // Operation failed
	SymbolWarn    = "⚠" // Something to look at, not fatal
	SymbolOnline  = "●" // Peer handshaked recently
	SymbolOffline = "○" // Peer silent or never contacted
)
