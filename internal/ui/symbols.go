package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "◉" // Request succeeded
	SymbolFail    = "✕" // Request failed
	SymbolPending = "◇" // Waiting on the backend
	SymbolAlert   = "▲" // Active alert
	SymbolOn      = "●" // Channel enabled
	SymbolOff     = "○" // Channel disabled
)

// OnOff renders a boolean setting as a symbol plus label.
func OnOff(enabled bool) string {
	if enabled {
		return SuccessStyle.Render(SymbolOn + " on")
	}
	return MutedStyle.Render(SymbolOff + " off")
}
