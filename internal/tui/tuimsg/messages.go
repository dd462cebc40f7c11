// Package tuimsg defines the messages scenes send to the root TUI model.
// It is separate from package tui so scenes can emit them without an import
// cycle.
package tuimsg

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/shopmodel/internal/breakeven"
)

// PresetSelectedMsg asks the root model to start again from a preset
type PresetSelectedMsg struct {
	Name string
}

// ParameterChangedMsg carries a new value for one assumption field
type ParameterChangedMsg struct {
	Key   string
	Value decimal.Decimal
}

// ResetMsg restores the current preset's values
type ResetMsg struct{}

// ExportRequestedMsg asks for the current run to be written as CSV
type ExportRequestedMsg struct{}

// ExportCompleteMsg reports the outcome of an export
type ExportCompleteMsg struct {
	Path string
	Err  error
}

// SolveRequestedMsg asks for a break-even sweep at the given target profit
type SolveRequestedMsg struct {
	Target decimal.Decimal
}

// SolveCompleteMsg carries a finished sweep
type SolveCompleteMsg struct {
	Result *breakeven.SweepResult
	Err    error
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
