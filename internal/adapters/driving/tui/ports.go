// Package tui provides an interactive terminal canvas for mathink.
// It implements a driving adapter following hexagonal architecture principles.
//
// Strokes are drawn with the mouse. The engine is owned by the Bubble Tea
// program goroutine: asynchronous completions arrive as messages.Dispatched
// and run inside Update.
package tui

import (
	"github.com/custodia-labs/mathink/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Ink is the engine. It must only be used from the program goroutine.
	Ink driving.InkService

	// Sessions saves the canvas. Optional.
	Sessions driving.SessionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Ink == nil {
		return ErrMissingInkService
	}
	return nil
}
