package mcp

import (
	"github.com/custodia-labs/mathink/internal/core/ports/driving"
)

// Executor runs functions on the goroutine that owns the ink service.
// services.Loop satisfies it.
type Executor interface {
	Do(fn func()) error
}

// Ports aggregates the dependencies of the MCP server.
type Ports struct {
	// Ink is the engine. Every call goes through Loop.
	Ink driving.InkService

	// Loop owns Ink. It must also be the engine's dispatcher.
	Loop Executor

	// Sessions saves and loads canvases. Optional.
	Sessions driving.SessionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ink == nil {
		return ErrMissingInkService
	}
	if p.Loop == nil {
		return ErrMissingExecutor
	}
	return nil
}
