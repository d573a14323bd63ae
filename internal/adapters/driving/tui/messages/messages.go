// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/mathink/internal/core/domain"
)

// Dispatched carries engine work that must run on the program goroutine.
type Dispatched struct {
	Fn func()
}

// SettingsChanged is sent when the configuration file changes on disk.
type SettingsChanged struct {
	Canvas domain.CanvasSettings
}

// SessionSaved is sent when a save finishes.
type SessionSaved struct {
	Session *domain.Session
	Err     error
}

// ErrorOccurred is sent when an error occurs.
type ErrorOccurred struct {
	Err error
}

// Mode identifies what pointer input does.
type Mode int

const (
	// ModeDraw captures strokes.
	ModeDraw Mode = iota
	// ModeSelect hit-tests nodes.
	ModeSelect
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeSelect:
		return "select"
	default:
		return "unknown"
	}
}
