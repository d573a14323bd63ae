package driving

import (
	"image"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

// InkService is the ink engine: stroke capture, history, node selection
// and editing, and recognition.
//
// Implementations are not safe for concurrent use. Every method must be
// called from the goroutine that owns the service, which is also where
// renderer notifications and asynchronous completions are delivered.
type InkService interface {
	// BeginStroke starts a new stroke at the given point.
	BeginStroke(at domain.Point)

	// ExtendStroke feeds one pointer sample into the current stroke and
	// returns the region that needs redrawing. When final is true the stroke
	// is committed to the history and recognition is triggered.
	ExtendStroke(to, previous domain.Point, final bool) domain.Rect

	// Buffer returns the stroke currently being drawn, if any.
	Buffer() (domain.Path, bool)

	// Undo steps the history back one unit and returns its padded frame.
	// Returns false when there is nothing to undo.
	Undo() (domain.Rect, bool)

	// Redo steps the history forward one unit and returns its padded frame.
	// Returns false when there is nothing to redo.
	Redo() (domain.Rect, bool)

	// History reports undo/redo availability.
	History() domain.History

	// EffectiveInk returns the visible ink after replaying the committed history.
	EffectiveInk() []domain.Ink

	// SelectAt selects the node under p, cycling through overlapping nodes
	// on repeated calls. Returns false and clears the selection when no
	// node is under p.
	SelectAt(p domain.Point) (domain.Node, bool)

	// ClearSelection deselects the current node.
	ClearSelection()

	// RemoveSelected removes the selected node's ink and returns the node.
	RemoveSelected() (domain.Node, bool)

	// ReplaceSelected replaces the selected node's ink with a single printed
	// character. Returns false when nothing is selected or ch is not exactly
	// one character.
	ReplaceSelected(ch string) (domain.Replacement, bool)

	// SelectedCandidates returns the single-character candidates of the
	// selected node.
	SelectedCandidates() []string

	// ApplyCandidate applies the candidate picker's choice to the selected node.
	// Returns true if the ink changed.
	ApplyCandidate(choice domain.CandidateChoice) bool

	// Nodes returns the current nodes resolved against the effective ink.
	Nodes() []domain.Node

	// SelectedIndex returns the index of the selected node.
	SelectedIndex() (int, bool)

	// LaTeX returns the text of the last successful recognition.
	LaTeX() string

	// Pending reports whether a recognition request is outstanding.
	Pending() bool

	// Process sends the effective ink to the recognizer.
	Process()

	// Load replaces the history with units, all committed, and reprocesses.
	Load(units []domain.Ink) error

	// Snapshot returns a copy of the ink log.
	Snapshot() domain.InkLog

	// Restore replaces the ink log, keeping its history cursor, and reprocesses.
	Restore(log domain.InkLog) error

	// Settings returns the canvas settings in effect.
	Settings() domain.CanvasSettings

	// SetSettings changes the canvas settings.
	SetSettings(settings domain.CanvasSettings) error

	// PreviewSelected renders the selected node on a worker goroutine and
	// delivers the image to done on the owner goroutine.
	PreviewSelected(done func(image.Image, error)) error
}
