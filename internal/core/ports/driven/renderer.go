package driven

import "github.com/custodia-labs/mathink/internal/core/domain"

// Renderer receives engine notifications on the owner goroutine.
// The engine holds it without owning it and never closes it.
type Renderer interface {
	// DidUpdateHistory reports the new undo/redo availability.
	DidUpdateHistory(history domain.History)

	// DidParse reports a successful recognition with its LaTeX text.
	DidParse(latex string)

	// DidFailToParse reports that recognition failed. Nodes were cleared.
	DidFailToParse(err error)

	// DidLoad reports that the ink log was replaced wholesale.
	DidLoad(ink []domain.Ink)

	// DidScratchOut reports ink removed by a recognizer scratch-out gesture.
	DidScratchOut(dirty domain.Rect)
}
