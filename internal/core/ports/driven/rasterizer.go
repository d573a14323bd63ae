package driven

import (
	"image"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

// InkRasterizer draws ink into images.
// Implementations must be safe to call from worker goroutines.
type InkRasterizer interface {
	// RenderNode draws a node preview: selection background, strokes and glyphs,
	// cropped to the node frame.
	RenderNode(node domain.Node, settings domain.CanvasSettings) (image.Image, error)

	// RenderInk draws all of ink onto one image covering its frame.
	RenderInk(ink []domain.Ink, settings domain.CanvasSettings) (image.Image, error)
}
