package services

import "github.com/custodia-labs/mathink/internal/core/domain"

// StrokeBuilder smooths raw pointer samples into a quadratic curve path.
//
// Each non-final sample adds a curve through the previous sample to the
// midpoint between the previous and current samples, so consecutive
// curves join smoothly. The final sample curves all the way to the
// pointer position and completes the stroke.
type StrokeBuilder struct {
	path   domain.Path
	active bool
}

// NewStrokeBuilder creates an idle stroke builder.
func NewStrokeBuilder() *StrokeBuilder {
	return &StrokeBuilder{}
}

// Begin starts a new stroke at the given point, discarding any unfinished one.
func (b *StrokeBuilder) Begin(at domain.Point) {
	b.path = domain.Path{}
	b.path.MoveTo(at)
	b.active = true
}

// Extend adds one sample to the stroke.
//
// The returned rect spans to and the path's current point before the
// extension, expanded by padding. When final is true the finished stroke
// is returned and the builder becomes idle. Extending an idle builder
// starts the path at previous.
func (b *StrokeBuilder) Extend(to, previous domain.Point, final bool, padding float64) (domain.Rect, *domain.Stroke) {
	if !b.active {
		b.Begin(previous)
	}

	current, _ := b.path.CurrentPoint()
	dirty := domain.RectFromPoints(to, current).Expand(padding)

	if !final {
		b.path.QuadTo(previous.Midpoint(to), previous)
		return dirty, nil
	}

	b.path.QuadTo(to, previous)
	stroke := domain.NewStroke(b.path)
	b.Reset()
	return dirty, &stroke
}

// Path returns a copy of the stroke in progress.
func (b *StrokeBuilder) Path() (domain.Path, bool) {
	if !b.active {
		return domain.Path{}, false
	}
	return b.path.Clone(), true
}

// Active reports whether a stroke is in progress.
func (b *StrokeBuilder) Active() bool {
	return b.active
}

// Reset discards the stroke in progress.
func (b *StrokeBuilder) Reset() {
	b.path = domain.Path{}
	b.active = false
}
