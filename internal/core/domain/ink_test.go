package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineStroke(from, to Point) Stroke {
	var p Path
	p.MoveTo(from)
	p.LineTo(to)
	return NewStroke(p)
}

func TestInkKind_IsValid(t *testing.T) {
	tests := []struct {
		kind     InkKind
		expected bool
	}{
		{kind: InkKindStroke, expected: true},
		{kind: InkKindCharacter, expected: true},
		{kind: InkKindRemoval, expected: true},
		{kind: InkKind(""), expected: false},
		{kind: InkKind("scribble"), expected: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.IsValid())
		})
	}
}

func TestStroke_FrameIncludesControlPoints(t *testing.T) {
	var p Path
	p.MoveTo(Point{X: 0, Y: 0})
	p.QuadTo(Point{X: 10, Y: 0}, Point{X: 5, Y: -8})

	s := NewStroke(p)

	assert.Equal(t, InkKindStroke, s.Kind())
	assert.Equal(t, Rect{X: 0, Y: -8, Width: 10, Height: 8}, s.Frame())
}

func TestNewStroke_CopiesPath(t *testing.T) {
	var p Path
	p.MoveTo(Point{X: 1, Y: 1})
	s := NewStroke(p)

	p.Segments[0].To = Point{X: 99, Y: 99}

	assert.Equal(t, Point{X: 1, Y: 1}, s.Path.Segments[0].To)
}

func TestPath_Points(t *testing.T) {
	var p Path
	p.MoveTo(Point{X: 0, Y: 0})
	p.QuadTo(Point{X: 2, Y: 2}, Point{X: 1, Y: 0})
	p.LineTo(Point{X: 3, Y: 3})

	assert.Equal(t, []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 2}, {X: 3, Y: 3}}, p.Points())

	cur, ok := p.CurrentPoint()
	require.True(t, ok)
	assert.Equal(t, Point{X: 3, Y: 3}, cur)

	_, ok = Path{}.CurrentPoint()
	assert.False(t, ok)
}

func TestIsVisible(t *testing.T) {
	assert.True(t, IsVisible(lineStroke(Point{}, Point{X: 1, Y: 1})))
	assert.True(t, IsVisible(CharacterReplacement{Character: "x"}))
	assert.False(t, IsVisible(RemovalMarker{Removed: []int{0}}))
}

func TestFrameOf(t *testing.T) {
	units := []Ink{
		lineStroke(Point{X: 0, Y: 0}, Point{X: 10, Y: 10}),
		CharacterReplacement{Character: "2", Bounds: Rect{X: 20, Y: 0, Width: 10, Height: 30}},
	}

	frame, ok := FrameOf(units)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 30, Height: 30}, frame)

	_, ok = FrameOf(nil)
	assert.False(t, ok)
}

func TestInkLog_Committed(t *testing.T) {
	log := InkLog{
		Units: []Ink{
			lineStroke(Point{}, Point{X: 1, Y: 1}),
			lineStroke(Point{}, Point{X: 2, Y: 2}),
		},
		HistoryIndex: 1,
	}
	assert.Len(t, log.Committed(), 1)
}

func TestIsSingleCharacter(t *testing.T) {
	assert.True(t, IsSingleCharacter("x"))
	assert.True(t, IsSingleCharacter("√"))
	assert.False(t, IsSingleCharacter(""))
	assert.False(t, IsSingleCharacter("sin"))
}
