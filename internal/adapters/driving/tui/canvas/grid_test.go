package canvas

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mathink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/mathink/internal/core/domain"
)

func TestNewGrid(t *testing.T) {
	g := NewGrid(4, 3, 0, 0)

	cols, rows := g.Size()
	assert.Equal(t, 4, cols)
	assert.Equal(t, 3, rows)
	assert.Equal(t, domain.Point{X: 5, Y: 10}, g.ToPoint(0, 0))
}

func TestNewGrid_NegativeSize(t *testing.T) {
	g := NewGrid(-1, -1, 10, 20)

	cols, rows := g.Size()
	assert.Zero(t, cols)
	assert.Zero(t, rows)
	assert.Empty(t, g.Plain())
}

func TestGrid_ToCell(t *testing.T) {
	g := NewGrid(4, 3, 10, 20)

	tests := []struct {
		name     string
		p        domain.Point
		col, row int
		ok       bool
	}{
		{"origin", domain.Point{X: 0, Y: 0}, 0, 0, true},
		{"interior", domain.Point{X: 25, Y: 45}, 2, 2, true},
		{"right edge", domain.Point{X: 40, Y: 0}, 4, 0, false},
		{"negative", domain.Point{X: -1, Y: 0}, -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row, ok := g.ToCell(tt.p)
			assert.Equal(t, tt.col, col)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestGrid_ToPointRoundTrip(t *testing.T) {
	g := NewGrid(8, 8, 10, 20)

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			c, r, ok := g.ToCell(g.ToPoint(col, row))
			require.True(t, ok)
			assert.Equal(t, col, c)
			assert.Equal(t, row, r)
		}
	}
}

func TestGrid_DrawPathLine(t *testing.T) {
	g := NewGrid(5, 2, 10, 20)
	var p domain.Path
	p.MoveTo(g.ToPoint(0, 1))
	p.LineTo(g.ToPoint(4, 1))

	g.DrawPath(p)

	assert.Equal(t, "     \n•••••", g.Plain())
}

func TestGrid_DrawPathDiagonal(t *testing.T) {
	g := NewGrid(3, 3, 10, 20)
	var p domain.Path
	p.MoveTo(g.ToPoint(0, 0))
	p.LineTo(g.ToPoint(2, 2))

	g.DrawPath(p)

	assert.Equal(t, "•  \n • \n  •", g.Plain())
}

func TestGrid_DrawPathQuad(t *testing.T) {
	g := NewGrid(5, 3, 10, 20)
	var p domain.Path
	p.MoveTo(g.ToPoint(0, 2))
	p.QuadTo(g.ToPoint(4, 2), g.ToPoint(2, 0))

	g.DrawPath(p)

	assert.Equal(t, Ink, g.At(0, 2).Kind)
	assert.Equal(t, Ink, g.At(4, 2).Kind)
	assert.Equal(t, Ink, g.At(2, 1).Kind)
	assert.Equal(t, Empty, g.At(2, 2).Kind)
}

func TestGrid_DrawPathClipsOutside(t *testing.T) {
	g := NewGrid(2, 1, 10, 20)
	var p domain.Path
	p.MoveTo(domain.Point{X: -50, Y: 5})
	p.LineTo(domain.Point{X: 50, Y: 5})

	g.DrawPath(p)

	assert.Equal(t, "••", g.Plain())
}

func TestGrid_DrawInk(t *testing.T) {
	g := NewGrid(4, 1, 10, 20)
	var p domain.Path
	p.MoveTo(g.ToPoint(0, 0))
	glyph := domain.CharacterReplacement{
		Character: "√",
		Bounds:    domain.Rect{X: 20, Y: 0, Width: 20, Height: 20},
	}

	g.DrawInk([]domain.Ink{domain.NewStroke(p), glyph, domain.RemovalMarker{}})

	assert.Equal(t, "•  √", strings.TrimRight(g.Plain(), "\n"))
	assert.Equal(t, Glyph, g.At(3, 0).Kind)
}

func TestGrid_GlyphNotOverwrittenByInk(t *testing.T) {
	g := NewGrid(1, 1, 10, 20)
	g.DrawGlyph("x", domain.Rect{Width: 10, Height: 20})
	var p domain.Path
	p.MoveTo(g.ToPoint(0, 0))

	g.DrawPath(p)

	assert.Equal(t, Cell{Rune: 'x', Kind: Glyph}, g.At(0, 0))
}

func TestGrid_Highlight(t *testing.T) {
	g := NewGrid(4, 2, 10, 20)

	g.Highlight(domain.Rect{X: 10, Y: 0, Width: 20, Height: 20})

	assert.False(t, g.Highlighted(0, 0))
	assert.True(t, g.Highlighted(1, 0))
	assert.True(t, g.Highlighted(2, 0))
	assert.False(t, g.Highlighted(3, 0))
	assert.False(t, g.Highlighted(1, 1))
	assert.False(t, g.Highlighted(9, 9))
}

func TestGrid_Clear(t *testing.T) {
	g := NewGrid(2, 1, 10, 20)
	g.DrawGlyph("x", domain.Rect{Width: 10, Height: 20})
	g.Highlight(domain.Rect{Width: 20, Height: 20})

	g.Clear()

	assert.Equal(t, "  ", g.Plain())
	assert.False(t, g.Highlighted(0, 0))
}

func TestGrid_Render(t *testing.T) {
	g := NewGrid(3, 1, 10, 20)
	g.DrawGlyph("y", domain.Rect{Width: 10, Height: 20})

	out := g.Render(styles.DefaultStyles())

	assert.Contains(t, out, "y")
}
