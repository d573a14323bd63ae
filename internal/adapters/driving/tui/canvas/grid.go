// Package canvas rasterizes ink onto a grid of terminal cells.
package canvas

import (
	"math"
	"strings"

	"github.com/custodia-labs/mathink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/mathink/internal/core/domain"
)

// Default cell size in canvas units. Terminal cells are about twice as tall as wide.
const (
	DefaultCellWidth  = 10.0
	DefaultCellHeight = 20.0
)

// InkRune marks a cell crossed by a stroke.
const InkRune = '•'

// quadSteps is how many chords approximate one quadratic segment.
const quadSteps = 8

// Kind identifies what occupies a cell.
type Kind int

const (
	// Empty cells render as spaces.
	Empty Kind = iota
	// Ink cells are crossed by a stroke.
	Ink
	// Glyph cells hold a printed character.
	Glyph
)

// Cell is one terminal cell.
type Cell struct {
	Rune rune
	Kind Kind
}

// Grid maps canvas coordinates onto terminal cells.
type Grid struct {
	cols, rows   int
	cellW, cellH float64
	cells        []Cell
	highlight    []bool
}

// NewGrid creates an empty grid. Non-positive cell sizes take the defaults.
func NewGrid(cols, rows int, cellW, cellH float64) *Grid {
	cols = max(cols, 0)
	rows = max(rows, 0)
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}
	return &Grid{
		cols:      cols,
		rows:      rows,
		cellW:     cellW,
		cellH:     cellH,
		cells:     make([]Cell, cols*rows),
		highlight: make([]bool, cols*rows),
	}
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (cols, rows int) {
	return g.cols, g.rows
}

// ToPoint returns the canvas point at the centre of a cell.
func (g *Grid) ToPoint(col, row int) domain.Point {
	return domain.Point{
		X: (float64(col) + 0.5) * g.cellW,
		Y: (float64(row) + 0.5) * g.cellH,
	}
}

// ToCell returns the cell containing p.
func (g *Grid) ToCell(p domain.Point) (col, row int, ok bool) {
	col = int(math.Floor(p.X / g.cellW))
	row = int(math.Floor(p.Y / g.cellH))
	return col, row, g.inside(col, row)
}

func (g *Grid) inside(col, row int) bool {
	return col >= 0 && col < g.cols && row >= 0 && row < g.rows
}

// At returns the cell at col, row. Out-of-range cells are empty.
func (g *Grid) At(col, row int) Cell {
	if !g.inside(col, row) {
		return Cell{}
	}
	return g.cells[row*g.cols+col]
}

// Highlighted reports whether the cell is inside a highlighted rect.
func (g *Grid) Highlighted(col, row int) bool {
	return g.inside(col, row) && g.highlight[row*g.cols+col]
}

// Clear empties every cell and drops highlights.
func (g *Grid) Clear() {
	clear(g.cells)
	clear(g.highlight)
}

// DrawInk draws every visible unit.
func (g *Grid) DrawInk(ink []domain.Ink) {
	for _, unit := range ink {
		switch u := unit.(type) {
		case domain.Stroke:
			g.DrawPath(u.Path)
		case domain.CharacterReplacement:
			g.DrawGlyph(u.Character, u.Bounds)
		case domain.RemovalMarker:
			continue
		}
	}
}

// DrawPath marks every cell the path crosses.
func (g *Grid) DrawPath(path domain.Path) {
	var current domain.Point
	for _, s := range path.Segments {
		switch s.Op {
		case domain.SegmentMove:
			g.plot(s.To)
		case domain.SegmentLine:
			g.line(current, s.To)
		case domain.SegmentQuad:
			prev := current
			for i := 1; i <= quadSteps; i++ {
				next := quadPoint(current, s.Control, s.To, float64(i)/quadSteps)
				g.line(prev, next)
				prev = next
			}
		}
		current = s.To
	}
}

// DrawGlyph writes the first rune of ch at the centre of bounds.
func (g *Grid) DrawGlyph(ch string, bounds domain.Rect) {
	r := []rune(ch)
	if len(r) == 0 {
		return
	}
	centre := domain.Point{X: bounds.X + bounds.Width/2, Y: bounds.Y + bounds.Height/2}
	if col, row, ok := g.ToCell(centre); ok {
		g.cells[row*g.cols+col] = Cell{Rune: r[0], Kind: Glyph}
	}
}

// Highlight marks the cells whose centres fall inside r.
func (g *Grid) Highlight(r domain.Rect) {
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if r.Contains(g.ToPoint(col, row)) {
				g.highlight[row*g.cols+col] = true
			}
		}
	}
}

func (g *Grid) plot(p domain.Point) {
	col, row, ok := g.ToCell(p)
	if !ok {
		return
	}
	cell := &g.cells[row*g.cols+col]
	if cell.Kind != Glyph {
		*cell = Cell{Rune: InkRune, Kind: Ink}
	}
}

// line plots the cells between a and b with Bresenham's algorithm.
func (g *Grid) line(a, b domain.Point) {
	x0, y0 := int(math.Floor(a.X/g.cellW)), int(math.Floor(a.Y/g.cellH))
	x1, y1 := int(math.Floor(b.X/g.cellW)), int(math.Floor(b.Y/g.cellH))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy

	for {
		g.plot(g.ToPoint(x0, y0))
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func quadPoint(p0, c, p1 domain.Point, t float64) domain.Point {
	u := 1 - t
	return domain.Point{
		X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Plain returns the grid as unstyled text, one line per row.
func (g *Grid) Plain() string {
	return g.render(func(cell Cell, _ bool) string {
		if cell.Kind == Empty {
			return " "
		}
		return string(cell.Rune)
	})
}

// Render returns the grid styled for the terminal.
func (g *Grid) Render(s *styles.Styles) string {
	return g.render(func(cell Cell, highlighted bool) string {
		text := " "
		if cell.Kind != Empty {
			text = string(cell.Rune)
		}
		switch {
		case highlighted:
			return s.Selected.Render(text)
		case cell.Kind == Ink:
			return s.Ink.Render(text)
		case cell.Kind == Glyph:
			return s.Glyph.Render(text)
		default:
			return text
		}
	})
}

func (g *Grid) render(cellText func(Cell, bool) string) string {
	var b strings.Builder
	for row := 0; row < g.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < g.cols; col++ {
			i := row*g.cols + col
			b.WriteString(cellText(g.cells[i], g.highlight[i]))
		}
	}
	return b.String()
}
