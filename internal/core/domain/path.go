package domain

// SegmentOp identifies the kind of a path segment.
type SegmentOp int

// Segment operations.
const (
	// SegmentMove starts a new sub-path at To.
	SegmentMove SegmentOp = iota
	// SegmentLine draws a straight line to To.
	SegmentLine
	// SegmentQuad draws a quadratic curve to To through Control.
	SegmentQuad
)

// String returns the string representation.
func (op SegmentOp) String() string {
	switch op {
	case SegmentMove:
		return "move"
	case SegmentLine:
		return "line"
	case SegmentQuad:
		return "quad"
	default:
		return "unknown"
	}
}

// Segment is one element of a Path.
// Control is only meaningful for SegmentQuad.
type Segment struct {
	Op      SegmentOp
	Control Point
	To      Point
}

// Path is an ordered sequence of segments describing stroke geometry.
type Path struct {
	Segments []Segment
}

// MoveTo appends a move segment.
func (p *Path) MoveTo(to Point) {
	p.Segments = append(p.Segments, Segment{Op: SegmentMove, To: to})
}

// LineTo appends a line segment.
func (p *Path) LineTo(to Point) {
	p.Segments = append(p.Segments, Segment{Op: SegmentLine, To: to})
}

// QuadTo appends a quadratic curve segment.
func (p *Path) QuadTo(to, control Point) {
	p.Segments = append(p.Segments, Segment{Op: SegmentQuad, Control: control, To: to})
}

// IsEmpty reports whether the path has no segments.
func (p Path) IsEmpty() bool { return len(p.Segments) == 0 }

// CurrentPoint returns the end point of the last segment.
func (p Path) CurrentPoint() (Point, bool) {
	if len(p.Segments) == 0 {
		return Point{}, false
	}
	return p.Segments[len(p.Segments)-1].To, true
}

// Points flattens the path into the recognizer's point list.
// Quadratic segments contribute their control point followed by their end point.
func (p Path) Points() []Point {
	points := make([]Point, 0, len(p.Segments)*2)
	for _, s := range p.Segments {
		if s.Op == SegmentQuad {
			points = append(points, s.Control)
		}
		points = append(points, s.To)
	}
	return points
}

// Bounds returns the rect covering every point of the path, control points included.
func (p Path) Bounds() Rect {
	return RectFromPoints(p.Points()...)
}

// Clone returns a deep copy of the path.
func (p Path) Clone() Path {
	if p.Segments == nil {
		return Path{}
	}
	segments := make([]Segment, len(p.Segments))
	copy(segments, p.Segments)
	return Path{Segments: segments}
}
