package domain

// InkKind identifies an Ink variant.
type InkKind string

// Ink variants.
const (
	// InkKindStroke is a captured pen stroke.
	InkKindStroke InkKind = "stroke"

	// InkKindCharacter is a printed glyph that replaced earlier ink.
	InkKindCharacter InkKind = "character"

	// InkKindRemoval marks earlier ink as removed.
	InkKindRemoval InkKind = "removal"
)

// IsValid returns true if the kind is recognised.
func (k InkKind) IsValid() bool {
	switch k {
	case InkKindStroke, InkKindCharacter, InkKindRemoval:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k InkKind) String() string {
	return string(k)
}

// Ink is one atomic entry of the ink log.
//
// The set of variants is closed: Stroke, CharacterReplacement and
// RemovalMarker. Consumers switch on the concrete type and every switch
// must handle all three.
type Ink interface {
	// Kind returns the variant tag.
	Kind() InkKind

	// Frame returns the bounding box used for spatial queries and redraws.
	Frame() Rect

	isInk()
}

// Stroke is a captured pen stroke.
type Stroke struct {
	// Path is the smoothed stroke geometry.
	Path Path
}

// NewStroke creates a stroke owning a copy of path.
func NewStroke(path Path) Stroke {
	return Stroke{Path: path.Clone()}
}

// Kind implements Ink.
func (Stroke) Kind() InkKind { return InkKindStroke }

// Frame implements Ink. It is computed from the geometry.
func (s Stroke) Frame() Rect { return s.Path.Bounds() }

func (Stroke) isInk() {}

// CharacterReplacement is a printed glyph that replaces earlier ink.
// Replaced holds effective-ink positions as they were when it was appended.
type CharacterReplacement struct {
	// Character is the printed glyph.
	Character string

	// Bounds is where the glyph is drawn. It is carried explicitly because
	// the replaced strokes are gone from the effective ink.
	Bounds Rect

	// Replaced lists the effective-ink positions this glyph replaces.
	Replaced []int
}

// Kind implements Ink.
func (CharacterReplacement) Kind() InkKind { return InkKindCharacter }

// Frame implements Ink.
func (c CharacterReplacement) Frame() Rect { return c.Bounds }

func (CharacterReplacement) isInk() {}

// RemovalMarker logically removes earlier ink without erasing the log.
type RemovalMarker struct {
	// Removed lists the effective-ink positions removed, as they were
	// when the marker was appended.
	Removed []int

	// Bounds covers the removed ink.
	Bounds Rect
}

// Kind implements Ink.
func (RemovalMarker) Kind() InkKind { return InkKindRemoval }

// Frame implements Ink.
func (r RemovalMarker) Frame() Rect { return r.Bounds }

func (RemovalMarker) isInk() {}

// IsVisible reports whether unit can appear in the effective ink.
// Removal markers never do.
func IsVisible(unit Ink) bool {
	switch unit.(type) {
	case Stroke, CharacterReplacement:
		return true
	default:
		return false
	}
}

// FrameOf returns the union of the frames of units.
// The second result is false when units is empty.
func FrameOf(units []Ink) (Rect, bool) {
	if len(units) == 0 {
		return Rect{}, false
	}
	frame := units[0].Frame()
	for _, u := range units[1:] {
		frame = frame.Union(u.Frame())
	}
	return frame, true
}

// InkLog is the raw ink history plus its cursor.
// Units before HistoryIndex are committed; the rest are available to redo.
type InkLog struct {
	// Units is the ordered log.
	Units []Ink

	// HistoryIndex partitions Units into committed and redo-available.
	HistoryIndex int
}

// Committed returns the units currently visible to undo.
func (l InkLog) Committed() []Ink {
	return l.Units[:l.HistoryIndex]
}

// History is the undo/redo availability reported to hosts.
type History struct {
	CanUndo bool
	CanRedo bool
}
