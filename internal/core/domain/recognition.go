package domain

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"time"
)

// SerializedInk is the recognizer's transport form of one effective-ink unit.
// Exactly one of Points or Character is set.
type SerializedInk struct {
	// Points is the flattened stroke geometry.
	Points []Point

	// Character is the literal glyph of a character replacement.
	Character string

	// Frame is the glyph frame. It is only set for characters.
	Frame Rect
}

// IsCharacter reports whether the unit is a literal glyph.
func (s SerializedInk) IsCharacter() bool {
	return s.Character != ""
}

// SerializeInk converts effective ink to the recognizer transport form.
// Removal markers never reach the effective ink and are skipped.
func SerializeInk(ink []Ink) []SerializedInk {
	out := make([]SerializedInk, 0, len(ink))
	for _, unit := range ink {
		switch u := unit.(type) {
		case Stroke:
			out = append(out, SerializedInk{Points: u.Path.Points()})
		case CharacterReplacement:
			out = append(out, SerializedInk{Character: u.Character, Frame: u.Bounds})
		case RemovalMarker:
			continue
		}
	}
	return out
}

// Fingerprint identifies serialized ink content.
// Equal content always produces an equal fingerprint.
type Fingerprint uint64

// FingerprintOf hashes serialized ink.
func FingerprintOf(ink []SerializedInk) Fingerprint {
	h := fnv.New64a()
	var buf [8]byte
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}
	for _, unit := range ink {
		if unit.IsCharacter() {
			_, _ = h.Write([]byte{'c'})
			binary.LittleEndian.PutUint64(buf[:], uint64(len(unit.Character)))
			_, _ = h.Write(buf[:])
			_, _ = h.Write([]byte(unit.Character))
			writeFloat(unit.Frame.X)
			writeFloat(unit.Frame.Y)
			writeFloat(unit.Frame.Width)
			writeFloat(unit.Frame.Height)
			continue
		}
		_, _ = h.Write([]byte{'s'})
		binary.LittleEndian.PutUint64(buf[:], uint64(len(unit.Points)))
		_, _ = h.Write(buf[:])
		for _, p := range unit.Points {
			writeFloat(p.X)
			writeFloat(p.Y)
		}
	}
	return Fingerprint(h.Sum64())
}

// RecognitionRequest is one dispatch to the recognizer.
type RecognitionRequest struct {
	// ID uniquely identifies the request.
	ID string

	// Ink is the serialized effective ink.
	Ink []SerializedInk

	// Fingerprint identifies the content the request was made for.
	Fingerprint Fingerprint

	// IssuedAt is when the request was dispatched.
	IssuedAt time.Time
}

// RecognitionResult is the recognizer's answer to a request.
type RecognitionResult struct {
	// LaTeX is the recognized expression.
	LaTeX string

	// Nodes are the terminal nodes of the parse tree.
	Nodes []TerminalNode

	// Invalidated lists positions the recognizer asks to remove (scratch-out).
	Invalidated []int
}

// RecognitionOutcome labels how a request ended.
type RecognitionOutcome string

// Recognition outcomes.
const (
	OutcomeParsed    RecognitionOutcome = "parsed"
	OutcomeFailed    RecognitionOutcome = "failed"
	OutcomeMalformed RecognitionOutcome = "malformed"
	OutcomeStale     RecognitionOutcome = "stale"
	OutcomeScratched RecognitionOutcome = "scratched"
)

// String returns the string representation.
func (o RecognitionOutcome) String() string {
	return string(o)
}
