package domain

import (
	"fmt"
	"unicode/utf8"
)

// TerminalNode groups effective-ink positions the recognizer treats as one symbol.
type TerminalNode struct {
	// Indexes are positions into the effective ink, in ascending order.
	Indexes []int

	// Candidates are replacement strings, best first.
	Candidates []string

	// Synthetic is true for nodes created for strokes the recognizer left uncovered.
	Synthetic bool
}

// String returns a debug representation.
func (n TerminalNode) String() string {
	if n.Synthetic {
		return fmt.Sprintf("<UnrecognizedNode: index=%v; candidates=%v>", n.Indexes, n.Candidates)
	}
	return fmt.Sprintf("<InkNode: stroke indexes=%v; candidates=%v>", n.Indexes, n.Candidates)
}

// Node is a resolved TerminalNode handed to hosts.
type Node struct {
	// Ink holds the effective ink units the node covers.
	Ink []Ink

	// Frame is the union of the units' frames expanded by the node padding.
	Frame Rect

	// Candidates are the node's replacement strings.
	Candidates []string
}

// Replacement describes a ReplaceSelected edit.
type Replacement struct {
	// Old is the node that was replaced.
	Old Node

	// New is the single-character node that replaced it.
	New Node
}

// CandidateChoice is the candidate picker's answer for the selected node.
type CandidateChoice struct {
	// Value is the chosen replacement string.
	Value string

	// Remove requests deletion of the selected node instead of replacement.
	Remove bool
}

// IsSingleCharacter reports whether s is exactly one character.
func IsSingleCharacter(s string) bool {
	return utf8.RuneCountInString(s) == 1
}
