package services

import (
	"slices"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

// NodeIndex holds the terminal nodes of the latest parse and the
// current selection.
//
// Node indexes address the effective ink the nodes were recognized for.
// Callers clear the index whenever that ink changes shape.
type NodeIndex struct {
	nodes    []domain.TerminalNode
	selected int
	hasSel   bool
}

// NewNodeIndex creates an empty node index.
func NewNodeIndex() *NodeIndex {
	return &NodeIndex{}
}

// Assign replaces the nodes and clears the selection.
func (x *NodeIndex) Assign(nodes []domain.TerminalNode) {
	x.nodes = slices.Clone(nodes)
	x.ClearSelection()
}

// Clear removes all nodes and the selection.
func (x *NodeIndex) Clear() {
	x.Assign(nil)
}

// Nodes returns the terminal nodes.
func (x *NodeIndex) Nodes() []domain.TerminalNode {
	return slices.Clone(x.nodes)
}

// Len returns the number of nodes.
func (x *NodeIndex) Len() int {
	return len(x.nodes)
}

// SelectAt updates the selection for a tap at p and returns the selected
// node index.
//
// Candidates are the nodes whose padded frame contains p, in node order.
// A single candidate is selected directly. With several, repeated taps
// cycle through them: the candidate after the current selection is taken,
// wrapping to the first when the selection is the last candidate or not a
// candidate at all.
func (x *NodeIndex) SelectAt(p domain.Point, ink []domain.Ink, padding float64) (int, bool) {
	var candidates []int
	for i, node := range x.nodes {
		frame, ok := nodeFrame(node, ink)
		if ok && frame.Expand(padding).Contains(p) {
			candidates = append(candidates, i)
		}
	}

	switch len(candidates) {
	case 0:
		x.ClearSelection()
		return 0, false
	case 1:
		x.selected, x.hasSel = candidates[0], true
	default:
		next := candidates[0]
		if x.hasSel {
			if at := slices.Index(candidates, x.selected); at >= 0 && at+1 < len(candidates) {
				next = candidates[at+1]
			}
		}
		x.selected, x.hasSel = next, true
	}
	return x.selected, true
}

// ClearSelection deselects the current node.
func (x *NodeIndex) ClearSelection() {
	x.selected, x.hasSel = 0, false
}

// Selected returns the selected node and its index.
func (x *NodeIndex) Selected() (domain.TerminalNode, int, bool) {
	if !x.hasSel || x.selected >= len(x.nodes) {
		return domain.TerminalNode{}, 0, false
	}
	return x.nodes[x.selected], x.selected, true
}

// ResolveNode maps a terminal node onto ink. The frame is the union of the
// covered units' frames expanded by padding. Indexes outside ink are skipped.
func ResolveNode(node domain.TerminalNode, ink []domain.Ink, padding float64) domain.Node {
	units := nodeInk(node, ink)
	frame, _ := domain.FrameOf(units)
	return domain.Node{
		Ink:        units,
		Frame:      frame.Expand(padding),
		Candidates: slices.Clone(node.Candidates),
	}
}

func nodeInk(node domain.TerminalNode, ink []domain.Ink) []domain.Ink {
	units := make([]domain.Ink, 0, len(node.Indexes))
	for _, i := range node.Indexes {
		if i >= 0 && i < len(ink) {
			units = append(units, ink[i])
		}
	}
	return units
}

func nodeFrame(node domain.TerminalNode, ink []domain.Ink) (domain.Rect, bool) {
	return domain.FrameOf(nodeInk(node, ink))
}
