package mcp

import (
	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
	"github.com/custodia-labs/mathink/internal/core/ports/driving"
)

// engineState records renderer notifications.
// It is only touched on the engine goroutine.
type engineState struct {
	lastError string
	scratched int
}

var _ driven.Renderer = (*engineState)(nil)

func (e *engineState) DidUpdateHistory(domain.History) {}

func (e *engineState) DidParse(string) {
	e.lastError = ""
}

func (e *engineState) DidFailToParse(err error) {
	e.lastError = err.Error()
}

// DidLoad starts a fresh canvas.
func (e *engineState) DidLoad([]domain.Ink) {
	e.lastError = ""
	e.scratched = 0
}

func (e *engineState) DidScratchOut(domain.Rect) {
	e.scratched++
}

// RectOutput is a rectangle in canvas coordinates.
type RectOutput struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeOutput describes one recognized symbol.
type NodeOutput struct {
	Index      int        `json:"index"`
	Frame      RectOutput `json:"frame"`
	Units      int        `json:"units"`
	Candidates []string   `json:"candidates"`
}

// StateOutput is a snapshot of the canvas.
type StateOutput struct {
	LaTeX       string       `json:"latex"`
	Pending     bool         `json:"pending"`
	CanUndo     bool         `json:"can_undo"`
	CanRedo     bool         `json:"can_redo"`
	Units       int          `json:"units"`
	Nodes       []NodeOutput `json:"nodes"`
	Selected    *int         `json:"selected,omitempty"`
	Error       string       `json:"error,omitempty"`
	ScratchOuts int          `json:"scratch_outs,omitempty"`
}

func rectOutput(r domain.Rect) RectOutput {
	return RectOutput{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func nodeOutput(i int, n domain.Node) NodeOutput {
	candidates := n.Candidates
	if candidates == nil {
		candidates = []string{}
	}
	return NodeOutput{
		Index:      i,
		Frame:      rectOutput(n.Frame),
		Units:      len(n.Ink),
		Candidates: candidates,
	}
}

// snapshot reads the engine. It must run on the engine goroutine.
func (e *engineState) snapshot(ink driving.InkService) StateOutput {
	history := ink.History()
	nodes := ink.Nodes()

	out := StateOutput{
		LaTeX:       ink.LaTeX(),
		Pending:     ink.Pending(),
		CanUndo:     history.CanUndo,
		CanRedo:     history.CanRedo,
		Units:       len(ink.EffectiveInk()),
		Nodes:       make([]NodeOutput, len(nodes)),
		Error:       e.lastError,
		ScratchOuts: e.scratched,
	}
	for i, n := range nodes {
		out.Nodes[i] = nodeOutput(i, n)
	}
	if i, ok := ink.SelectedIndex(); ok {
		out.Selected = &i
	}
	return out
}
