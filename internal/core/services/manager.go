package services

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
	"github.com/custodia-labs/mathink/internal/core/ports/driving"
	"github.com/custodia-labs/mathink/internal/logger"
)

// Ensure InkManager implements the interface.
var _ driving.InkService = (*InkManager)(nil)

// InkManager is the ink engine. It composes the stroke builder, the ink
// store, the node index and the recognition coordinator.
//
// It is not safe for concurrent use. All methods, renderer callbacks and
// recognizer completions run on the goroutine that owns it; completions get
// there through the Dispatcher passed to NewInkManager.
type InkManager struct {
	settings domain.CanvasSettings

	builder     *StrokeBuilder
	store       *InkStore
	index       *NodeIndex
	coordinator *RecognitionCoordinator

	dispatcher driven.Dispatcher
	renderer   driven.Renderer
	rasterizer driven.InkRasterizer

	latex string

	ctx    context.Context
	cancel context.CancelFunc
}

// NewInkManager creates an ink engine.
// The recognizer, renderer, metrics and rasterizer are attached later and are optional.
func NewInkManager(dispatcher driven.Dispatcher, settings domain.CanvasSettings) *InkManager {
	if !settings.IsValid() {
		settings = domain.DefaultAppSettings().Canvas
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &InkManager{
		settings:    settings,
		builder:     NewStrokeBuilder(),
		store:       NewInkStore(),
		index:       NewNodeIndex(),
		coordinator: NewRecognitionCoordinator(nil, dispatcher, nil),
		dispatcher:  dispatcher,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetRecognizer attaches or detaches the recognizer.
func (m *InkManager) SetRecognizer(recognizer driven.Recognizer) {
	m.coordinator.SetRecognizer(recognizer)
}

// SetRecognitionTimeout bounds each recognizer call. Zero means no bound.
func (m *InkManager) SetRecognitionTimeout(timeout time.Duration) {
	m.coordinator.SetTimeout(timeout)
}

// SetRenderer attaches or detaches (nil) the renderer.
func (m *InkManager) SetRenderer(renderer driven.Renderer) {
	m.renderer = renderer
}

// SetMetrics attaches or detaches the recognition metrics recorder.
func (m *InkManager) SetMetrics(metrics driven.RecognitionMetrics) {
	m.coordinator.SetMetrics(metrics)
}

// SetRasterizer attaches or detaches the rasterizer used for previews.
func (m *InkManager) SetRasterizer(rasterizer driven.InkRasterizer) {
	m.rasterizer = rasterizer
}

// Close cancels recognizer calls still in flight.
// Their completions are still delivered, carrying the cancellation error.
func (m *InkManager) Close() {
	m.cancel()
}

// BeginStroke starts a new stroke at the given point.
func (m *InkManager) BeginStroke(at domain.Point) {
	m.builder.Begin(at)
}

// ExtendStroke feeds one pointer sample into the current stroke.
func (m *InkManager) ExtendStroke(to, previous domain.Point, final bool) domain.Rect {
	dirty, stroke := m.builder.Extend(to, previous, final, m.settings.NodePadding())
	if stroke == nil {
		return dirty
	}
	// A stroke only appends, so existing node indexes stay valid until
	// the next parse replaces them.
	if err := m.store.Append(*stroke); err != nil {
		logger.Error("Append stroke: %v", err)
		return dirty
	}
	logger.Debug("Stroke committed: %d segments, frame %+v", len(stroke.Path.Segments), stroke.Frame())
	m.notifyHistory()
	m.Process()
	return dirty
}

// Buffer returns the stroke currently being drawn.
func (m *InkManager) Buffer() (domain.Path, bool) {
	return m.builder.Path()
}

// Undo steps the history back one unit and returns its padded frame.
func (m *InkManager) Undo() (domain.Rect, bool) {
	unit, ok := m.store.Undo()
	if !ok {
		return domain.Rect{}, false
	}
	logger.Debug("Undo: %s, %d of %d committed", unit.Kind(), m.store.index, m.store.Len())
	return m.historyMoved(unit), true
}

// Redo steps the history forward one unit and returns its padded frame.
func (m *InkManager) Redo() (domain.Rect, bool) {
	unit, ok := m.store.Redo()
	if !ok {
		return domain.Rect{}, false
	}
	logger.Debug("Redo: %s, %d of %d committed", unit.Kind(), m.store.index, m.store.Len())
	return m.historyMoved(unit), true
}

func (m *InkManager) historyMoved(unit domain.Ink) domain.Rect {
	m.index.Clear()
	m.notifyHistory()
	m.Process()
	return unit.Frame().Expand(m.settings.HistoryPadding())
}

// History reports undo/redo availability.
func (m *InkManager) History() domain.History {
	return m.store.History()
}

// EffectiveInk returns the visible ink.
func (m *InkManager) EffectiveInk() []domain.Ink {
	return m.store.EffectiveInk()
}

// SelectAt selects the node under p, cycling through overlapping nodes.
func (m *InkManager) SelectAt(p domain.Point) (domain.Node, bool) {
	ink := m.store.EffectiveInk()
	idx, ok := m.index.SelectAt(p, ink, m.settings.NodePadding())
	if !ok {
		return domain.Node{}, false
	}
	node, _, _ := m.index.Selected()
	logger.Debug("Selected node %d at (%.1f, %.1f): %s", idx, p.X, p.Y, node)
	return ResolveNode(node, ink, m.settings.NodePadding()), true
}

// ClearSelection deselects the current node.
func (m *InkManager) ClearSelection() {
	m.index.ClearSelection()
}

// RemoveSelected appends a removal marker for the selected node.
func (m *InkManager) RemoveSelected() (domain.Node, bool) {
	node, _, ok := m.index.Selected()
	if !ok {
		return domain.Node{}, false
	}
	ink := m.store.EffectiveInk()
	removed := ResolveNode(node, ink, m.settings.NodePadding())
	bounds, _ := domain.FrameOf(removed.Ink)

	marker := domain.RemovalMarker{Removed: append([]int(nil), node.Indexes...), Bounds: bounds}
	if err := m.store.Append(marker); err != nil {
		logger.Error("Remove node %s: %v", node, err)
		return domain.Node{}, false
	}
	logger.Debug("Removed positions %v", marker.Removed)
	m.afterEdit()
	return removed, true
}

// ReplaceSelected replaces the selected node's ink with a printed character.
func (m *InkManager) ReplaceSelected(ch string) (domain.Replacement, bool) {
	if !domain.IsSingleCharacter(ch) {
		return domain.Replacement{}, false
	}
	node, _, ok := m.index.Selected()
	if !ok {
		return domain.Replacement{}, false
	}
	ink := m.store.EffectiveInk()
	old := ResolveNode(node, ink, m.settings.NodePadding())
	bounds, _ := domain.FrameOf(old.Ink)

	replacement := domain.CharacterReplacement{
		Character: ch,
		Bounds:    bounds,
		Replaced:  append([]int(nil), node.Indexes...),
	}
	if err := m.store.Append(replacement); err != nil {
		logger.Error("Replace node %s: %v", node, err)
		return domain.Replacement{}, false
	}
	logger.Debug("Replaced positions %v with %q", replacement.Replaced, ch)
	m.afterEdit()

	return domain.Replacement{
		Old: old,
		New: domain.Node{
			Ink:        []domain.Ink{replacement},
			Frame:      bounds.Expand(m.settings.NodePadding()),
			Candidates: []string{ch},
		},
	}, true
}

func (m *InkManager) afterEdit() {
	m.index.Clear()
	m.notifyHistory()
	m.Process()
}

// SelectedCandidates returns the single-character candidates of the selected node.
func (m *InkManager) SelectedCandidates() []string {
	node, _, ok := m.index.Selected()
	if !ok {
		return nil
	}
	var out []string
	for _, c := range node.Candidates {
		if domain.IsSingleCharacter(c) {
			out = append(out, c)
		}
	}
	return out
}

// ApplyCandidate removes or replaces the selected node as the picker chose.
func (m *InkManager) ApplyCandidate(choice domain.CandidateChoice) bool {
	if choice.Remove {
		_, ok := m.RemoveSelected()
		return ok
	}
	_, ok := m.ReplaceSelected(choice.Value)
	return ok
}

// Nodes returns the current nodes resolved against the effective ink.
func (m *InkManager) Nodes() []domain.Node {
	ink := m.store.EffectiveInk()
	terminals := m.index.Nodes()
	nodes := make([]domain.Node, 0, len(terminals))
	for _, t := range terminals {
		nodes = append(nodes, ResolveNode(t, ink, m.settings.NodePadding()))
	}
	return nodes
}

// TerminalNodes returns the nodes as the recognizer reported them, plus
// synthetic nodes.
func (m *InkManager) TerminalNodes() []domain.TerminalNode {
	return m.index.Nodes()
}

// SelectedIndex returns the index of the selected node.
func (m *InkManager) SelectedIndex() (int, bool) {
	_, idx, ok := m.index.Selected()
	return idx, ok
}

// LaTeX returns the text of the last successful recognition.
func (m *InkManager) LaTeX() string {
	return m.latex
}

// Pending reports whether a recognition request is outstanding.
func (m *InkManager) Pending() bool {
	_, ok := m.coordinator.Pending()
	return ok
}

// Process sends the effective ink to the recognizer.
func (m *InkManager) Process() {
	if !m.coordinator.Available() {
		m.fail(domain.ErrRecognizerUnavailable)
		return
	}

	ink := m.store.EffectiveInk()
	if len(ink) == 0 {
		m.coordinator.Reset()
		m.index.Clear()
		m.latex = ""
		if m.renderer != nil {
			m.renderer.DidParse("")
		}
		return
	}

	if _, err := m.coordinator.Submit(m.ctx, ink, m.complete); err != nil {
		m.fail(err)
	}
}

func (m *InkManager) complete(c Completion) {
	r := m.coordinator.Reconcile(c, m.store.EffectiveInk())
	switch r.Outcome {
	case domain.OutcomeStale:
		return
	case domain.OutcomeFailed, domain.OutcomeMalformed:
		m.fail(r.Err)
	case domain.OutcomeScratched:
		m.scratchOut(r.Invalidated)
	case domain.OutcomeParsed:
		m.index.Assign(r.Nodes)
		m.latex = r.LaTeX
		if m.renderer != nil {
			m.renderer.DidParse(r.LaTeX)
		}
	}
}

func (m *InkManager) fail(err error) {
	m.index.Clear()
	m.latex = ""
	if m.renderer != nil {
		m.renderer.DidFailToParse(err)
	}
}

func (m *InkManager) scratchOut(positions []int) {
	ink := m.store.EffectiveInk()
	units := make([]domain.Ink, 0, len(positions))
	for _, p := range positions {
		units = append(units, ink[p])
	}
	bounds, _ := domain.FrameOf(units)

	if err := m.store.Append(domain.RemovalMarker{Removed: positions, Bounds: bounds}); err != nil {
		m.fail(fmt.Errorf("%w: %w", domain.ErrMalformedRecognizerResult, err))
		return
	}
	m.index.Clear()
	m.notifyHistory()
	if m.renderer != nil {
		m.renderer.DidScratchOut(bounds.Expand(m.settings.HistoryPadding()))
	}
	m.Process()
}

// Load replaces the history with units, all committed, and reprocesses.
func (m *InkManager) Load(units []domain.Ink) error {
	return m.Restore(domain.InkLog{Units: units, HistoryIndex: len(units)})
}

// Snapshot returns a copy of the ink log.
func (m *InkManager) Snapshot() domain.InkLog {
	return m.store.Log()
}

// Restore replaces the ink log, keeping its history cursor, and reprocesses.
func (m *InkManager) Restore(log domain.InkLog) error {
	if err := m.store.Restore(log); err != nil {
		return err
	}
	logger.Info("Loaded ink log: %d units, %d committed", len(log.Units), log.HistoryIndex)
	m.builder.Reset()
	m.index.Clear()
	m.latex = ""
	if m.renderer != nil {
		m.renderer.DidLoad(m.store.EffectiveInk())
	}
	m.notifyHistory()
	m.Process()
	return nil
}

// Settings returns the canvas settings in effect.
func (m *InkManager) Settings() domain.CanvasSettings {
	return m.settings
}

// SetSettings changes the canvas settings.
func (m *InkManager) SetSettings(settings domain.CanvasSettings) error {
	if !settings.IsValid() {
		return fmt.Errorf("%w: canvas settings %+v", domain.ErrInvalidInput, settings)
	}
	m.settings = settings
	return nil
}

// PreviewSelected renders the selected node on a worker goroutine and
// delivers the image to done on the owner goroutine.
func (m *InkManager) PreviewSelected(done func(image.Image, error)) error {
	if m.rasterizer == nil || m.dispatcher == nil {
		return domain.ErrNotImplemented
	}
	terminal, _, ok := m.index.Selected()
	if !ok {
		return domain.ErrNotFound
	}
	node := ResolveNode(terminal, m.store.EffectiveInk(), m.settings.NodePadding())
	rasterizer, dispatcher, settings := m.rasterizer, m.dispatcher, m.settings
	go func() {
		img, err := rasterizer.RenderNode(node, settings)
		dispatcher.Post(func() { done(img, err) })
	}()
	return nil
}

func (m *InkManager) notifyHistory() {
	if m.renderer != nil {
		m.renderer.DidUpdateHistory(m.store.History())
	}
}
