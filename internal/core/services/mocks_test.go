package services

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
)

// ==== Dispatcher ====

// queueDispatcher collects posted functions until the test drains them.
type queueDispatcher struct {
	mu    sync.Mutex
	queue []func()
}

var _ driven.Dispatcher = (*queueDispatcher)(nil)

func (d *queueDispatcher) Post(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, fn)
}

func (d *queueDispatcher) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// drain waits until n functions are queued and runs everything queued.
func (d *queueDispatcher) drain(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return d.len() >= n }, time.Second, time.Millisecond)
	d.mu.Lock()
	queued := d.queue
	d.queue = nil
	d.mu.Unlock()
	for _, fn := range queued {
		fn()
	}
}

// ==== Recognizer ====

type recognizeFunc func(req domain.RecognitionRequest) (domain.RecognitionResult, error)

// fakeRecognizer answers with respond. When gated, each call blocks until
// release is called.
type fakeRecognizer struct {
	mu       sync.Mutex
	requests []domain.RecognitionRequest
	respond  recognizeFunc
	gate     chan struct{}
}

var _ driven.Recognizer = (*fakeRecognizer)(nil)

func newFakeRecognizer(respond recognizeFunc) *fakeRecognizer {
	return &fakeRecognizer{respond: respond}
}

func newGatedRecognizer(respond recognizeFunc) *fakeRecognizer {
	return &fakeRecognizer{respond: respond, gate: make(chan struct{}, 16)}
}

func (r *fakeRecognizer) Recognize(ctx context.Context, req domain.RecognitionRequest) (domain.RecognitionResult, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return domain.RecognitionResult{}, ctx.Err()
		}
	}
	return r.respond(req)
}

func (r *fakeRecognizer) release() {
	r.gate <- struct{}{}
}

func (r *fakeRecognizer) calls() []domain.RecognitionRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.RecognitionRequest(nil), r.requests...)
}

// eachStrokeOwnNode reports every unit as its own node with candidate "1".
func eachStrokeOwnNode(req domain.RecognitionRequest) (domain.RecognitionResult, error) {
	nodes := make([]domain.TerminalNode, len(req.Ink))
	for i := range req.Ink {
		nodes[i] = domain.TerminalNode{Indexes: []int{i}, Candidates: []string{"1"}}
	}
	return domain.RecognitionResult{LaTeX: "1", Nodes: nodes}, nil
}

// ==== Renderer ====

type rendererEvent struct {
	kind    string
	latex   string
	err     error
	history domain.History
	rect    domain.Rect
	units   int
}

type recordingRenderer struct {
	events []rendererEvent
}

var _ driven.Renderer = (*recordingRenderer)(nil)

func (r *recordingRenderer) DidUpdateHistory(h domain.History) {
	r.events = append(r.events, rendererEvent{kind: "history", history: h})
}

func (r *recordingRenderer) DidParse(latex string) {
	r.events = append(r.events, rendererEvent{kind: "parse", latex: latex})
}

func (r *recordingRenderer) DidFailToParse(err error) {
	r.events = append(r.events, rendererEvent{kind: "fail", err: err})
}

func (r *recordingRenderer) DidLoad(ink []domain.Ink) {
	r.events = append(r.events, rendererEvent{kind: "load", units: len(ink)})
}

func (r *recordingRenderer) DidScratchOut(dirty domain.Rect) {
	r.events = append(r.events, rendererEvent{kind: "scratch", rect: dirty})
}

func (r *recordingRenderer) last(kind string) (rendererEvent, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].kind == kind {
			return r.events[i], true
		}
	}
	return rendererEvent{}, false
}

func (r *recordingRenderer) count(kind string) int {
	n := 0
	for _, e := range r.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

// ==== Metrics ====

type recordingMetrics struct {
	dispatched []int
	outcomes   []domain.RecognitionOutcome
	recognized int
	synthetic  int
}

var _ driven.RecognitionMetrics = (*recordingMetrics)(nil)

func (m *recordingMetrics) RequestDispatched(units int) {
	m.dispatched = append(m.dispatched, units)
}

func (m *recordingMetrics) RequestCompleted(outcome domain.RecognitionOutcome, _ time.Duration) {
	m.outcomes = append(m.outcomes, outcome)
}

func (m *recordingMetrics) NodesAssigned(recognized, synthetic int) {
	m.recognized, m.synthetic = recognized, synthetic
}

// ==== Rasterizer ====

type stubRasterizer struct {
	nodes []domain.Node
}

var _ driven.InkRasterizer = (*stubRasterizer)(nil)

func (r *stubRasterizer) RenderNode(node domain.Node, _ domain.CanvasSettings) (image.Image, error) {
	r.nodes = append(r.nodes, node)
	return image.NewRGBA(image.Rect(0, 0, int(node.Frame.Width), int(node.Frame.Height))), nil
}

func (r *stubRasterizer) RenderInk(ink []domain.Ink, _ domain.CanvasSettings) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

// ==== Fixtures ====

func line(x1, y1, x2, y2 float64) domain.Stroke {
	var p domain.Path
	p.MoveTo(domain.Point{X: x1, Y: y1})
	p.LineTo(domain.Point{X: x2, Y: y2})
	return domain.NewStroke(p)
}

// overlappingStrokes are three diagonal strokes whose padded frames all
// contain (50, 50), plus a fourth stroke well below them.
func overlappingStrokes() []domain.Ink {
	return []domain.Ink{
		line(0, 0, 100, 100),
		line(25, 25, 125, 125),
		line(50, 50, 150, 150),
		line(0, 200, 100, 300),
	}
}

func singleNodes(n int) []domain.TerminalNode {
	nodes := make([]domain.TerminalNode, n)
	for i := range nodes {
		nodes[i] = domain.TerminalNode{Indexes: []int{i}, Candidates: []string{"1"}}
	}
	return nodes
}
