package mcp

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mathink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
	"github.com/custodia-labs/mathink/internal/core/services"
)

// symbolRecognizer reports every unit as its own "x" node.
type symbolRecognizer struct{}

var _ driven.Recognizer = symbolRecognizer{}

func (symbolRecognizer) Recognize(_ context.Context, req domain.RecognitionRequest) (domain.RecognitionResult, error) {
	result := domain.RecognitionResult{LaTeX: "x"}
	for i := range req.Ink {
		result.Nodes = append(result.Nodes, domain.TerminalNode{
			Indexes:    []int{i},
			Candidates: []string{"x", "×"},
		})
	}
	return result, nil
}

// mockRasterizer returns blank images of a fixed size.
type mockRasterizer struct {
	width, height int
	err           error
}

func (m *mockRasterizer) RenderNode(domain.Node, domain.CanvasSettings) (image.Image, error) {
	if m.err != nil {
		return nil, m.err
	}
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height)), nil
}

func (m *mockRasterizer) RenderInk([]domain.Ink, domain.CanvasSettings) (image.Image, error) {
	return m.RenderNode(domain.Node{}, domain.CanvasSettings{})
}

// mockExecutor runs functions inline.
type mockExecutor struct{}

func (mockExecutor) Do(fn func()) error {
	fn()
	return nil
}

type harnessOptions struct {
	recognizer driven.Recognizer
	rasterizer driven.InkRasterizer
	sessions   bool
}

// newTestServer wires a server to a real engine running on its own loop.
func newTestServer(t *testing.T, opts harnessOptions) *Server {
	t.Helper()

	loop := services.NewLoop()
	engine := services.NewInkManager(loop, domain.DefaultAppSettings().Canvas)
	if opts.recognizer != nil {
		engine.SetRecognizer(opts.recognizer)
	}
	if opts.rasterizer != nil {
		engine.SetRasterizer(opts.rasterizer)
	}

	ports := &Ports{Ink: engine, Loop: loop}
	if opts.sessions {
		ports.Sessions = services.NewSessionService(memory.NewSessionStore())
	}

	server, err := NewServer(ports)
	require.NoError(t, err)
	engine.SetRenderer(server.Renderer())

	t.Cleanup(func() {
		_ = loop.Do(engine.Close)
		loop.Close()
	})
	return server
}

// horizontalStroke is a flat stroke from (x0, y) to (x1, y).
func horizontalStroke(x0, x1, y float64) []PointInput {
	var points []PointInput
	for x := x0; x <= x1; x += 10 {
		points = append(points, PointInput{X: x, Y: y})
	}
	return points
}
