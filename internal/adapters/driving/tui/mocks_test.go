package tui

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
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
			Candidates: []string{"x", "×", "times"},
		})
	}
	return result, nil
}

// inkRasterizer renders every node as a solid black image.
type inkRasterizer struct{}

var _ driven.InkRasterizer = inkRasterizer{}

func (inkRasterizer) RenderNode(domain.Node, domain.CanvasSettings) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return img, nil
}

func (inkRasterizer) RenderInk([]domain.Ink, domain.CanvasSettings) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

// testHarness wires an App to a real engine whose completions land on msgs.
type testHarness struct {
	app    *App
	engine *services.InkManager
	msgs   chan tea.Msg
}

func newHarness(t *testing.T, recognizer driven.Recognizer, sessions bool) *testHarness {
	t.Helper()

	msgs := make(chan tea.Msg, 16)
	dispatcher := NewDispatcher()
	dispatcher.Attach(func(m tea.Msg) { msgs <- m })

	engine := services.NewInkManager(dispatcher, domain.DefaultAppSettings().Canvas)
	if recognizer != nil {
		engine.SetRecognizer(recognizer)
	}
	t.Cleanup(engine.Close)

	ports := &Ports{Ink: engine}
	if sessions {
		ports.Sessions = services.NewSessionService(memory.NewSessionStore())
	}
	app, err := NewApp(ports)
	require.NoError(t, err)
	engine.SetRenderer(app)
	app.SetDimensions(42, 15)

	return &testHarness{app: app, engine: engine, msgs: msgs}
}

// deliver runs the next posted completion inside Update.
func (h *testHarness) deliver(t *testing.T) {
	t.Helper()
	select {
	case msg := <-h.msgs:
		h.app.Update(msg)
	case <-time.After(time.Second):
		t.Fatal("no completion delivered")
	}
}

func (h *testHarness) mouse(x, y int, action tea.MouseAction) {
	button := tea.MouseButtonLeft
	if action == tea.MouseActionRelease {
		button = tea.MouseButtonNone
	}
	h.app.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
}

// drawLine drags from column x0 to x1 along terminal row y.
func (h *testHarness) drawLine(x0, x1, y int) {
	h.mouse(x0, y, tea.MouseActionPress)
	for x := x0 + 1; x < x1; x++ {
		h.mouse(x, y, tea.MouseActionMotion)
	}
	h.mouse(x1, y, tea.MouseActionRelease)
}

func (h *testHarness) key(s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := h.app.Update(msg)
	return cmd
}
