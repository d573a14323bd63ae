package cli

import (
	"bytes"
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
type mockRasterizer struct{}

func (mockRasterizer) RenderNode(domain.Node, domain.CanvasSettings) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

func (mockRasterizer) RenderInk(ink []domain.Ink, _ domain.CanvasSettings) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 16*len(ink), 16)), nil
}

// testServices holds the in-memory services installed by setupTestServices.
type testServices struct {
	sessions *services.SessionService
	config   *memory.ConfigStore
}

// setupTestServices installs in-memory services and returns a cleanup function.
func setupTestServices(t *testing.T, recognizer driven.Recognizer) (*testServices, func()) {
	t.Helper()

	config := memory.NewConfigStore()
	sessions := services.NewSessionService(memory.NewSessionStore())

	SetConfigStore(config)
	SetSettingsService(services.NewSettingsService(config))
	SetSessionService(sessions)
	SetRasterizer(mockRasterizer{})
	SetEngineFactory(func(dispatcher driven.Dispatcher) (Engine, error) {
		engine := services.NewInkManager(dispatcher, domain.DefaultAppSettings().Canvas)
		if recognizer != nil {
			engine.SetRecognizer(recognizer)
		}
		return engine, nil
	})

	return &testServices{sessions: sessions, config: config}, func() {
		SetConfigStore(nil)
		SetSettingsService(nil)
		SetSessionService(nil)
		SetRasterizer(nil)
		SetEngineFactory(nil)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// savedSession stores a log with one committed horizontal stroke and one
// redo-available stroke.
func savedSession(t *testing.T, svc *testServices, name string) *domain.Session {
	t.Helper()

	var first, second domain.Path
	first.MoveTo(domain.Point{X: 10, Y: 10})
	first.LineTo(domain.Point{X: 60, Y: 10})
	second.MoveTo(domain.Point{X: 10, Y: 40})
	second.LineTo(domain.Point{X: 60, Y: 40})

	log := domain.InkLog{
		Units:        []domain.Ink{domain.NewStroke(first), domain.NewStroke(second)},
		HistoryIndex: 1,
	}
	session, err := svc.sessions.Save(context.Background(), name, log, "")
	require.NoError(t, err)
	return session
}
