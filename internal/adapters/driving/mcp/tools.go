package mcp

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

// Waiting for recognition polls the engine at this interval, up to waitTimeout.
const (
	pollInterval = 20 * time.Millisecond
	waitTimeout  = 15 * time.Second
)

// PointInput is a point in canvas coordinates.
type PointInput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AddStrokeInput is the input schema for the add_stroke tool.
type AddStrokeInput struct {
	Points []PointInput `json:"points" jsonschema:"pen samples in drawing order; y grows downward"`
	Wait   bool         `json:"wait,omitempty" jsonschema:"wait for recognition to finish before returning"`
}

// SelectAtInput is the input schema for the select_at tool.
type SelectAtInput struct {
	X float64 `json:"x" jsonschema:"horizontal canvas coordinate"`
	Y float64 `json:"y" jsonschema:"vertical canvas coordinate"`
}

// ReplaceSelectedInput is the input schema for the replace_selected tool.
type ReplaceSelectedInput struct {
	Character string `json:"character" jsonschema:"exactly one character to print in place of the selected symbol"`
}

// GetStateInput is the input schema for the get_state tool.
type GetStateInput struct {
	Wait bool `json:"wait,omitempty" jsonschema:"wait for pending recognition to finish"`
}

// SaveSessionInput is the input schema for the save_session tool.
type SaveSessionInput struct {
	Name string `json:"name,omitempty" jsonschema:"name for a new session"`
	ID   string `json:"id,omitempty" jsonschema:"existing session to overwrite"`
}

// LoadSessionInput is the input schema for the load_session tool.
type LoadSessionInput struct {
	Ref string `json:"ref" jsonschema:"session ID or unique name"`
}

// EmptyInput is used by tools without arguments.
type EmptyInput struct{}

// ChangeOutput reports whether a tool changed the canvas.
type ChangeOutput struct {
	Changed bool        `json:"changed"`
	State   StateOutput `json:"state"`
}

// SelectOutput is the output schema for the select_at tool.
type SelectOutput struct {
	Selected bool        `json:"selected"`
	Node     *NodeOutput `json:"node,omitempty"`
	State    StateOutput `json:"state"`
}

// SessionOutput describes a stored session.
type SessionOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Units     int    `json:"units"`
	LaTeX     string `json:"latex"`
	UpdatedAt string `json:"updated_at"`
}

// PreviewOutput is the output schema for the preview_selected tool.
type PreviewOutput struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_stroke",
		Description: "Draw one pen stroke on the canvas and start recognition",
	}, s.handleAddStroke)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "undo",
		Description: "Undo the last stroke or edit",
	}, s.handleUndo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "redo",
		Description: "Redo the last undone stroke or edit",
	}, s.handleRedo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "select_at",
		Description: "Select the recognized symbol under a point; repeat to cycle through overlapping symbols",
	}, s.handleSelectAt)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear_selection",
		Description: "Deselect the current symbol",
	}, s.handleClearSelection)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_selected",
		Description: "Erase the ink of the selected symbol",
	}, s.handleRemoveSelected)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "replace_selected",
		Description: "Replace the selected symbol's ink with a printed character",
	}, s.handleReplaceSelected)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_state",
		Description: "Get the recognized LaTeX, symbols, selection and history state",
	}, s.handleGetState)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preview_selected",
		Description: "Render the selected symbol as a PNG image",
	}, s.handlePreviewSelected)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "save_session",
		Description: "Save the canvas, including redo history, as a session",
	}, s.handleSaveSession)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load_session",
		Description: "Replace the canvas with a saved session",
	}, s.handleLoadSession)
}

// handleAddStroke feeds the points through the stroke builder as pen samples.
func (s *Server) handleAddStroke(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddStrokeInput,
) (*mcp.CallToolResult, StateOutput, error) {
	if len(input.Points) == 0 {
		return nil, StateOutput{}, fmt.Errorf("%w: a stroke needs at least one point", domain.ErrInvalidInput)
	}

	points := make([]domain.Point, len(input.Points))
	for i, p := range input.Points {
		points[i] = domain.Point{X: p.X, Y: p.Y}
	}

	err := s.do(func() {
		ink := s.ports.Ink
		ink.BeginStroke(points[0])
		if len(points) == 1 {
			ink.ExtendStroke(points[0], points[0], true)
			return
		}
		for i := 1; i < len(points); i++ {
			ink.ExtendStroke(points[i], points[i-1], i == len(points)-1)
		}
	})
	if err != nil {
		return nil, StateOutput{}, err
	}

	if input.Wait {
		if err := s.awaitIdle(ctx); err != nil {
			return nil, StateOutput{}, err
		}
	}
	state, err := s.snapshot()
	return nil, state, err
}

func (s *Server) handleUndo(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ChangeOutput, error) {
	return s.change(func() bool {
		_, ok := s.ports.Ink.Undo()
		return ok
	})
}

func (s *Server) handleRedo(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ChangeOutput, error) {
	return s.change(func() bool {
		_, ok := s.ports.Ink.Redo()
		return ok
	})
}

func (s *Server) handleSelectAt(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SelectAtInput,
) (*mcp.CallToolResult, SelectOutput, error) {
	var out SelectOutput
	err := s.do(func() {
		ink := s.ports.Ink
		node, ok := ink.SelectAt(domain.Point{X: input.X, Y: input.Y})
		out.Selected = ok
		if ok {
			i, _ := ink.SelectedIndex()
			n := nodeOutput(i, node)
			out.Node = &n
		}
		out.State = s.state.snapshot(ink)
	})
	return nil, out, err
}

func (s *Server) handleClearSelection(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ChangeOutput, error) {
	return s.change(func() bool {
		_, had := s.ports.Ink.SelectedIndex()
		s.ports.Ink.ClearSelection()
		return had
	})
}

func (s *Server) handleRemoveSelected(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ChangeOutput, error) {
	return s.change(func() bool {
		_, ok := s.ports.Ink.RemoveSelected()
		return ok
	})
}

func (s *Server) handleReplaceSelected(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ReplaceSelectedInput,
) (*mcp.CallToolResult, ChangeOutput, error) {
	if !domain.IsSingleCharacter(input.Character) {
		return nil, ChangeOutput{}, fmt.Errorf("%w: %q is not a single character", domain.ErrInvalidInput, input.Character)
	}
	return s.change(func() bool {
		_, ok := s.ports.Ink.ReplaceSelected(input.Character)
		return ok
	})
}

func (s *Server) handleGetState(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetStateInput,
) (*mcp.CallToolResult, StateOutput, error) {
	if input.Wait {
		if err := s.awaitIdle(ctx); err != nil {
			return nil, StateOutput{}, err
		}
	}
	state, err := s.snapshot()
	return nil, state, err
}

type previewResult struct {
	img image.Image
	err error
}

// handlePreviewSelected returns the selected node as an image content block.
func (s *Server) handlePreviewSelected(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, PreviewOutput, error) {
	done := make(chan previewResult, 1)
	var startErr error
	err := s.do(func() {
		startErr = s.ports.Ink.PreviewSelected(func(img image.Image, err error) {
			done <- previewResult{img: img, err: err}
		})
	})
	if err != nil {
		return nil, PreviewOutput{}, err
	}
	if startErr != nil {
		return nil, PreviewOutput{}, fmt.Errorf("preview: %w", startErr)
	}

	var result previewResult
	select {
	case result = <-done:
	case <-ctx.Done():
		return nil, PreviewOutput{}, ctx.Err()
	}
	if result.err != nil {
		return nil, PreviewOutput{}, fmt.Errorf("preview: %w", result.err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result.img); err != nil {
		return nil, PreviewOutput{}, fmt.Errorf("encoding preview: %w", err)
	}

	bounds := result.img.Bounds()
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.ImageContent{
			Data:     buf.Bytes(),
			MIMEType: "image/png",
		}},
	}, PreviewOutput{Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

func (s *Server) handleSaveSession(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SaveSessionInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	if s.ports.Sessions == nil {
		return nil, SessionOutput{}, ErrNoSessionStore
	}

	var log domain.InkLog
	var latex string
	if err := s.do(func() {
		log = s.ports.Ink.Snapshot()
		latex = s.ports.Ink.LaTeX()
	}); err != nil {
		return nil, SessionOutput{}, err
	}

	var session *domain.Session
	var err error
	if input.ID != "" {
		session, err = s.ports.Sessions.Update(ctx, input.ID, log, latex)
	} else {
		name := input.Name
		if name == "" {
			name = "mcp " + time.Now().Format("2006-01-02 15:04:05")
		}
		session, err = s.ports.Sessions.Save(ctx, name, log, latex)
	}
	if err != nil {
		return nil, SessionOutput{}, fmt.Errorf("saving session: %w", err)
	}
	return nil, sessionOutput(session.Summary()), nil
}

func (s *Server) handleLoadSession(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadSessionInput,
) (*mcp.CallToolResult, StateOutput, error) {
	if s.ports.Sessions == nil {
		return nil, StateOutput{}, ErrNoSessionStore
	}

	session, err := s.ports.Sessions.Get(ctx, input.Ref)
	if err != nil {
		return nil, StateOutput{}, fmt.Errorf("loading session: %w", err)
	}

	var restoreErr error
	var state StateOutput
	if err := s.do(func() {
		restoreErr = s.ports.Ink.Restore(session.Log)
		state = s.state.snapshot(s.ports.Ink)
	}); err != nil {
		return nil, StateOutput{}, err
	}
	if restoreErr != nil {
		return nil, StateOutput{}, fmt.Errorf("restoring session: %w", restoreErr)
	}
	return nil, state, nil
}

// change runs an edit on the engine and reports the result with fresh state.
func (s *Server) change(edit func() bool) (*mcp.CallToolResult, ChangeOutput, error) {
	var out ChangeOutput
	err := s.do(func() {
		out.Changed = edit()
		out.State = s.state.snapshot(s.ports.Ink)
	})
	return nil, out, err
}

func (s *Server) snapshot() (StateOutput, error) {
	var state StateOutput
	err := s.do(func() {
		state = s.state.snapshot(s.ports.Ink)
	})
	return state, err
}

// awaitIdle polls until no recognition request is pending.
func (s *Server) awaitIdle(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, waitTimeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		var pending bool
		if err := s.do(func() { pending = s.ports.Ink.Pending() }); err != nil {
			return err
		}
		if !pending {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for recognition: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func sessionOutput(summary domain.SessionSummary) SessionOutput {
	return SessionOutput{
		ID:        summary.ID,
		Name:      summary.Name,
		Units:     summary.Units,
		LaTeX:     summary.LaTeX,
		UpdatedAt: summary.UpdatedAt.Format(time.RFC3339),
	}
}
