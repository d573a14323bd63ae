package tui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/mathink/internal/adapters/driving/tui/canvas"
	"github.com/custodia-labs/mathink/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/mathink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/mathink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
)

// Screen layout: one header row, the bordered canvas, a status row and a help row.
const (
	canvasOriginX = 1
	canvasOriginY = 2
	chromeRows    = 5
	chromeCols    = 2
)

// saveTimeout bounds a session save.
const saveTimeout = 5 * time.Second

// App is the TUI application following the Elm architecture.
// It implements tea.Model and receives engine notifications as driven.Renderer.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap
	help   help.Model
	grid   *canvas.Grid

	mode    messages.Mode
	drawing bool
	last    domain.Point

	history domain.History
	latex   string
	err     error
	status  string
	preview []string

	sessionID   string
	sessionName string

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model and driven.Renderer.
var (
	_ tea.Model       = (*App)(nil)
	_ driven.Renderer = (*App)(nil)
)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      styles.DefaultStyles(),
		keys:        keymap.DefaultKeyMap(),
		help:        help.New(),
		grid:        canvas.NewGrid(0, 0, 0, 0),
		history:     ports.Ink.History(),
		sessionName: "canvas " + time.Now().Format("2006-01-02 15:04"),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithSession makes saves update an existing session.
func (a *App) WithSession(id, name string) *App {
	a.sessionID = id
	if name != "" {
		a.sessionName = name
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("mathink")
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case messages.Dispatched:
		msg.Fn()
		return a, nil

	case messages.SettingsChanged:
		if err := a.ports.Ink.SetSettings(msg.Canvas); err != nil {
			a.err = err
		} else {
			a.status = "settings reloaded"
		}
		return a, nil

	case messages.SessionSaved:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.sessionID = msg.Session.ID
		a.sessionName = msg.Session.Name
		a.status = "saved " + msg.Session.Name
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			a.preview = nil
		}
		a.handleMouse(msg)
		return a, nil

	case tea.KeyMsg:
		a.preview = nil
		return a, a.handleKey(msg)
	}
	return a, nil
}

// SetDimensions resizes the canvas to fit the terminal.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.grid = canvas.NewGrid(width-chromeCols, height-chromeRows, canvas.DefaultCellWidth, canvas.DefaultCellHeight)
}

func (a *App) handleMouse(msg tea.MouseMsg) {
	p := a.grid.ToPoint(msg.X-canvasOriginX, msg.Y-canvasOriginY)
	ink := a.ports.Ink

	if a.mode == messages.ModeSelect {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if _, ok := ink.SelectAt(p); !ok {
				a.status = "nothing here"
			} else {
				a.status = ""
			}
		}
		return
	}

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		ink.BeginStroke(p)
		a.drawing = true
		a.last = p
	case msg.Action == tea.MouseActionMotion && a.drawing:
		if p == a.last {
			return
		}
		ink.ExtendStroke(p, a.last, false)
		a.last = p
	case msg.Action == tea.MouseActionRelease && a.drawing:
		ink.ExtendStroke(p, a.last, true)
		a.drawing = false
	}
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	ink := a.ports.Ink
	k := msg.String()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, a.keys.Mode):
		a.toggleMode()
	case key.Matches(msg, a.keys.Undo):
		if _, ok := ink.Undo(); !ok {
			a.status = "nothing to undo"
		}
	case key.Matches(msg, a.keys.Redo):
		if _, ok := ink.Redo(); !ok {
			a.status = "nothing to redo"
		}
	case key.Matches(msg, a.keys.Process):
		ink.Process()
	case key.Matches(msg, a.keys.Save):
		return a.save()
	case a.mode != messages.ModeSelect:
		return nil
	case key.Matches(msg, a.keys.Cancel):
		ink.ClearSelection()
	case key.Matches(msg, a.keys.Remove):
		if _, ok := ink.RemoveSelected(); !ok {
			a.err = ErrNothingSelected
		}
	case key.Matches(msg, a.keys.Candidate):
		a.applyCandidate(k)
	case key.Matches(msg, a.keys.Preview):
		a.requestPreview()
	}
	return nil
}

func (a *App) toggleMode() {
	if a.mode == messages.ModeDraw {
		a.mode = messages.ModeSelect
		return
	}
	a.mode = messages.ModeDraw
	a.ports.Ink.ClearSelection()
}

func (a *App) applyCandidate(k string) {
	i, ok := keymap.CandidateIndex(k)
	if !ok {
		return
	}
	candidates := a.ports.Ink.SelectedCandidates()
	if i >= len(candidates) {
		a.status = fmt.Sprintf("no candidate %d", i+1)
		return
	}
	if !a.ports.Ink.ApplyCandidate(domain.CandidateChoice{Value: candidates[i]}) {
		a.err = ErrNothingSelected
	}
}

func (a *App) requestPreview() {
	err := a.ports.Ink.PreviewSelected(func(img image.Image, err error) {
		if err != nil {
			a.err = err
			return
		}
		cols, rows := a.grid.Size()
		a.preview = canvas.Thumbnail(img, cols, rows)
		a.status = fmt.Sprintf("preview %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	})
	if err != nil {
		a.err = err
	}
}

// save snapshots the engine and stores it off the program goroutine.
func (a *App) save() tea.Cmd {
	sessions := a.ports.Sessions
	if sessions == nil {
		a.err = ErrNoSessionStore
		return nil
	}

	log := a.ports.Ink.Snapshot()
	latex := a.latex
	id, name := a.sessionID, a.sessionName
	ctx := a.ctx

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, saveTimeout)
		defer cancel()

		var session *domain.Session
		var err error
		if id != "" {
			session, err = sessions.Update(ctx, id, log, latex)
		} else {
			session, err = sessions.Save(ctx, name, log, latex)
		}
		return messages.SessionSaved{Session: session, Err: err}
	}
}

// ==================== Renderer ====================

// DidUpdateHistory implements driven.Renderer.
func (a *App) DidUpdateHistory(history domain.History) {
	a.history = history
}

// DidParse implements driven.Renderer.
func (a *App) DidParse(latex string) {
	a.latex = latex
	a.err = nil
}

// DidFailToParse implements driven.Renderer.
func (a *App) DidFailToParse(err error) {
	a.latex = ""
	a.err = err
}

// DidLoad implements driven.Renderer.
func (a *App) DidLoad(ink []domain.Ink) {
	a.status = fmt.Sprintf("loaded %d units", len(ink))
}

// DidScratchOut implements driven.Renderer.
func (a *App) DidScratchOut(domain.Rect) {
	a.status = "scratched out"
}

// ==================== View ====================

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.headerView(),
		a.styles.Canvas.Render(a.canvasView()),
		a.statusView(),
		a.helpView(),
	)
}

func (a *App) headerView() string {
	var flags []string
	if a.history.CanUndo {
		flags = append(flags, "undo")
	}
	if a.history.CanRedo {
		flags = append(flags, "redo")
	}
	if a.ports.Ink.Pending() {
		flags = append(flags, "recognizing…")
	}
	header := a.styles.Title.Render("mathink") + " " + a.styles.Muted.Render(a.mode.String())
	if len(flags) > 0 {
		header += " " + a.styles.Muted.Render("["+strings.Join(flags, " ")+"]")
	}
	return header
}

func (a *App) canvasView() string {
	if len(a.preview) > 0 {
		cols, rows := a.grid.Size()
		return lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center,
			strings.Join(a.preview, "\n"))
	}

	ink := a.ports.Ink
	a.grid.Clear()
	a.grid.DrawInk(ink.EffectiveInk())
	if path, ok := ink.Buffer(); ok {
		a.grid.DrawPath(path)
	}
	if i, ok := ink.SelectedIndex(); ok {
		if nodes := ink.Nodes(); i < len(nodes) {
			a.grid.Highlight(nodes[i].Frame)
		}
	}
	return a.grid.Render(a.styles)
}

func (a *App) statusView() string {
	var parts []string
	switch {
	case a.err != nil && errors.Is(a.err, domain.ErrRecognizerUnavailable):
		parts = append(parts, a.styles.Muted.Render("recognizer offline"))
	case a.err != nil:
		parts = append(parts, a.styles.Error.Render(a.err.Error()))
	case a.latex != "":
		parts = append(parts, a.styles.LaTeX.Render(a.latex))
	}

	if a.mode == messages.ModeSelect {
		candidates := a.ports.Ink.SelectedCandidates()
		for i, c := range candidates {
			if i == 9 {
				break
			}
			parts = append(parts, fmt.Sprintf("%d:%s", i+1, c))
		}
	}
	if a.status != "" {
		parts = append(parts, a.styles.Success.Render(a.status))
	}
	return a.styles.StatusBar.Render(strings.Join(parts, "  "))
}

func (a *App) helpView() string {
	if a.help.ShowAll {
		return a.help.View(a.keys)
	}
	if a.mode == messages.ModeSelect {
		return a.help.ShortHelpView(a.keys.SelectHelp())
	}
	return a.help.ShortHelpView(a.keys.ShortHelp())
}

// ==================== Accessors ====================

// Mode returns the pointer mode.
func (a *App) Mode() messages.Mode { return a.mode }

// LaTeX returns the last recognized expression.
func (a *App) LaTeX() string { return a.latex }

// Err returns the last error.
func (a *App) Err() error { return a.err }

// Preview returns the shaded preview of the selected node, if one is shown.
func (a *App) Preview() []string { return a.preview }

// Status returns the status message.
func (a *App) Status() string { return a.status }

// SessionID returns the session saves go to.
func (a *App) SessionID() string { return a.sessionID }

// Ready reports whether the app has received its dimensions.
func (a *App) Ready() bool { return a.ready }
