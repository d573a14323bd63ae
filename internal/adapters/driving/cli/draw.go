package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/mathink/internal/adapters/driving/tui"
	"github.com/custodia-labs/mathink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/mathink/internal/logger"
)

var errNotTerminal = errors.New("draw needs an interactive terminal")

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Open the drawing canvas",
	Long: `Open an interactive canvas in the terminal and draw with the mouse.

Controls:
  drag       - Draw a stroke
  tab        - Switch between draw and select mode
  click      - Select a symbol (select mode); click again to cycle
  1-9        - Replace the selected symbol with a candidate
  x          - Remove the selected symbol
  u / r      - Undo / redo
  s          - Save the session
  ?          - Toggle help
  q          - Quit`,
	Args: cobra.NoArgs,
	RunE: runDraw,
}

func init() {
	drawCmd.Flags().StringP("session", "s", "", "open a saved session by ID or name")
	rootCmd.AddCommand(drawCmd)
}

func runDraw(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in canvas: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if engineFactory == nil {
		return errNoEngine
	}
	ref, err := cmd.Flags().GetString("session")
	if err != nil {
		return fmt.Errorf("getting session flag: %w", err)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	if logger.IsVerbose() {
		path := filepath.Join(os.TempDir(), "mathink-debug.log")
		f, err := tea.LogToFile(path, "mathink")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
		defer logger.SetOutput(os.Stderr)
	}

	dispatcher := tui.NewDispatcher()
	engine, err := engineFactory(dispatcher)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	app, err := tui.NewApp(&tui.Ports{Ink: engine, Sessions: sessionService})
	if err != nil {
		return fmt.Errorf("failed to create canvas: %w", err)
	}
	app.WithContext(cmd.Context())
	engine.SetRenderer(app)

	if ref != "" {
		if sessionService == nil {
			return errNoSessions
		}
		session, err := sessionService.Get(cmd.Context(), ref)
		if err != nil {
			return fmt.Errorf("opening session: %w", err)
		}
		if err := engine.Restore(session.Log); err != nil {
			return fmt.Errorf("restoring session: %w", err)
		}
		app.WithSession(session.ID, session.Name)
	}

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	dispatcher.Attach(p.Send)

	if watchConfig != nil && settingsService != nil {
		stop, err := watchConfig(cmd.Context(), func() {
			settings, err := settingsService.Get()
			if err != nil {
				logger.Warn("Reload settings: %v", err)
				return
			}
			p.Send(messages.SettingsChanged{Canvas: settings.Canvas})
		})
		if err != nil {
			logger.Warn("Config watch disabled: %v", err)
		} else {
			defer stop()
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("canvas error: %w", err)
	}
	return nil
}
