package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
	"github.com/custodia-labs/mathink/internal/core/services"
	"github.com/custodia-labs/mathink/internal/logger"
)

const replayPollInterval = 20 * time.Millisecond

var replayCmd = &cobra.Command{
	Use:   "replay [session]",
	Short: "Recognize a saved session again",
	Long: `Load a saved session into a fresh engine, send its visible ink to the
recognizer and print the resulting LaTeX and symbols.

Use --save to store the new LaTeX back into the session.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().Duration("timeout", 30*time.Second, "how long to wait for recognition")
	replayCmd.Flags().Bool("save", false, "update the session with the recognized LaTeX")
	rootCmd.AddCommand(replayCmd)
}

// replayRenderer keeps the last recognition outcome.
// It is only touched on the loop goroutine.
type replayRenderer struct {
	err       error
	scratched int
}

var _ driven.Renderer = (*replayRenderer)(nil)

func (r *replayRenderer) DidUpdateHistory(domain.History) {}
func (r *replayRenderer) DidParse(string)                 { r.err = nil }
func (r *replayRenderer) DidFailToParse(err error)        { r.err = err }
func (r *replayRenderer) DidLoad([]domain.Ink)            {}
func (r *replayRenderer) DidScratchOut(domain.Rect)       { r.scratched++ }

func runReplay(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errNoSessions
	}
	if engineFactory == nil {
		return errNoEngine
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("getting timeout flag: %w", err)
	}
	save, err := cmd.Flags().GetBool("save")
	if err != nil {
		return fmt.Errorf("getting save flag: %w", err)
	}

	session, err := sessionService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	logger.Section("Replay " + session.Name)
	loop := services.NewLoop()
	defer loop.Close()

	engine, err := engineFactory(loop)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer func() { _ = loop.Do(engine.Close) }()

	renderer := &replayRenderer{}
	var restoreErr error
	if err := loop.Do(func() {
		engine.SetRenderer(renderer)
		restoreErr = engine.Restore(session.Log)
	}); err != nil {
		return err
	}
	if restoreErr != nil {
		return fmt.Errorf("failed to restore session: %w", restoreErr)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	if err := awaitRecognition(ctx, loop, engine); err != nil {
		return err
	}

	var (
		latex     string
		nodes     []domain.Node
		log       domain.InkLog
		parseErr  error
		scratched int
	)
	if err := loop.Do(func() {
		latex = engine.LaTeX()
		nodes = engine.Nodes()
		log = engine.Snapshot()
		parseErr = renderer.err
		scratched = renderer.scratched
	}); err != nil {
		return err
	}
	if parseErr != nil {
		return fmt.Errorf("recognition failed: %w", parseErr)
	}

	cmd.Printf("Session: %s\n\n", session.Name)
	cmd.Printf("  LaTeX: %s\n", latex)
	if scratched > 0 {
		cmd.Printf("  Scratched out: %d\n", scratched)
	}
	if len(nodes) > 0 {
		cmd.Println("\n  Symbols:")
		for i, n := range nodes {
			cmd.Printf("    %2d  %-24s at (%.0f, %.0f)\n", i, strings.Join(n.Candidates, " "), n.Frame.X, n.Frame.Y)
		}
	}

	if save {
		if _, err := sessionService.Update(cmd.Context(), session.ID, log, latex); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		cmd.Printf("\nSaved %s\n", session.Name)
	}
	return nil
}

// awaitRecognition polls until the engine has no outstanding request.
func awaitRecognition(ctx context.Context, loop *services.Loop, engine Engine) error {
	ticker := time.NewTicker(replayPollInterval)
	defer ticker.Stop()

	for {
		var pending bool
		if err := loop.Do(func() { pending = engine.Pending() }); err != nil {
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
