package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mathink/internal/adapters/driven/raster"
	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/services"
)

const timeLayout = "2006-01-02 15:04:05"

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved sessions",
	Long: `List, inspect, export and delete saved canvases.

Sessions are referenced by ID or by name when the name is unique.`,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionList,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [session]",
	Short: "Show a session's ink history",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete [session]",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionDelete,
}

var sessionExportCmd = &cobra.Command{
	Use:   "export [session]",
	Short: "Render a session's visible ink to a PNG file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionExport,
}

func init() {
	sessionExportCmd.Flags().StringP("output", "o", "", "output file (default <name>.png)")

	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	sessionCmd.AddCommand(sessionExportCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errNoSessions
	}

	summaries, err := sessionService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(summaries) == 0 {
		cmd.Println("No sessions saved.")
		return nil
	}

	cmd.Println("Sessions:")
	cmd.Println()
	for _, s := range summaries {
		cmd.Printf("  %s\n", s.ID)
		cmd.Printf("    Name:    %s\n", s.Name)
		cmd.Printf("    Units:   %d\n", s.Units)
		if s.LaTeX != "" {
			cmd.Printf("    LaTeX:   %s\n", s.LaTeX)
		}
		cmd.Printf("    Updated: %s\n", s.UpdatedAt.Format(timeLayout))
		cmd.Println()
	}

	cmd.Printf("Total: %d sessions\n", len(summaries))
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errNoSessions
	}

	session, err := sessionService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	cmd.Printf("Session: %s\n\n", session.ID)
	cmd.Printf("  Name:     %s\n", session.Name)
	cmd.Printf("  LaTeX:    %s\n", session.LaTeX)
	cmd.Printf("  History:  %d of %d units committed\n", session.Log.HistoryIndex, len(session.Log.Units))
	cmd.Printf("  Created:  %s\n", session.CreatedAt.Format(timeLayout))
	cmd.Printf("  Updated:  %s\n", session.UpdatedAt.Format(timeLayout))

	if len(session.Log.Units) > 0 {
		cmd.Println("\n  Units:")
		for i, unit := range session.Log.Units {
			marker := " "
			if i >= session.Log.HistoryIndex {
				marker = "~"
			}
			cmd.Printf("   %s%3d  %s\n", marker, i, describeInk(unit))
		}
	}
	return nil
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errNoSessions
	}

	if err := sessionService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	cmd.Printf("Deleted session: %s\n", args[0])
	return nil
}

func runSessionExport(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errNoSessions
	}
	if rasterizer == nil {
		return errNoRaster
	}

	session, err := sessionService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	ink, err := services.ReplayInk(session.Log.Committed())
	if err != nil {
		return fmt.Errorf("failed to replay session: %w", err)
	}
	if len(ink) == 0 {
		return fmt.Errorf("session %s has no visible ink", session.Name)
	}

	canvas := domain.DefaultAppSettings().Canvas
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			canvas = settings.Canvas
		}
	}

	img, err := rasterizer.RenderInk(ink, canvas)
	if err != nil {
		return fmt.Errorf("failed to render session: %w", err)
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("getting output flag: %w", err)
	}
	if output == "" {
		output = fileName(session.Name) + ".png"
	}
	if err := raster.SavePNG(output, img); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	bounds := img.Bounds()
	cmd.Printf("Exported %s (%dx%d) to %s\n", session.Name, bounds.Dx(), bounds.Dy(), output)
	return nil
}

// describeInk is a one-line summary of a log unit.
func describeInk(unit domain.Ink) string {
	frame := unit.Frame()
	switch u := unit.(type) {
	case domain.Stroke:
		return fmt.Sprintf("stroke     %d segments at (%.0f, %.0f) %.0fx%.0f",
			len(u.Path.Segments), frame.X, frame.Y, frame.Width, frame.Height)
	case domain.CharacterReplacement:
		return fmt.Sprintf("character  %q replacing %v", u.Character, u.Replaced)
	case domain.RemovalMarker:
		return fmt.Sprintf("removal    positions %v", u.Removed)
	default:
		return unit.Kind().String()
	}
}

// fileName turns a session name into a safe file name.
func fileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = filepath.Base(name)
	if name == "" || name == "." {
		return "session"
	}
	return name
}
