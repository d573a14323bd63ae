// Package cli provides the cobra command tree for mathink.
//
// Services are injected by the composition root through the Set* functions
// before Execute is called.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mathink/internal/core/ports/driven"
	"github.com/custodia-labs/mathink/internal/core/ports/driving"
	"github.com/custodia-labs/mathink/internal/logger"
)

// version is set at build time.
var version = "dev"

// Engine is an ink engine together with the hooks hosts attach to it.
type Engine interface {
	driving.InkService

	// SetRenderer attaches the host's delegate.
	SetRenderer(renderer driven.Renderer)

	// Close cancels recognition still in flight.
	Close()
}

// EngineFactory builds an engine whose completions are posted to dispatcher.
type EngineFactory func(dispatcher driven.Dispatcher) (Engine, error)

// WatchFunc starts watching the configuration file and calls onChange after
// every reload. The returned stop function ends the watch.
type WatchFunc func(ctx context.Context, onChange func()) (stop func(), err error)

var (
	engineFactory   EngineFactory
	sessionService  driving.SessionService
	settingsService driving.SettingsService
	configStore     driven.ConfigStore
	rasterizer      driven.InkRasterizer
	watchConfig     WatchFunc
)

// Errors returned when a command runs without its service.
var (
	errNoEngine   = errors.New("ink engine not configured")
	errNoSessions = errors.New("session service not configured")
	errNoSettings = errors.New("settings service not configured")
	errNoConfig   = errors.New("config store not configured")
	errNoRaster   = errors.New("rasterizer not configured")
)

var rootCmd = &cobra.Command{
	Use:   "mathink",
	Short: "Handwritten math input",
	Long: `mathink turns handwritten strokes into LaTeX.

Draw with the mouse in the terminal, let an AI assistant draw over MCP,
and keep every canvas as a session with its full undo history.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log engine activity to stderr")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetEngineFactory sets how commands build ink engines.
func SetEngineFactory(factory EngineFactory) {
	engineFactory = factory
}

// SetSessionService sets the session service.
func SetSessionService(service driving.SessionService) {
	sessionService = service
}

// SetSettingsService sets the settings service.
func SetSettingsService(service driving.SettingsService) {
	settingsService = service
}

// SetConfigStore sets the raw configuration store used by the config command.
func SetConfigStore(store driven.ConfigStore) {
	configStore = store
}

// SetRasterizer sets the rasterizer used by session export.
func SetRasterizer(r driven.InkRasterizer) {
	rasterizer = r
}

// SetConfigWatcher sets how the draw command follows configuration edits.
func SetConfigWatcher(watch WatchFunc) {
	watchConfig = watch
}
