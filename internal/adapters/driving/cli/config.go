package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mathink/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change configuration",
	Long: `View and change values in the configuration file.

Keys:
  canvas.line_width         stroke width in canvas units
  canvas.selection_padding  extra hit-test room around symbols
  recognizer.url            websocket endpoint; empty disables recognition
  recognizer.timeout        per-request timeout, e.g. 10s
  recognizer.rate           requests per second
  recognizer.burst          request burst
  storage.data_dir          directory holding the session database
  metrics.addr              listen address for /metrics`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	recognizerURL := settings.Recognizer.URL
	if recognizerURL == "" {
		recognizerURL = "(disabled)"
	}
	metricsAddr := settings.Metrics.Addr
	if metricsAddr == "" {
		metricsAddr = "(disabled)"
	}
	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}

	if configStore != nil {
		cmd.Printf("Config file: %s\n\n", configStore.Path())
	}
	cmd.Println("Canvas:")
	cmd.Printf("  Line width:         %.2f\n", settings.Canvas.LineWidth)
	cmd.Printf("  Selection padding:  %.2f\n", settings.Canvas.SelectionPadding)
	cmd.Println("\nRecognizer:")
	cmd.Printf("  URL:      %s\n", recognizerURL)
	cmd.Printf("  Timeout:  %s\n", settings.Recognizer.Timeout)
	cmd.Printf("  Rate:     %.2f/s\n", settings.Recognizer.Rate)
	cmd.Printf("  Burst:    %d\n", settings.Recognizer.Burst)
	cmd.Println("\nStorage:")
	cmd.Printf("  Data dir: %s\n", dataDir)
	cmd.Println("\nMetrics:")
	cmd.Printf("  Addr:     %s\n", metricsAddr)

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("\nWarning: %v\n", err)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errNoConfig
	}
	key := args[0]
	if !slices.Contains(services.SettingKeys(), key) {
		return fmt.Errorf("unknown key %q", key)
	}

	value, ok := configStore.Get(key)
	if !ok {
		cmd.Println("(unset)")
		return nil
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errNoConfig
	}
	key, raw := args[0], args[1]
	if !slices.Contains(services.SettingKeys(), key) {
		return fmt.Errorf("unknown key %q", key)
	}

	if err := configStore.Set(key, parseValue(raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s = %s\n", key, raw)

	if settingsService != nil {
		if err := settingsService.Validate(); err != nil {
			cmd.Printf("Warning: %v\n", err)
		}
	}
	return nil
}

// parseValue types a command-line value the way TOML would.
func parseValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
