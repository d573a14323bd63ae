package domain

import "time"

// Default canvas metrics.
const (
	DefaultLineWidth        = 3.0
	DefaultSelectionPadding = 8.0
)

// CanvasSettings holds geometry configuration read by the engine.
type CanvasSettings struct {
	// LineWidth is the stroke width.
	LineWidth float64

	// SelectionPadding is extra room around a node for hit-testing.
	SelectionPadding float64
}

// NodePadding is the amount node frames are expanded by for hit-testing and redraws.
func (c CanvasSettings) NodePadding() float64 {
	return c.LineWidth + c.SelectionPadding
}

// HistoryPadding is the amount an undone or redone unit's frame is expanded by.
func (c CanvasSettings) HistoryPadding() float64 {
	return c.LineWidth * 2
}

// IsValid returns true if the settings are usable.
func (c CanvasSettings) IsValid() bool {
	return c.LineWidth > 0 && c.SelectionPadding >= 0
}

// RecognizerSettings holds recognizer endpoint configuration.
type RecognizerSettings struct {
	// URL is the websocket endpoint. Empty disables recognition.
	URL string

	// Timeout bounds a single recognition request.
	Timeout time.Duration

	// Rate is the sustained number of requests per second.
	Rate float64

	// Burst is the maximum request burst.
	Burst int
}

// IsConfigured returns true if a recognizer endpoint is set.
func (r RecognizerSettings) IsConfigured() bool {
	return r.URL != ""
}

// StorageSettings holds session storage configuration.
type StorageSettings struct {
	// DataDir is the directory holding the session database.
	// Empty means the default location.
	DataDir string
}

// MetricsSettings holds metrics exposition configuration.
type MetricsSettings struct {
	// Addr is the listen address for /metrics. Empty disables it.
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Canvas     CanvasSettings
	Recognizer RecognizerSettings
	Storage    StorageSettings
	Metrics    MetricsSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Recognition is left unconfigured by default.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Canvas: CanvasSettings{
			LineWidth:        DefaultLineWidth,
			SelectionPadding: DefaultSelectionPadding,
		},
		Recognizer: RecognizerSettings{
			Timeout: 10 * time.Second,
			Rate:    4,
			Burst:   2,
		},
	}
}
