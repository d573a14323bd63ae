package driving

import "github.com/custodia-labs/mathink/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetCanvas updates the canvas geometry settings.
	SetCanvas(canvas domain.CanvasSettings) error

	// SetRecognizer updates the recognizer endpoint settings.
	SetRecognizer(recognizer domain.RecognizerSettings) error

	// Validate checks if current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
