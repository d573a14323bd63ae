package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
	"github.com/custodia-labs/mathink/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyLineWidth         = "canvas.line_width"
	keySelectionPadding  = "canvas.selection_padding"
	keyRecognizerURL     = "recognizer.url"
	keyRecognizerTimeout = "recognizer.timeout"
	keyRecognizerRate    = "recognizer.rate"
	keyRecognizerBurst   = "recognizer.burst"
	keyDataDir           = "storage.data_dir"
	keyMetricsAddr       = "metrics.addr"
)

// SettingKeys lists every key the settings service reads.
func SettingKeys() []string {
	return []string{
		keyLineWidth,
		keySelectionPadding,
		keyRecognizerURL,
		keyRecognizerTimeout,
		keyRecognizerRate,
		keyRecognizerBurst,
		keyDataDir,
		keyMetricsAddr,
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Canvas: domain.CanvasSettings{
			LineWidth:        s.getFloat(keyLineWidth, defaults.Canvas.LineWidth),
			SelectionPadding: s.getFloat(keySelectionPadding, defaults.Canvas.SelectionPadding),
		},
		Recognizer: domain.RecognizerSettings{
			URL:     s.configStore.GetString(keyRecognizerURL), // No default - empty disables recognition
			Timeout: s.getDuration(keyRecognizerTimeout, defaults.Recognizer.Timeout),
			Rate:    s.getFloat(keyRecognizerRate, defaults.Recognizer.Rate),
			Burst:   s.getInt(keyRecognizerBurst, defaults.Recognizer.Burst),
		},
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(keyDataDir),
		},
		Metrics: domain.MetricsSettings{
			Addr: s.configStore.GetString(keyMetricsAddr),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	// Save canvas settings
	if err := s.configStore.Set(keyLineWidth, settings.Canvas.LineWidth); err != nil {
		return fmt.Errorf("save line width: %w", err)
	}
	if err := s.configStore.Set(keySelectionPadding, settings.Canvas.SelectionPadding); err != nil {
		return fmt.Errorf("save selection padding: %w", err)
	}

	// Save recognizer settings
	if err := s.configStore.Set(keyRecognizerURL, settings.Recognizer.URL); err != nil {
		return fmt.Errorf("save recognizer url: %w", err)
	}
	if err := s.configStore.Set(keyRecognizerTimeout, settings.Recognizer.Timeout.String()); err != nil {
		return fmt.Errorf("save recognizer timeout: %w", err)
	}
	if err := s.configStore.Set(keyRecognizerRate, settings.Recognizer.Rate); err != nil {
		return fmt.Errorf("save recognizer rate: %w", err)
	}
	if err := s.configStore.Set(keyRecognizerBurst, settings.Recognizer.Burst); err != nil {
		return fmt.Errorf("save recognizer burst: %w", err)
	}

	// Save storage and metrics settings
	if err := s.configStore.Set(keyDataDir, settings.Storage.DataDir); err != nil {
		return fmt.Errorf("save data dir: %w", err)
	}
	if err := s.configStore.Set(keyMetricsAddr, settings.Metrics.Addr); err != nil {
		return fmt.Errorf("save metrics addr: %w", err)
	}

	return nil
}

// SetCanvas updates the canvas geometry settings.
func (s *SettingsService) SetCanvas(canvas domain.CanvasSettings) error {
	if !canvas.IsValid() {
		return fmt.Errorf("%w: line width must be positive and padding non-negative", domain.ErrInvalidInput)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Canvas = canvas
	return s.Save(settings)
}

// SetRecognizer updates the recognizer endpoint settings.
func (s *SettingsService) SetRecognizer(recognizer domain.RecognizerSettings) error {
	if recognizer.Timeout < 0 || recognizer.Rate < 0 || recognizer.Burst < 0 {
		return fmt.Errorf("%w: recognizer limits must not be negative", domain.ErrInvalidInput)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Recognizer = recognizer
	return s.Save(settings)
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.Canvas.IsValid() {
		return fmt.Errorf("invalid canvas settings: line width %.2f, padding %.2f",
			settings.Canvas.LineWidth, settings.Canvas.SelectionPadding)
	}
	if settings.Recognizer.IsConfigured() && settings.Recognizer.Rate > 0 && settings.Recognizer.Burst < 1 {
		return fmt.Errorf("recognizer burst must be at least 1 when a rate is set")
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}
