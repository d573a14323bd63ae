package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, 3.0, s.Canvas.LineWidth)
	assert.Equal(t, 8.0, s.Canvas.SelectionPadding)
	assert.Equal(t, 11.0, s.Canvas.NodePadding())
	assert.Equal(t, 6.0, s.Canvas.HistoryPadding())
	assert.True(t, s.Canvas.IsValid())
	assert.False(t, s.Recognizer.IsConfigured())
}

func TestCanvasSettings_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		settings CanvasSettings
		expected bool
	}{
		{name: "defaults", settings: CanvasSettings{LineWidth: 3, SelectionPadding: 8}, expected: true},
		{name: "zero padding", settings: CanvasSettings{LineWidth: 1}, expected: true},
		{name: "zero line width", settings: CanvasSettings{SelectionPadding: 8}, expected: false},
		{name: "negative padding", settings: CanvasSettings{LineWidth: 1, SelectionPadding: -1}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsValid())
		})
	}
}
