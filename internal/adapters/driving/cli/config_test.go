package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd_HasSubcommands(t *testing.T) {
	commands := configCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "set")
}

func TestConfigCmd_NotConfigured(t *testing.T) {
	_, err := execute(t, "config", "list")
	assert.ErrorIs(t, err, errNoSettings)

	_, err = execute(t, "config", "get", "canvas.line_width")
	assert.ErrorIs(t, err, errNoConfig)
}

func TestConfigListCmd_ShowsDefaults(t *testing.T) {
	_, cleanup := setupTestServices(t, nil)
	defer cleanup()

	out, err := execute(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Line width:         3.00")
	assert.Contains(t, out, "Selection padding:  8.00")
	assert.Contains(t, out, "URL:      (disabled)")
	assert.Contains(t, out, "Timeout:  10s")
}

func TestConfigSetGet(t *testing.T) {
	svc, cleanup := setupTestServices(t, nil)
	defer cleanup()

	out, err := execute(t, "config", "get", "canvas.line_width")
	require.NoError(t, err)
	assert.Contains(t, out, "(unset)")

	out, err = execute(t, "config", "set", "canvas.line_width", "4.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Set canvas.line_width = 4.5")
	assert.InDelta(t, 4.5, svc.config.GetFloat("canvas.line_width"), 1e-9)

	out, err = execute(t, "config", "get", "canvas.line_width")
	require.NoError(t, err)
	assert.Contains(t, out, "4.5")

	_, err = execute(t, "config", "set", "recognizer.burst", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, svc.config.GetInt("recognizer.burst"))

	_, err = execute(t, "config", "set", "recognizer.url", "ws://localhost:8765")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8765", svc.config.GetString("recognizer.url"))
}

func TestConfigSetCmd_WarnsOnInvalidSettings(t *testing.T) {
	_, cleanup := setupTestServices(t, nil)
	defer cleanup()

	out, err := execute(t, "config", "set", "canvas.line_width", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
}

func TestConfigCmd_UnknownKey(t *testing.T) {
	_, cleanup := setupTestServices(t, nil)
	defer cleanup()

	_, err := execute(t, "config", "set", "canvas.colour", "red")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{input: "true", expected: true},
		{input: "false", expected: false},
		{input: "1", expected: int64(1)},
		{input: "2.5", expected: 2.5},
		{input: "10s", expected: "10s"},
		{input: "ws://host", expected: "ws://host"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseValue(tt.input))
		})
	}
}
