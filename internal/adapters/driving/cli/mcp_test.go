package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMCPCmd_HasServe(t *testing.T) {
	commands := mcpCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}
	assert.Contains(t, commandNames, "serve")
}

func TestMCPServeCmd_Flags(t *testing.T) {
	assert.NotNil(t, mcpServeCmd.Flags().Lookup("port"))
	assert.NotNil(t, mcpServeCmd.Flags().Lookup("metrics-addr"))
}

func TestMCPServeCmd_NoEngine(t *testing.T) {
	_, err := execute(t, "mcp", "serve")
	assert.ErrorIs(t, err, errNoEngine)
}
