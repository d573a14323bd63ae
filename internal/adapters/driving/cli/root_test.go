package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/mathink/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "mathink", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "draw")
	assert.Contains(t, commandNames, "mcp")
	assert.Contains(t, commandNames, "session")
	assert.Contains(t, commandNames, "replay")
	assert.Contains(t, commandNames, "config")
	assert.Contains(t, commandNames, "version")
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	defer func() {
		_ = rootCmd.PersistentFlags().Set("verbose", "false")
		logger.SetVerbose(false)
	}()

	_, err := execute(t, "--verbose", "version")
	assert.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}
