package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

func TestReplayCmd_Use(t *testing.T) {
	assert.Equal(t, "replay [session]", replayCmd.Use)
}

func TestReplayCmd_NotConfigured(t *testing.T) {
	_, err := execute(t, "replay", "a")
	assert.ErrorIs(t, err, errNoSessions)
}

func TestReplayCmd_PrintsRecognition(t *testing.T) {
	svc, cleanup := setupTestServices(t, symbolRecognizer{})
	defer cleanup()
	savedSession(t, svc, "sum")

	out, err := execute(t, "replay", "sum")
	require.NoError(t, err)
	assert.Contains(t, out, "Session: sum")
	assert.Contains(t, out, "LaTeX: x")
	assert.Contains(t, out, "x ×")
}

func TestReplayCmd_Save(t *testing.T) {
	svc, cleanup := setupTestServices(t, symbolRecognizer{})
	defer cleanup()
	session := savedSession(t, svc, "product")
	defer func() { _ = replayCmd.Flags().Set("save", "false") }()

	out, err := execute(t, "replay", "product", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved product")

	updated, err := svc.sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", updated.LaTeX)
	assert.Equal(t, 1, updated.Log.HistoryIndex)
	assert.Len(t, updated.Log.Units, 2)
}

func TestReplayCmd_NoRecognizer(t *testing.T) {
	svc, cleanup := setupTestServices(t, nil)
	defer cleanup()
	savedSession(t, svc, "plain")

	_, err := execute(t, "replay", "plain")
	assert.ErrorIs(t, err, domain.ErrRecognizerUnavailable)
}
