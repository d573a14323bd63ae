package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mathink/internal/core/domain"
	"github.com/custodia-labs/mathink/internal/core/services"
)

func TestNewServer(t *testing.T) {
	t.Run("nil ink service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Loop: mockExecutor{}})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingInkService)
	})

	t.Run("nil executor returns error", func(t *testing.T) {
		engine := services.NewInkManager(nil, domain.DefaultAppSettings().Canvas)
		server, err := NewServer(&Ports{Ink: engine})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingExecutor)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server := newTestServer(t, harnessOptions{})
		assert.NotNil(t, server)
		assert.NotNil(t, server.Renderer())
	})
}

func TestPorts_Validate(t *testing.T) {
	engine := services.NewInkManager(nil, domain.DefaultAppSettings().Canvas)

	t.Run("empty ports is invalid", func(t *testing.T) {
		ports := &Ports{}
		assert.ErrorIs(t, ports.Validate(), ErrMissingInkService)
	})

	t.Run("ink and executor is valid", func(t *testing.T) {
		ports := &Ports{Ink: engine, Loop: mockExecutor{}}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Ink:      engine,
			Loop:     mockExecutor{},
			Sessions: services.NewSessionService(nil),
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_ClosedLoop(t *testing.T) {
	loop := services.NewLoop()
	engine := services.NewInkManager(loop, domain.DefaultAppSettings().Canvas)
	server, err := NewServer(&Ports{Ink: engine, Loop: loop})
	require.NoError(t, err)
	loop.Close()

	_, _, err = server.handleGetState(t.Context(), nil, GetStateInput{})
	assert.ErrorIs(t, err, domain.ErrClosed)
}
