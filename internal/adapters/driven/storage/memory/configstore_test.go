package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("canvas.line_width", 2.5))
	require.NoError(t, store.Set("recognizer.burst", 3))
	require.NoError(t, store.Set("recognizer.url", "ws://localhost:9000"))
	require.NoError(t, store.Set("flag", true))

	tests := []struct {
		name     string
		get      func() any
		expected any
	}{
		{name: "float", get: func() any { return store.GetFloat("canvas.line_width") }, expected: 2.5},
		{name: "int as float", get: func() any { return store.GetFloat("recognizer.burst") }, expected: 3.0},
		{name: "float as int", get: func() any { return store.GetInt("canvas.line_width") }, expected: 2},
		{name: "string", get: func() any { return store.GetString("recognizer.url") }, expected: "ws://localhost:9000"},
		{name: "missing float", get: func() any { return store.GetFloat("missing") }, expected: 0.0},
		{name: "wrong type string", get: func() any { return store.GetString("flag") }, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.get())
		})
	}
}

func TestConfigStore_NoOpPersistence(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}
