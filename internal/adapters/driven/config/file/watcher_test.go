package file

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnExternalWrite(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	changed := make(chan struct{}, 4)
	w, err := NewWatcher(store, func() { changed <- struct{}{} })
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(store.Path(), []byte("[canvas]\nline_width = 5.0\n"), 0600))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}
	assert.Equal(t, 5.0, store.GetFloat("canvas.line_width"))
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	changed := make(chan struct{}, 4)
	w, err := NewWatcher(store, func() { changed <- struct{}{} })
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(tmpDir+"/sessions.db", []byte("x"), 0600))

	select {
	case <-changed:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	w, err := NewWatcher(store, nil)
	require.NoError(t, err)

	w.Stop()
	w.Stop()
}
