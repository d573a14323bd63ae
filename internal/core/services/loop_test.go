package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

// ==== Loop Tests ====

func TestLoop_DoRunsInPostingOrder(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var order []int
	for i := 0; i < 5; i++ {
		l.Post(func() { order = append(order, i) })
	}
	require.NoError(t, l.Do(func() { order = append(order, 99) }))

	assert.Equal(t, []int{0, 1, 2, 3, 4, 99}, order)
}

func TestLoop_SerializesConcurrentCallers(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Do(func() { counter++ })
		}()
	}
	wg.Wait()

	var got int
	require.NoError(t, l.Do(func() { got = counter }))
	assert.Equal(t, 20, got)
}

func TestLoop_Close(t *testing.T) {
	l := NewLoop()
	l.Close()
	l.Close()

	ran := false
	l.Post(func() { ran = true })
	err := l.Do(func() { ran = true })

	require.ErrorIs(t, err, domain.ErrClosed)
	assert.False(t, ran)
}

func TestLoop_DrivesInkManager(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var m *InkManager
	require.NoError(t, l.Do(func() {
		m = NewInkManager(l, domain.DefaultAppSettings().Canvas)
		m.SetRecognizer(newFakeRecognizer(eachStrokeOwnNode))
		require.NoError(t, m.Load(overlappingStrokes()))
	}))

	require.Eventually(t, func() bool {
		var n int
		_ = l.Do(func() { n = len(m.Nodes()) })
		return n == 4
	}, time.Second, time.Millisecond)
}
