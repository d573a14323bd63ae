package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

func testSession(id string, updated time.Time) domain.Session {
	var p domain.Path
	p.MoveTo(domain.Point{X: 0, Y: 0})
	p.LineTo(domain.Point{X: 10, Y: 10})
	return domain.Session{
		ID:        id,
		Name:      "session " + id,
		Log:       domain.InkLog{Units: []domain.Ink{domain.NewStroke(p)}, HistoryIndex: 1},
		LaTeX:     "x",
		CreatedAt: updated,
		UpdatedAt: updated,
	}
}

func TestNewSessionStore(t *testing.T) {
	store := NewSessionStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.sessions)
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	session := testSession("s-1", time.Now())

	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, session, *got)
}

func TestSessionStore_SaveRequiresID(t *testing.T) {
	store := NewSessionStore()

	err := store.Save(context.Background(), domain.Session{Name: "nameless"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionStore_GetNotFound(t *testing.T) {
	store := NewSessionStore()

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_GetReturnsCopy(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testSession("s-1", time.Now())))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	got.Log.Units[0] = domain.RemovalMarker{Removed: []int{0}}

	again, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, domain.InkKindStroke, again.Log.Units[0].Kind())
}

func TestSessionStore_ListMostRecentFirst(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, testSession("old", base)))
	require.NoError(t, store.Save(ctx, testSession("new", base.Add(time.Hour))))

	summaries, err := store.List(ctx)

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "new", summaries[0].ID)
	assert.Equal(t, "old", summaries[1].ID)
	assert.Equal(t, 1, summaries[0].Units)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testSession("s-1", time.Now())))

	require.NoError(t, store.Delete(ctx, "s-1"))
	assert.ErrorIs(t, store.Delete(ctx, "s-1"), domain.ErrNotFound)

	_, err := store.Get(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
