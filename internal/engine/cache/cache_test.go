package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/areasearch/internal/scene"
)

type recordingSender struct {
	sent []uuid.UUID
	err  error
}

func (r *recordingSender) send(_ context.Context, id uuid.UUID) error {
	r.sent = append(r.sent, id)
	return r.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStore_EnsureRequested(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store := NewStore(fixedClock(start))
	sender := &recordingSender{}
	id := uuid.New()

	issued, err := store.EnsureRequested(ctx, id, sender.send)
	require.NoError(t, err)
	assert.True(t, issued)
	assert.Equal(t, 1, store.Pending())
	assert.Equal(t, 1, store.Len())

	rec, ok := store.Get(id)
	require.True(t, ok)
	assert.False(t, rec.Ready)
	assert.Equal(t, start, rec.RequestedAt)

	t.Run("second call is suppressed", func(t *testing.T) {
		issued, err := store.EnsureRequested(ctx, id, sender.send)
		require.NoError(t, err)
		assert.False(t, issued)
		assert.Equal(t, []uuid.UUID{id}, sender.sent)
		assert.Equal(t, 1, store.Pending())
	})

	t.Run("ready record is suppressed", func(t *testing.T) {
		store.Apply(scene.PropertiesFamily{ObjectID: id, Name: "Alpha Box"})
		issued, err := store.EnsureRequested(ctx, id, sender.send)
		require.NoError(t, err)
		assert.False(t, issued)
		assert.Len(t, sender.sent, 1)
	})
}

func TestStore_EnsureRequestedErrors(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	_, err := store.EnsureRequested(ctx, uuid.Nil, (&recordingSender{}).send)
	require.ErrorIs(t, err, ErrNilObjectID)

	_, err = store.EnsureRequested(ctx, uuid.New(), nil)
	require.ErrorIs(t, err, ErrNilSend)

	t.Run("send failure drops the record", func(t *testing.T) {
		boom := errors.New("circuit down")
		sender := &recordingSender{err: boom}
		id := uuid.New()

		issued, err := store.EnsureRequested(ctx, id, sender.send)
		require.ErrorIs(t, err, boom)
		assert.False(t, issued)
		assert.Equal(t, 0, store.Pending())
		_, ok := store.Get(id)
		assert.False(t, ok)

		// The transport recovers and the next call requests again.
		sender.err = nil
		issued, err = store.EnsureRequested(ctx, id, sender.send)
		require.NoError(t, err)
		assert.True(t, issued)
		assert.Equal(t, 1, store.Pending())
		assert.Len(t, sender.sent, 2)
	})
}

func TestStore_Apply(t *testing.T) {
	ctx := context.Background()
	requested := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	now := requested
	store := NewStore(func() time.Time { return now })
	sender := &recordingSender{}

	a, b := uuid.New(), uuid.New()
	owner, group := uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{a, b} {
		_, err := store.EnsureRequested(ctx, id, sender.send)
		require.NoError(t, err)
	}
	require.Equal(t, 2, store.Pending())

	now = requested.Add(300 * time.Millisecond)
	rec, wasPending := store.Apply(scene.PropertiesFamily{
		ObjectID:    a,
		OwnerID:     owner,
		GroupID:     group,
		Name:        "Alpha Box",
		Description: "a plain cube",
	})
	assert.True(t, wasPending)
	assert.True(t, rec.Ready)
	assert.Equal(t, "Alpha Box", rec.Name)
	assert.Equal(t, "a plain cube", rec.Description)
	assert.Equal(t, owner, rec.OwnerID)
	assert.Equal(t, group, rec.GroupID)
	assert.Equal(t, 300*time.Millisecond, rec.Latency())
	assert.Equal(t, 1, store.Pending())
	assert.Equal(t, 1, store.Ready())

	t.Run("duplicate response does not decrement", func(t *testing.T) {
		rec, wasPending := store.Apply(scene.PropertiesFamily{ObjectID: a, Name: "Alpha Box v2"})
		assert.False(t, wasPending)
		assert.Equal(t, "Alpha Box v2", rec.Name)
		assert.Equal(t, 1, store.Pending())
	})

	t.Run("unsolicited response is cached", func(t *testing.T) {
		stray := uuid.New()
		rec, wasPending := store.Apply(scene.PropertiesFamily{ObjectID: stray, Name: "Stray"})
		assert.True(t, wasPending)
		assert.True(t, rec.Ready)
		assert.Equal(t, time.Duration(0), rec.Latency())
		assert.Equal(t, 3, store.Len())
		assert.Equal(t, 0, store.Pending())
	})

	t.Run("pending never goes negative", func(t *testing.T) {
		store.Apply(scene.PropertiesFamily{ObjectID: b})
		store.Apply(scene.PropertiesFamily{ObjectID: uuid.New()})
		assert.Equal(t, 0, store.Pending())
	})
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	sender := &recordingSender{}
	id := uuid.New()

	_, err := store.EnsureRequested(ctx, id, sender.send)
	require.NoError(t, err)
	store.Clear()

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, store.Pending())
	_, ok := store.Get(id)
	assert.False(t, ok)

	issued, err := store.EnsureRequested(ctx, id, sender.send)
	require.NoError(t, err)
	assert.True(t, issued, "cleared identities are requested again")
	assert.Len(t, sender.sent, 2)
}
