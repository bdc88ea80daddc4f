package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore(
		domain.Presence{UserID: "u1", SessionID: "s1"},
		domain.Presence{UserID: "u2", SessionID: "s2"},
	)

	require.NoError(t, store.Upsert(ctx, domain.Presence{UserID: "u1", SessionID: "s1b"}))
	require.NoError(t, store.Remove(ctx, "u2"))
	require.NoError(t, store.Upsert(ctx, domain.Presence{UserID: "u3", SessionID: "s3"}))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	records := snap.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "s1b", records[0].SessionID)
	assert.Equal(t, "u3", records[1].UserID)
}

func TestSnapshotStore_FailWith(t *testing.T) {
	store := NewSnapshotStore()
	store.FailWith(domain.ErrSnapshotUnavailable)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrSnapshotUnavailable)

	store.FailWith(nil)
	_, err = store.Load(context.Background())
	assert.NoError(t, err)
}

func TestSnapshotStore_RemoveSession(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore(domain.Presence{UserID: "u1", SessionID: "new"})

	require.NoError(t, store.RemoveSession(ctx, "u1", "old"))
	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Len())

	require.NoError(t, store.RemoveSession(ctx, "u1", "new"))
	snap, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, snap.Len())
}
