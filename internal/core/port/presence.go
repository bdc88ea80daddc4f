package port

import (
	"context"

	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

// SnapshotProvider reads the current connected-user snapshot. Load must not
// return partial data: on failure the error wraps domain.ErrSnapshotUnavailable
// or domain.ErrSnapshotCorrupt.
type SnapshotProvider interface {
	Load(ctx context.Context) (domain.Snapshot, error)
}

type PresenceWriter interface {
	Upsert(ctx context.Context, p domain.Presence) error
	Remove(ctx context.Context, userID string) error
	// RemoveSession deletes the user's record only if it still belongs to
	// sessionID. A record written by a newer session is left in place.
	RemoveSession(ctx context.Context, userID, sessionID string) error
}

type PresenceStore interface {
	SnapshotProvider
	PresenceWriter
}
