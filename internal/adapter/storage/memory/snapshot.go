package memory

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

// SnapshotStore is an in-process presence store for development and tests.
type SnapshotStore struct {
	mu      sync.RWMutex
	records []domain.Presence
	err     error
}

func NewSnapshotStore(records ...domain.Presence) *SnapshotStore {
	return &SnapshotStore{records: domain.NewSnapshot(records...).Records()}
}

// FailWith makes every following Load return err; nil clears it.
func (s *SnapshotStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *SnapshotStore) Load(ctx context.Context) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return domain.Snapshot{}, s.err
	}
	return domain.NewSnapshot(s.records...), nil
}

func (s *SnapshotStore) Upsert(ctx context.Context, p domain.Presence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = domain.NewSnapshot(append(s.records, p)...).Records()
	return nil
}

func (s *SnapshotStore) Remove(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = lo.Reject(s.records, func(r domain.Presence, _ int) bool { return r.UserID == userID })
	return nil
}

func (s *SnapshotStore) RemoveSession(ctx context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = lo.Reject(s.records, func(r domain.Presence, _ int) bool {
		return r.UserID == userID && r.SessionID == sessionID
	})
	return nil
}
