package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/lo"

	"github.com/Ganesh-73005/saveher-backend/internal/adapter/storage/codec"
	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

// SnapshotStore keeps the connected-user mapping in a JSON file.
type SnapshotStore struct {
	path string
	mu   sync.Mutex
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

func (s *SnapshotStore) Load(ctx context.Context) (domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read %s: %w: %v", s.path, domain.ErrSnapshotUnavailable, err)
	}
	return codec.DecodeSnapshot(data)
}

func (s *SnapshotStore) Upsert(ctx context.Context, p domain.Presence) error {
	return s.update(func(records []domain.Presence) []domain.Presence {
		return append(records, p)
	})
}

func (s *SnapshotStore) Remove(ctx context.Context, userID string) error {
	return s.update(func(records []domain.Presence) []domain.Presence {
		return lo.Reject(records, func(r domain.Presence, _ int) bool { return r.UserID == userID })
	})
}

func (s *SnapshotStore) RemoveSession(ctx context.Context, userID, sessionID string) error {
	return s.update(func(records []domain.Presence) []domain.Presence {
		return lo.Reject(records, func(r domain.Presence, _ int) bool {
			return r.UserID == userID && r.SessionID == sessionID
		})
	})
}

// update rewrites the whole file through a temp file and rename so that Load
// never observes a partially written mapping.
func (s *SnapshotStore) update(fn func([]domain.Presence) []domain.Presence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := domain.NewSnapshot()
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read %s: %w: %v", s.path, domain.ErrSnapshotUnavailable, err)
	default:
		if current, err = codec.DecodeSnapshot(data); err != nil {
			return err
		}
	}

	out, err := codec.EncodeSnapshot(domain.NewSnapshot(fn(current.Records())...))
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}
