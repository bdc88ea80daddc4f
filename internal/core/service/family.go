package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Ganesh-73005/saveher-backend/internal/adapter/metrics"
	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
	"github.com/Ganesh-73005/saveher-backend/internal/core/port"
)

type FamilyOption func(*FamilyService)

// WithSoftSnapshotFailure reports every contact offline when the snapshot
// cannot be read, instead of failing the query.
func WithSoftSnapshotFailure() FamilyOption {
	return func(s *FamilyService) {
		s.softSnapshot = true
	}
}

// FamilyService resolves a user's emergency contact to registered users and
// reports which of them are connected.
type FamilyService struct {
	directory    port.UserDirectory
	snapshots    port.SnapshotProvider
	softSnapshot bool
	log          *zap.Logger
}

func NewFamilyService(directory port.UserDirectory, snapshots port.SnapshotProvider, log *zap.Logger, opts ...FamilyOption) *FamilyService {
	s := &FamilyService{
		directory: directory,
		snapshots: snapshots,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FamilyService) FindFamily(ctx context.Context, userID string) (domain.FamilyResult, error) {
	empty := domain.FamilyResult{Contacts: []domain.FamilyContact{}}

	if userID == "" {
		return empty, domain.ErrInvalidUserID
	}

	user, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return empty, directoryError(err)
	}

	if user.EmergencyContact == "" {
		return empty, nil
	}

	contactIDs, err := s.directory.FindIDsByPhoneNumbers(ctx, []string{user.EmergencyContact})
	if err != nil {
		return empty, directoryError(err)
	}
	contactIDs = lo.Uniq(contactIDs)
	if len(contactIDs) == 0 {
		return empty, nil
	}

	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		metrics.SnapshotFailuresTotal.WithLabelValues("family").Inc()
		if !s.softSnapshot {
			return empty, err
		}
		s.log.Warn("presence snapshot unavailable, reporting contacts offline",
			zap.String("user_id", userID), zap.Error(err))
		snap = domain.NewSnapshot()
	}

	contacts := lo.Map(contactIDs, func(id string, _ int) domain.FamilyContact {
		p, online := snap.Get(id)
		return domain.FamilyContact{
			UserID:    id,
			SessionID: p.SessionID,
			Online:    online,
		}
	})

	return domain.FamilyResult{Contacts: contacts}, nil
}

// directoryError keeps known directory errors as they are and classifies
// anything else as a directory failure.
func directoryError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrDirectoryFailure):
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrDirectoryFailure, err)
}
