package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Ganesh-73005/saveher-backend/internal/adapter/metrics"
	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
	"github.com/Ganesh-73005/saveher-backend/internal/core/port"
)

// ProximityService answers "who is connected near me". It sits on the
// realtime path, so it never fails outward: any snapshot problem degrades to
// an empty result.
type ProximityService struct {
	snapshots    port.SnapshotProvider
	finder       port.NearbyFinder
	radiusMeters float64
	log          *zap.Logger
}

func NewProximityService(snapshots port.SnapshotProvider, finder port.NearbyFinder, radiusMeters float64, log *zap.Logger) *ProximityService {
	return &ProximityService{
		snapshots:    snapshots,
		finder:       finder,
		radiusMeters: radiusMeters,
		log:          log,
	}
}

func (s *ProximityService) FindNearby(ctx context.Context, userID string) domain.NearbyResult {
	empty := domain.NearbyResult{Users: []domain.NearbyUser{}}

	if userID == "" {
		s.log.Warn("nearby query without user id")
		return empty
	}

	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		metrics.SnapshotFailuresTotal.WithLabelValues("nearby").Inc()
		s.log.Error("failed to load presence snapshot", zap.String("user_id", userID), zap.Error(err))
		return empty
	}

	requester, ok := snap.Get(userID)
	if !ok {
		s.log.Info("user not found in snapshot", zap.String("user_id", userID))
		return empty
	}
	if !requester.HasLocation() {
		s.log.Info("no coordinates for user", zap.String("user_id", userID))
		return empty
	}

	users := s.finder.FindNearby(userID, snap, s.radiusMeters)
	metrics.NearbyResultSize.Observe(float64(len(users)))

	return domain.NearbyResult{Users: users}
}
