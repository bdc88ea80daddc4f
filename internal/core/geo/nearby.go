package geo

import (
	"sort"

	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

type Option func(*LinearScan)

// IncludeSelf keeps the requester in its own result at distance 0.
func IncludeSelf() Option {
	return func(l *LinearScan) {
		l.includeSelf = true
	}
}

// LinearScan checks every record of the snapshot. It is the default
// port.NearbyFinder; snapshots are small enough that no index is kept.
type LinearScan struct {
	includeSelf bool
}

func NewLinearScan(opts ...Option) *LinearScan {
	l := &LinearScan{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *LinearScan) FindNearby(requesterID string, snap domain.Snapshot, radiusMeters float64) []domain.NearbyUser {
	requester, ok := snap.Get(requesterID)
	if !ok || !requester.HasLocation() {
		return []domain.NearbyUser{}
	}
	origin := *requester.Coordinates

	nearby := make([]domain.NearbyUser, 0)
	for _, p := range snap.Records() {
		if !p.HasLocation() {
			continue
		}
		if p.UserID == requesterID && !l.includeSelf {
			continue
		}

		d := Distance(origin, *p.Coordinates)
		if d > radiusMeters {
			continue
		}

		nearby = append(nearby, domain.NearbyUser{
			UserID:         p.UserID,
			SessionID:      p.SessionID,
			Coordinates:    *p.Coordinates,
			DistanceMeters: d,
		})
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})

	return nearby
}

// FindNearby runs a default LinearScan.
func FindNearby(requesterID string, snap domain.Snapshot, radiusMeters float64, opts ...Option) []domain.NearbyUser {
	return NewLinearScan(opts...).FindNearby(requesterID, snap, radiusMeters)
}
