package port

import "github.com/Ganesh-73005/saveher-backend/internal/core/domain"

// NearbyFinder selects the users of a snapshot within radiusMeters of the
// requester, nearest first. An implementation may keep its own spatial index
// as long as it honors that contract.
type NearbyFinder interface {
	FindNearby(requesterID string, snap domain.Snapshot, radiusMeters float64) []domain.NearbyUser
}
