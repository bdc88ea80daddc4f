package geo

import (
	"github.com/golang/geo/s2"

	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

const EarthRadiusMeters = 6371010.0

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b domain.Coordinates) float64 {
	from := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	to := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return from.Distance(to).Radians() * EarthRadiusMeters
}
