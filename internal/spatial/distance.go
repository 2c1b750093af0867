package spatial

import (
	"github.com/golang/geo/s2"

	"github.com/jengzang/timeline-backend-go/internal/models"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
)

// HaversineDistance calculates the great-circle distance between two points in meters
// using the Haversine formula
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// DistanceBetween returns the great-circle distance in meters between two
// coordinates, or -1 when either side is missing. Callers treat a negative
// result as "no distance available".
func DistanceBetween(a, b *models.LatLng) float64 {
	if a == nil || b == nil {
		return -1
	}
	return HaversineDistance(a.Lat, a.Lng, b.Lat, b.Lng)
}

// WithinRadius reports whether two coordinates lie within radiusMeters of
// each other. Missing coordinates are never within any radius.
func WithinRadius(a, b *models.LatLng, radiusMeters float64) bool {
	d := DistanceBetween(a, b)
	return d >= 0 && d <= radiusMeters
}
