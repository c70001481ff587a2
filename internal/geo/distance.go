package geo

import (
	"github.com/golang/geo/s2"

	"github.com/lzcapp/PhotoGPSExtractor/internal/metadata"
)

// EarthRadiusMeters is the mean radius used to convert angular distances.
const EarthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle distance between two positions.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// TrackLengthMeters sums the leg distances over records in order. Fewer than
// two records yield zero.
func TrackLengthMeters(records []metadata.Record) float64 {
	total := 0.0
	for i := 1; i < len(records); i++ {
		total += DistanceMeters(
			records[i-1].Latitude, records[i-1].Longitude,
			records[i].Latitude, records[i].Longitude,
		)
	}
	return total
}
