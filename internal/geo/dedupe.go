// Package geo holds the coordinate transformations applied between
// extraction and geographic export: position dedup, optional WGS-84 to
// GCJ-02 reprojection, and track measurement.
package geo

import (
	"math"

	"github.com/lzcapp/PhotoGPSExtractor/internal/metadata"
)

// Deduplicate rounds each record's coordinates to precision decimal digits
// and keeps only the first record seen at each rounded position, preserving
// input order. Kept records carry the rounded coordinates; altitude and
// timestamp are untouched. Rounding is half-away-from-zero (math.Round),
// applied to latitude and longitude independently.
func Deduplicate(records []metadata.Record, precision int) []metadata.Record {
	scale := math.Pow(10, float64(precision))
	type posKey struct{ lat, lon int64 }

	seen := make(map[posKey]struct{}, len(records))
	out := make([]metadata.Record, 0, len(records))
	for _, rec := range records {
		k := posKey{
			lat: int64(math.Round(rec.Latitude * scale)),
			lon: int64(math.Round(rec.Longitude * scale)),
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		rec.Latitude = float64(k.lat) / scale
		rec.Longitude = float64(k.lon) / scale
		out = append(out, rec)
	}
	return out
}
