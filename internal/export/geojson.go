package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/lzcapp/PhotoGPSExtractor/internal/metadata"
)

// GeoJSON types, the minimal point-feature subset of RFC 7946.

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string    `json:"type"`
	Geometry   Geometry  `json:"geometry"`
	Properties FeatProps `json:"properties"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lon, lat] or [lon, lat, alt]
}

// FeatProps carries per-feature attributes. An absent Timestamp is omitted
// from the JSON entirely, never serialized as null.
type FeatProps struct {
	Timestamp *int64 `json:"timestamp,omitempty"`
	FileName  string `json:"filename"`
}

// BuildFeatureCollection maps records into a GeoJSON feature collection.
// Axis order is longitude first; altitude joins as an optional third
// element.
func BuildFeatureCollection(records []metadata.Record) FeatureCollection {
	fc := FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(records)),
	}
	for _, rec := range records {
		coords := []float64{rec.Longitude, rec.Latitude}
		if rec.Altitude != nil {
			coords = append(coords, *rec.Altitude)
		}
		fc.Features = append(fc.Features, Feature{
			Type:     "Feature",
			Geometry: Geometry{Type: "Point", Coordinates: coords},
			Properties: FeatProps{
				Timestamp: rec.Timestamp,
				FileName:  filepath.Base(rec.Path),
			},
		})
	}
	return fc
}

// writeGeoJSON serializes the deduplicated geographic view.
func writeGeoJSON(path string, records []metadata.Record) error {
	data, err := json.MarshalIndent(BuildFeatureCollection(records), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
