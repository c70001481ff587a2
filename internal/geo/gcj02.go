package geo

import (
	"math"

	"github.com/lzcapp/PhotoGPSExtractor/internal/metadata"
)

// GCJ-02 obfuscation, the published formulas over the Krasovsky 1940
// ellipsoid. Only positions inside the mandate region are shifted.

const (
	krasovskyA = 6378245.0
	krasovskyE = 0.00669342162296594323
)

// insideMandateRegion bounds the area where GCJ-02 applies. Positions
// outside it must pass through untransformed.
func insideMandateRegion(lat, lon float64) bool {
	return lon >= 72.004 && lon <= 137.8347 && lat >= 0.8293 && lat <= 55.8271
}

func warpLat(x, y float64) float64 {
	ret := -100.0 + 2.0*x + 3.0*y + 0.2*y*y + 0.1*x*y + 0.2*math.Sqrt(math.Abs(x))
	ret += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(2.0*x*math.Pi)) * 2.0 / 3.0
	ret += (20.0*math.Sin(y*math.Pi) + 40.0*math.Sin(y/3.0*math.Pi)) * 2.0 / 3.0
	ret += (160.0*math.Sin(y/12.0*math.Pi) + 320.0*math.Sin(y*math.Pi/30.0)) * 2.0 / 3.0
	return ret
}

func warpLon(x, y float64) float64 {
	ret := 300.0 + x + 2.0*y + 0.1*x*x + 0.1*x*y + 0.1*math.Sqrt(math.Abs(x))
	ret += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(2.0*x*math.Pi)) * 2.0 / 3.0
	ret += (20.0*math.Sin(x*math.Pi) + 40.0*math.Sin(x/3.0*math.Pi)) * 2.0 / 3.0
	ret += (150.0*math.Sin(x/12.0*math.Pi) + 300.0*math.Sin(x/30.0*math.Pi)) * 2.0 / 3.0
	return ret
}

// WGS84ToGCJ02 converts a WGS-84 position to GCJ-02. Positions outside the
// mandate region are returned unchanged.
func WGS84ToGCJ02(lat, lon float64) (float64, float64) {
	if !insideMandateRegion(lat, lon) {
		return lat, lon
	}
	dLat := warpLat(lon-105.0, lat-35.0)
	dLon := warpLon(lon-105.0, lat-35.0)
	radLat := lat / 180.0 * math.Pi
	magic := math.Sin(radLat)
	magic = 1 - krasovskyE*magic*magic
	sqrtMagic := math.Sqrt(magic)
	dLat = (dLat * 180.0) / ((krasovskyA * (1 - krasovskyE)) / (magic * sqrtMagic) * math.Pi)
	dLon = (dLon * 180.0) / (krasovskyA / sqrtMagic * math.Cos(radLat) * math.Pi)
	return lat + dLat, lon + dLon
}

// TransformGCJ02 reprojects every record in place and returns the slice for
// chaining.
func TransformGCJ02(records []metadata.Record) []metadata.Record {
	for i := range records {
		records[i].Latitude, records[i].Longitude =
			WGS84ToGCJ02(records[i].Latitude, records[i].Longitude)
	}
	return records
}
