package pipeline

import (
	"math"
	"path/filepath"
	"sort"

	"github.com/lzcapp/PhotoGPSExtractor/internal/display"
	"github.com/lzcapp/PhotoGPSExtractor/internal/logging"
	"github.com/lzcapp/PhotoGPSExtractor/internal/metadata"
)

// iqrBounds holds the IQR-based thresholds for outlier classification.
type iqrBounds struct {
	q1, q3    float64
	outlierLo float64 // Q1 - 1.5*IQR
	outlierHi float64 // Q3 + 1.5*IQR
	extremeLo float64 // Q1 - 3.0*IQR
	extremeHi float64 // Q3 + 3.0*IQR
	valid     bool
}

func computeStats(vals []float64) iqrBounds {
	if len(vals) < 4 {
		return iqrBounds{}
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1

	return iqrBounds{
		q1:        q1,
		q3:        q3,
		outlierLo: q1 - 1.5*iqr,
		outlierHi: q3 + 1.5*iqr,
		extremeLo: q1 - 3.0*iqr,
		extremeHi: q3 + 3.0*iqr,
		valid:     iqr > 0,
	}
}

// classify returns "" (normal), "outlier", or "extreme" for a value.
// Coordinates are signed; only NaN is excluded.
func (b *iqrBounds) classify(v float64) string {
	if !b.valid || math.IsNaN(v) {
		return ""
	}
	if v < b.extremeLo || v > b.extremeHi {
		return "extreme"
	}
	if v < b.outlierLo || v > b.outlierHi {
		return "outlier"
	}
	return ""
}

func worstFlag(classes ...string) string {
	worst := ""
	for _, c := range classes {
		if c == "extreme" {
			return "extreme"
		}
		if c == "outlier" {
			worst = "outlier"
		}
	}
	return worst
}

// flagOutliers runs an IQR scan over the latitude and longitude columns and
// reports records sitting far from the batch's typical area, usually a
// camera GPS glitch or a stray photo from another trip. Nothing is removed;
// the flags are informational. Returns the flagged count.
func flagOutliers(log *logging.Logger, records []metadata.Record) int {
	if len(records) < 4 {
		return 0
	}

	latVals := make([]float64, len(records))
	lonVals := make([]float64, len(records))
	for i, r := range records {
		latVals[i] = r.Latitude
		lonVals[i] = r.Longitude
	}
	latStats := computeStats(latVals)
	lonStats := computeStats(lonVals)

	flagged := 0
	for _, r := range records {
		worst := worstFlag(latStats.classify(r.Latitude), lonStats.classify(r.Longitude))
		if worst == "" {
			continue
		}
		flagged++
		label := display.FormatCoordLabel(r.Latitude, r.Longitude)
		if worst == "extreme" {
			log.Outlier("Extreme outlier: %s (%s)", filepath.Base(r.Path), label)
		} else {
			log.Outlier("Outlier: %s (%s)", filepath.Base(r.Path), label)
		}
	}
	return flagged
}

// percentile computes the p-th percentile using linear interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi || hi >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
