package metadata

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Tag source errors. ErrNoMetadata means the file carries no readable
// metadata block at all; ErrNoLocation means metadata was read but no
// complete GPS coordinate pair was present. Both are expected conditions on
// real photo libraries, not failures.
var (
	ErrNoMetadata = errors.New("no readable metadata")
	ErrNoLocation = errors.New("no GPS coordinates")
)

// TagSet is the normalized tag view both engines produce: raw GPS values and
// EXIF timestamp strings, before policy (altitude sign, timestamp priority)
// is applied by BuildRecord.
type TagSet struct {
	Lat *float64 // signed decimal degrees
	Lon *float64

	AltMagnitude *float64 // meters, unsigned
	AltRefCode   *int     // 0 = above sea level, 1 = below; nil when textual or absent
	AltRefText   string   // textual reference fallback, e.g. "Below Sea Level"

	// EXIF timestamp strings in "2006:01:02 15:04:05" form, possibly with
	// subseconds or a zone offset appended.
	DateTimeOriginal  string
	DateTimeDigitized string
	DateTime          string
}

// BuildRecord applies tag policy to a TagSet and returns the Record for
// path. It returns ErrNoLocation when the set has no complete coordinate
// pair; a lone latitude or longitude counts as no location, as do values
// outside the valid degree ranges.
func BuildRecord(path string, tags TagSet) (Record, error) {
	if tags.Lat == nil || tags.Lon == nil {
		return Record{}, ErrNoLocation
	}
	lat, lon := *tags.Lat, *tags.Lon
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Record{}, fmt.Errorf("%w: out of range (%v, %v)", ErrNoLocation, lat, lon)
	}

	rec := Record{Latitude: lat, Longitude: lon, Path: path}

	if tags.AltMagnitude != nil {
		alt := math.Abs(*tags.AltMagnitude)
		if belowSeaLevel(tags) {
			alt = -alt
		}
		rec.Altitude = &alt
	}
	if ms, ok := resolveTimestamp(tags); ok {
		rec.Timestamp = &ms
	}
	return rec, nil
}

// belowSeaLevel resolves the altitude reference. The numeric EXIF code wins
// when both forms are present; the textual form matches any variant that
// mentions "below".
func belowSeaLevel(tags TagSet) bool {
	if tags.AltRefCode != nil {
		return *tags.AltRefCode == 1
	}
	return strings.Contains(strings.ToLower(tags.AltRefText), "below")
}

// resolveTimestamp walks the EXIF timestamp tags in priority order, original
// first, and returns the first that parses.
func resolveTimestamp(tags TagSet) (int64, bool) {
	for _, s := range []string{tags.DateTimeOriginal, tags.DateTimeDigitized, tags.DateTime} {
		if ms, ok := parseEXIFTime(s); ok {
			return ms, true
		}
	}
	return 0, false
}

// exifTimeLayouts are tried in order: zoned first, then naive colon form,
// then the dashed form some XMP sidecars use. time.Parse accepts trailing
// subseconds even when the layout carries none.
var exifTimeLayouts = []string{
	"2006:01:02 15:04:05Z07:00",
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
}

// parseEXIFTime parses one EXIF timestamp string to Unix milliseconds.
// Strings without a zone are interpreted in the local zone. All-zero
// placeholder dates some cameras write are rejected.
func parseEXIFTime(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0000") {
		return 0, false
	}
	for _, layout := range exifTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}
