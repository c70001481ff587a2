// Package metadata reads embedded photo metadata and resolves GPS and
// timestamp tags into location records. Two engines back it: a pure-Go EXIF
// parser for JPEG/TIFF-family files and an exiftool subprocess for everything
// else. Both feed the same tag normalization, so records look the same no
// matter which engine produced them.
package metadata

// Record is one resolved GPS fix from one photo file. Altitude and Timestamp
// are pointers because absence must stay distinguishable from zero: a photo
// taken at sea level differs from one with no altitude tag, and a capture
// time of epoch zero differs from no capture time at all.
type Record struct {
	Latitude  float64
	Longitude float64
	Altitude  *float64 // meters; negative below sea level; nil when absent
	Timestamp *int64   // capture time, Unix milliseconds; nil when unresolvable
	Path      string   // source file path
}
