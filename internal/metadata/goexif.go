package metadata

import (
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

func init() {
	// Maker-note parsers improve tag coverage on Canon and Nikon files.
	exif.RegisterParsers(mknote.All...)
}

// goexifTags reads EXIF tags with the in-process parser. A file without a
// metadata block maps to ErrNoMetadata rather than a hard failure.
func goexifTags(path string) (TagSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return TagSet{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return TagSet{}, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}

	tags := TagSet{}
	if lat, lon, err := x.LatLong(); err == nil {
		tags.Lat, tags.Lon = &lat, &lon
	}
	if tag, err := x.Get(exif.GPSAltitude); err == nil {
		if rat, err := tag.Rat(0); err == nil {
			alt, _ := rat.Float64()
			tags.AltMagnitude = &alt
		}
	}
	if tag, err := x.Get(exif.GPSAltitudeRef); err == nil {
		if code, err := tag.Int(0); err == nil {
			tags.AltRefCode = &code
		} else if s, err := tag.StringVal(); err == nil {
			tags.AltRefText = s
		}
	}
	tags.DateTimeOriginal = stringTag(x, exif.DateTimeOriginal)
	tags.DateTimeDigitized = stringTag(x, exif.DateTimeDigitized)
	tags.DateTime = stringTag(x, exif.DateTime)
	return tags, nil
}

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}
