package metadata

import (
	"errors"
	"fmt"
	"strings"

	exiftool "github.com/barasher/go-exiftool"
)

// exiftoolEngine keeps one stay-open exiftool subprocess alive across
// files, which is far cheaper than spawning per file on large libraries.
type exiftoolEngine struct {
	et *exiftool.Exiftool
}

// newExiftoolEngine starts the subprocess in numeric (-n) mode so GPS values
// arrive as decimal degrees instead of print-formatted strings.
func newExiftoolEngine(binaryPath string) (*exiftoolEngine, error) {
	opts := []func(*exiftool.Exiftool) error{exiftool.NoPrintConversion()}
	if binaryPath != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(binaryPath))
	}
	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("starting exiftool: %w", err)
	}
	return &exiftoolEngine{et: et}, nil
}

func (e *exiftoolEngine) Close() error {
	return e.et.Close()
}

// ExtractTags reads one file through exiftool and maps the flat tag map into
// a TagSet.
func (e *exiftoolEngine) ExtractTags(path string) (TagSet, error) {
	metas := e.et.ExtractMetadata(path)
	if len(metas) == 0 {
		return TagSet{}, errors.New("exiftool returned no result")
	}
	meta := metas[0]
	if meta.Err != nil {
		return TagSet{}, fmt.Errorf("%w: %v", ErrNoMetadata, meta.Err)
	}

	tags := TagSet{}
	if lat, err := meta.GetFloat("GPSLatitude"); err == nil {
		if lon, err := meta.GetFloat("GPSLongitude"); err == nil {
			lat = signFromRef(lat, refString(meta, "GPSLatitudeRef"), "S")
			lon = signFromRef(lon, refString(meta, "GPSLongitudeRef"), "W")
			tags.Lat, tags.Lon = &lat, &lon
		}
	}
	if alt, err := meta.GetFloat("GPSAltitude"); err == nil {
		tags.AltMagnitude = &alt
	}
	if code, err := meta.GetInt("GPSAltitudeRef"); err == nil {
		c := int(code)
		tags.AltRefCode = &c
	} else if s, err := meta.GetString("GPSAltitudeRef"); err == nil {
		tags.AltRefText = s
	}
	if s, err := meta.GetString("DateTimeOriginal"); err == nil {
		tags.DateTimeOriginal = s
	}
	if s, err := meta.GetString("CreateDate"); err == nil {
		tags.DateTimeDigitized = s
	}
	if s, err := meta.GetString("ModifyDate"); err == nil {
		tags.DateTime = s
	}
	return tags, nil
}

func refString(meta exiftool.FileMetadata, key string) string {
	s, err := meta.GetString(key)
	if err != nil {
		return ""
	}
	return s
}

// signFromRef applies a hemisphere reference to an unsigned coordinate. An
// already signed value or a missing reference passes through unchanged, so
// it is safe on both the raw GPS group and the composite signed form.
func signFromRef(v float64, ref, negative string) float64 {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if v > 0 && strings.HasPrefix(ref, negative) {
		return -v
	}
	return v
}
