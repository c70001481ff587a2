// Package config holds runtime configuration: defaults, environment loading,
// and validation. The CLI surface is a single interactive folder prompt, so
// every tunable lives in the environment (PHOTOGPS_* variables, optionally
// supplied through a .env file in the working directory).
package config

import (
	"errors"
	"fmt"
	"strings"
)

// --- Enum types for validated string fields ---

// EngineMode selects the metadata extraction backend.
type EngineMode string

const (
	EngineAuto     EngineMode = "auto"     // goexif for JPEG/TIFF-family files, exiftool for the rest when installed (default).
	EngineGoexif   EngineMode = "goexif"   // Pure-Go EXIF parser only; no external binary.
	EngineExiftool EngineMode = "exiftool" // exiftool subprocess for every file.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then overlaid by [Load] before being passed (by pointer) to packages that
// need it. Fields are grouped by concern with inline documentation of
// defaults.
type Config struct {
	// Paths. InputDir comes from the interactive prompt; OutputDir is where
	// export artifacts land and defaults to the scanned folder when empty.
	InputDir  string
	OutputDir string

	// Extraction.
	Engine       EngineMode
	ExiftoolPath string // Explicit exiftool binary path; empty → search PATH.
	Workers      int    // Extraction worker count. 0 → runtime.NumCPU().

	// Discovery.
	AllFiles bool // Hand every regular file to the extractor instead of filtering by extension.

	// Geographic output.
	PathPrecision int  // Decimal digits for coordinate dedup. Default: 4.
	ConvertGCJ02  bool // Reproject GeoJSON coordinates from WGS-84 to GCJ-02.

	// Export toggles. All formats default to on.
	ExportCSV     bool
	ExportXLSX    bool
	ExportGeoJSON bool
	ExportSQLite  bool
	Overwrite     bool // Default: true. Cleared by PHOTOGPS_NO_OVERWRITE.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode
	LogFile   string // Optional log file path.
	CheckOnly bool   // Run diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [Load] applies environment overrides.
func DefaultConfig() Config {
	return Config{
		Engine:        EngineAuto,
		Workers:       0,
		AllFiles:      false,
		PathPrecision: 4,
		ConvertGCJ02:  false,
		ExportCSV:     true,
		ExportXLSX:    true,
		ExportGeoJSON: true,
		ExportSQLite:  true,
		Overwrite:     true,
		Verbose:       false,
		ColorMode:     ColorAuto,
		CheckOnly:     false,
	}
}

// CleanPathArg normalizes a user-entered folder path: surrounding whitespace
// and one level of matching quotes are removed (shells and file managers wrap
// dragged paths in quotes), then trailing slashes are stripped. The
// filesystem root "/" is returned unchanged so we don't produce an empty
// string.
func CleanPathArg(path string) string {
	s := strings.TrimSpace(path)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	if s == "/" {
		return "/"
	}
	return strings.TrimRight(s, "/")
}

// Validate checks that enum fields hold valid values and that numeric
// settings are in range. InputDir is validated separately after the prompt.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineAuto, EngineGoexif, EngineExiftool:
		// valid
	default:
		return errors.New("invalid engine (use 'auto', 'goexif' or 'exiftool')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.PathPrecision < 0 || c.PathPrecision > 8 {
		return fmt.Errorf("path precision must be between 0 and 8 (got %d)", c.PathPrecision)
	}
	if c.Workers < 0 || c.Workers > 512 {
		return fmt.Errorf("workers must be between 0 and 512 (got %d)", c.Workers)
	}

	if !c.ExportCSV && !c.ExportXLSX && !c.ExportGeoJSON && !c.ExportSQLite {
		return errors.New("all export formats are disabled")
	}
	return nil
}
