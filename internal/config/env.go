package config

// Environment loading. Every tunable is a PHOTOGPS_* variable; a .env file
// in the working directory is merged into the environment first when present.
// Unset variables leave defaults untouched, malformed values are errors.

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Load returns the runtime configuration: [DefaultConfig] overlaid with
// PHOTOGPS_* environment variables.
func Load() (Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load(".env")

	cfg := DefaultConfig()

	if v, ok := envStr("PHOTOGPS_ENGINE"); ok {
		cfg.Engine = EngineMode(strings.ToLower(v))
	}
	if v, ok := envStr("PHOTOGPS_EXIFTOOL"); ok {
		cfg.ExiftoolPath = v
	}
	if v, ok := envStr("PHOTOGPS_OUTPUT_DIR"); ok {
		cfg.OutputDir = CleanPathArg(v)
	}
	if v, ok := envStr("PHOTOGPS_COLOR"); ok {
		cfg.ColorMode = ColorMode(strings.ToLower(v))
	}
	if v, ok := envStr("PHOTOGPS_LOG_FILE"); ok {
		cfg.LogFile = v
	}

	if v, ok := envStr("PHOTOGPS_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid PHOTOGPS_WORKERS value %q", v)
		}
		cfg.Workers = n
	}
	if v, ok := envStr("PHOTOGPS_PRECISION"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid PHOTOGPS_PRECISION value %q", v)
		}
		cfg.PathPrecision = n
	}

	if envEnabled("PHOTOGPS_ALL_FILES") {
		cfg.AllFiles = true
	}
	if envEnabled("PHOTOGPS_GCJ02") {
		cfg.ConvertGCJ02 = true
	}
	if envEnabled("PHOTOGPS_VERBOSE") {
		cfg.Verbose = true
	}
	if envEnabled("PHOTOGPS_CHECK") {
		cfg.CheckOnly = true
	}

	// Negated toggles: the on-by-default settings stay on unless asked.
	if envEnabled("PHOTOGPS_NO_CSV") {
		cfg.ExportCSV = false
	}
	if envEnabled("PHOTOGPS_NO_XLSX") {
		cfg.ExportXLSX = false
	}
	if envEnabled("PHOTOGPS_NO_GEOJSON") {
		cfg.ExportGeoJSON = false
	}
	if envEnabled("PHOTOGPS_NO_SQLITE") {
		cfg.ExportSQLite = false
	}
	if envEnabled("PHOTOGPS_NO_OVERWRITE") {
		cfg.Overwrite = false
	}

	return cfg, nil
}

// envStr returns the trimmed value of an environment variable and whether it
// was set to something non-empty.
func envStr(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

// envEnabled reports whether an environment toggle holds a truthy value
// ("1", "true", "yes", "on"; case-insensitive). Anything else, including
// unset, is false.
func envEnabled(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
