// Package check provides system diagnostics (check mode) and pre-pipeline
// dependency validation (CheckDeps) for the metadata engines.
package check

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/lzcapp/PhotoGPSExtractor/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing or
// unusable.
var (
	ErrExiftoolNotFound = errors.New("exiftool not found on PATH")
	ErrExiftoolBroken   = errors.New("exiftool found but not runnable")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the check flow: prints availability of the metadata engines
// and the environment details that affect extraction. Informational only,
// it does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkBuiltinParser(log)
	checkExiftool(cfg, log)
	checkEngine(cfg, log)
	checkOutputDir(cfg, log)
	checkTimeZone(log)
}

// checkBuiltinParser reports on the in-process EXIF parser, which ships with
// the binary and covers the JPEG/TIFF family.
func checkBuiltinParser(log Logger) {
	log.Success("goexif: built in (jpg, jpeg, tif, tiff)")
}

// checkExiftool verifies the exiftool binary resolves and logs its version.
func checkExiftool(cfg *config.Config, log Logger) {
	bin, err := resolveExiftool(cfg)
	if err != nil {
		log.Warn("exiftool not found (HEIC/RAW support unavailable)")
		return
	}
	out, err := exec.Command(bin, "-ver").Output()
	if err != nil {
		log.Error("exiftool found at %s but -ver failed: %v", bin, err)
		return
	}
	log.Success("exiftool: %s (%s)", strings.TrimSpace(string(out)), bin)
}

// checkEngine reports which engine the configuration resolves to.
func checkEngine(cfg *config.Config, log Logger) {
	switch cfg.Engine {
	case config.EngineGoexif:
		log.Info("Engine: goexif (forced)")
	case config.EngineExiftool:
		log.Info("Engine: exiftool (forced)")
	case config.EngineAuto:
		if _, err := resolveExiftool(cfg); err != nil {
			log.Warn("Engine: auto, degraded to goexif only")
		} else {
			log.Info("Engine: auto (goexif for jpg/tiff, exiftool for the rest)")
		}
	}
}

// checkOutputDir probes the configured artifact directory with a temp file.
// When no directory is configured the artifacts land next to the scanned
// photos, which is only known at prompt time.
func checkOutputDir(cfg *config.Config, log Logger) {
	if cfg.OutputDir == "" {
		log.Info("Artifacts: written into the scanned folder")
		return
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Artifact folder %s not creatable: %v", cfg.OutputDir, err)
		return
	}
	probe, err := os.CreateTemp(cfg.OutputDir, ".photogps-check-*")
	if err != nil {
		log.Error("Artifact folder %s not writable: %v", cfg.OutputDir, err)
		return
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	log.Success("Artifact folder: %s (writable)", cfg.OutputDir)
}

// checkTimeZone logs the local zone. Naive EXIF timestamps are interpreted
// in it, so the zone directly shapes exported epoch values.
func checkTimeZone(log Logger) {
	zone, offset := time.Now().Zone()
	log.Info("Local time zone: %s (UTC%+d)", zone, offset/3600)
}

// CheckDeps is the pre-pipeline validation. Only the forced exiftool mode
// has a hard external dependency; auto mode degrades at runtime and goexif
// needs nothing.
func CheckDeps(cfg *config.Config) error {
	if cfg.Engine != config.EngineExiftool {
		return nil
	}
	bin, err := resolveExiftool(cfg)
	if err != nil {
		return ErrExiftoolNotFound
	}
	if !runSilent(bin, "-ver") {
		return ErrExiftoolBroken
	}
	return nil
}

// --- internal helpers ---

// resolveExiftool returns the binary to use: the configured path when set,
// otherwise a PATH lookup.
func resolveExiftool(cfg *config.Config) (string, error) {
	if cfg.ExiftoolPath != "" {
		return exec.LookPath(cfg.ExiftoolPath)
	}
	return exec.LookPath("exiftool")
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
