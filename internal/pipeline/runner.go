// Package pipeline orchestrates photo discovery, parallel GPS extraction,
// and export of the collected location records.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lzcapp/PhotoGPSExtractor/internal/config"
	"github.com/lzcapp/PhotoGPSExtractor/internal/display"
	"github.com/lzcapp/PhotoGPSExtractor/internal/export"
	"github.com/lzcapp/PhotoGPSExtractor/internal/geo"
	"github.com/lzcapp/PhotoGPSExtractor/internal/logging"
)

// ErrNoPhotos reports a scan that finished without a single supported photo.
var ErrNoPhotos = errors.New("no supported photo files found")

// Run is the top-level batch entry point: discover photos under
// cfg.InputDir, extract GPS records over a worker pool, and write the
// enabled artifacts. Per-file extraction problems are counted, never fatal;
// an empty scan and any export failure are.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunStats, error) {
	var stats RunStats
	start := time.Now()

	// --- Discover ---
	discTracker := display.NewTracker("Discovering", 0)
	discTracker.Start()
	disc, err := Discover(ctx, cfg.InputDir, cfg.AllFiles, discTracker)
	discTracker.Stop()
	stats.DiscoverTime = time.Since(start)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return stats, err
	}
	stats.Discovered = len(disc.Files)
	stats.SkippedDirs = disc.SkippedDirs
	stats.TotalBytes = disc.TotalBytes

	if ctx.Err() != nil {
		log.Warn("Interrupted")
		return stats, nil
	}
	if disc.SkippedDirs > 0 {
		log.Warn("Skipped %d unreadable folder(s)", disc.SkippedDirs)
	}
	if stats.Discovered == 0 {
		log.Warn("No supported photo files found")
		return stats, ErrNoPhotos
	}

	logBatchHeader(cfg, log, &stats)

	// --- Extract ---
	extractStart := time.Now()
	tracker := display.NewTracker("Extracting", stats.Discovered)
	tracker.Start()
	records, counts, err := extractAll(ctx, cfg, log, disc.Files, tracker)
	tracker.Stop()
	stats.ExtractTime = time.Since(extractStart)
	if err != nil {
		log.Error("Extractor startup failed: %v", err)
		return stats, err
	}
	stats.Located = counts.located
	stats.NoLocation = counts.noLocation
	stats.Failed = counts.failed

	if ctx.Err() != nil {
		log.Warn("Interrupted, skipping export")
		stats.Elapsed = time.Since(start)
		logSummary(log, &stats, nil, 0)
		return stats, nil
	}
	if len(records) == 0 {
		log.Warn("No GPS coordinates found in %d file(s)", stats.Discovered)
		stats.Elapsed = time.Since(start)
		logSummary(log, &stats, nil, 0)
		return stats, nil
	}

	// --- Analyze ---
	flagOutliers(log, records)

	// --- Export ---
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = cfg.InputDir
	}
	exportStart := time.Now()
	artifacts, err := export.NewExporter(cfg, log).Run(records, outDir)
	stats.ExportTime = time.Since(exportStart)
	if err != nil {
		log.Error("Export failed: %v", err)
		return stats, err
	}

	uniq := geo.Deduplicate(records, cfg.PathPrecision)
	stats.UniquePoints = len(uniq)
	stats.Elapsed = time.Since(start)
	logSummary(log, &stats, artifacts, geo.TrackLengthMeters(uniq))
	return stats, nil
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %s photo files (%s)", display.FormatCount(stats.Discovered), display.FormatBytes(stats.TotalBytes))

	engine := "goexif for JPEG/TIFF, exiftool for other formats"
	switch cfg.Engine {
	case config.EngineGoexif:
		engine = "goexif only"
	case config.EngineExiftool:
		engine = "exiftool only"
	}
	log.Info("Engine: %s", engine)
	log.Info("Workers: %d", workerCount(cfg, stats.Discovered))
	log.Info("Exports: %s", strings.Join(enabledFormats(cfg), ", "))
	log.Info("Map dedup precision: %d decimal places", cfg.PathPrecision)

	if cfg.ConvertGCJ02 {
		log.Info("Projection: WGS-84 -> GCJ-02 inside mainland China bounds")
	}
	if cfg.AllFiles {
		log.Info("Filter: all files (extension filter disabled)")
	}
	if !cfg.Overwrite {
		log.Info("Existing artifacts: keep, write numbered copies")
	}
	fmt.Println()
}

func enabledFormats(cfg *config.Config) []string {
	var formats []string
	if cfg.ExportCSV {
		formats = append(formats, "csv")
	}
	if cfg.ExportXLSX {
		formats = append(formats, "xlsx")
	}
	if cfg.ExportGeoJSON {
		formats = append(formats, "geojson")
	}
	if cfg.ExportSQLite {
		formats = append(formats, "sqlite")
	}
	return formats
}

func logSummary(log *logging.Logger, stats *RunStats, artifacts []export.Artifact, trackMeters float64) {
	log.Info("==============================")
	log.Info("Done: %d located, %d without GPS, %d failed", stats.Located, stats.NoLocation, stats.Failed)
	log.Info("Summary report:")
	log.Info("  Files scanned: %s (%s)", display.FormatCount(stats.Discovered), display.FormatBytes(stats.TotalBytes))
	if stats.SkippedDirs > 0 {
		log.Info("  Unreadable folders skipped: %d", stats.SkippedDirs)
	}
	if stats.Located > 0 {
		log.Info("  With GPS data: %.1f%%", stats.LocatedShare())
	}
	if stats.UniquePoints > 0 {
		log.Info("  Unique positions: %d", stats.UniquePoints)
	}
	if trackMeters > 0 {
		log.Info("  Track length: %s", display.FormatDistance(trackMeters))
	}
	for _, a := range artifacts {
		log.Success("  %s (%s)", a.Path, display.FormatBytes(a.Bytes))
	}
	if stats.ExtractTime > 0 {
		log.Info("  Phases: discover %s, extract %s, export %s",
			display.FormatDuration(stats.DiscoverTime),
			display.FormatDuration(stats.ExtractTime),
			display.FormatDuration(stats.ExportTime))
	}
	log.Info("  Elapsed: %s", display.FormatDuration(stats.Elapsed))
}
