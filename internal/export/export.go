// Package export writes the final record set to its artifact formats. CSV
// and XLSX carry every record at full precision in capture-time order;
// GeoJSON and the SQLite track table carry the deduplicated geographic view,
// reprojected when configured. Writers run concurrently and any writer
// failure fails the whole export.
package export

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/lzcapp/PhotoGPSExtractor/internal/config"
	"github.com/lzcapp/PhotoGPSExtractor/internal/geo"
	"github.com/lzcapp/PhotoGPSExtractor/internal/logging"
	"github.com/lzcapp/PhotoGPSExtractor/internal/metadata"
)

// Default artifact file names, written into the scanned folder unless an
// output directory override is configured.
const (
	csvName     = "photo_locations.csv"
	xlsxName    = "photo_locations.xlsx"
	geojsonName = "photo_locations.geojson"
	sqliteName  = "photo_locations.db"
)

// Artifact describes one written output file.
type Artifact struct {
	Kind  string // "csv", "xlsx", "geojson", "sqlite"
	Path  string
	Bytes int64
}

// Exporter fans the final record set out to the enabled writers.
type Exporter struct {
	cfg *config.Config
	log *logging.Logger
}

// NewExporter wires an exporter to the runtime configuration and logger.
func NewExporter(cfg *config.Config, log *logging.Logger) *Exporter {
	return &Exporter{cfg: cfg, log: log}
}

// Run writes all enabled artifacts for records (already sorted by capture
// time) into outDir and returns what was written. The first writer error
// observed is returned and the partial artifact list dropped.
func (e *Exporter) Run(records []metadata.Record, outDir string) ([]Artifact, error) {
	// Geographic view: dedup at path precision, then optional reprojection.
	geoRecords := geo.Deduplicate(records, e.cfg.PathPrecision)
	if e.cfg.ConvertGCJ02 {
		geoRecords = geo.TransformGCJ02(geoRecords)
	}

	type job struct {
		kind  string
		name  string
		count int
		write func(path string) error
	}
	var jobs []job
	if e.cfg.ExportCSV {
		jobs = append(jobs, job{"csv", csvName, len(records),
			func(p string) error { return writeCSV(p, records) }})
	}
	if e.cfg.ExportXLSX {
		jobs = append(jobs, job{"xlsx", xlsxName, len(records),
			func(p string) error { return writeXLSX(p, records) }})
	}
	if e.cfg.ExportGeoJSON {
		jobs = append(jobs, job{"geojson", geojsonName, len(geoRecords),
			func(p string) error { return writeGeoJSON(p, geoRecords) }})
	}
	if e.cfg.ExportSQLite {
		jobs = append(jobs, job{"sqlite", sqliteName, len(records),
			func(p string) error { return writeSQLite(p, e.cfg.InputDir, records, geoRecords) }})
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		artifacts []Artifact
		firstErr  error
	)
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			path := ResolveOutputPath(outDir, j.name, e.cfg.Overwrite)
			if err := j.write(path); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%s export: %w", j.kind, err)
				}
				mu.Unlock()
				return
			}
			var size int64
			if fi, err := os.Stat(path); err == nil {
				size = fi.Size()
			}
			e.log.Export("Wrote %d records -> %s", j.count, path)
			mu.Lock()
			artifacts = append(artifacts, Artifact{Kind: j.kind, Path: path, Bytes: size})
			mu.Unlock()
		}(j)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Kind < artifacts[j].Kind })
	return artifacts, nil
}
