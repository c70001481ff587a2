package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lzcapp/PhotoGPSExtractor/internal/metadata"
)

// tabularHeader is shared by the CSV and XLSX writers.
var tabularHeader = []string{"Latitude", "Longitude", "Altitude", "Timestamp", "FileName", "FilePath"}

// writeCSV writes every record at full precision, with empty cells for
// absent optionals.
func writeCSV(path string, records []metadata.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	if err := w.Write(tabularHeader); err != nil {
		f.Close()
		return err
	}
	for _, rec := range records {
		if err := w.Write(tabularRow(rec)); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// tabularRow renders one record as strings. Coordinates use the shortest
// representation that round-trips exactly.
func tabularRow(rec metadata.Record) []string {
	row := []string{
		strconv.FormatFloat(rec.Latitude, 'f', -1, 64),
		strconv.FormatFloat(rec.Longitude, 'f', -1, 64),
		"",
		"",
		filepath.Base(rec.Path),
		rec.Path,
	}
	if rec.Altitude != nil {
		row[2] = strconv.FormatFloat(*rec.Altitude, 'f', -1, 64)
	}
	if rec.Timestamp != nil {
		row[3] = strconv.FormatInt(*rec.Timestamp, 10)
	}
	return row
}
