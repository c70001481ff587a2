package export

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/lzcapp/PhotoGPSExtractor/internal/geo"
)

func TestWriteSQLite_SchemaAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	records := sampleRecords()
	track := geo.Deduplicate(records, 4)

	if err := writeSQLite(path, "/photos", records, track); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var runID, root string
	var count int
	if err := db.QueryRow(`SELECT id, root, record_count FROM runs`).Scan(&runID, &root, &count); err != nil {
		t.Fatalf("runs row: %v", err)
	}
	if runID == "" {
		t.Error("run id should be a uuid, got empty string")
	}
	if root != "/photos" || count != 2 {
		t.Errorf("runs row = (%q, %d), want (/photos, 2)", root, count)
	}

	var locations int
	if err := db.QueryRow(`SELECT COUNT(*) FROM locations WHERE run_id = ?`, runID).Scan(&locations); err != nil {
		t.Fatal(err)
	}
	if locations != 2 {
		t.Errorf("locations = %d, want 2", locations)
	}

	var trackPoints int
	if err := db.QueryRow(`SELECT COUNT(*) FROM track_points WHERE run_id = ?`, runID).Scan(&trackPoints); err != nil {
		t.Fatal(err)
	}
	if trackPoints != 1 {
		t.Errorf("track_points = %d, want 1 after dedup", trackPoints)
	}

	// Absent optionals must be NULL, not zero.
	var alt sql.NullFloat64
	var ts sql.NullInt64
	if err := db.QueryRow(
		`SELECT altitude, timestamp_ms FROM locations WHERE file_path = ?`, "/photos/b.jpg",
	).Scan(&alt, &ts); err != nil {
		t.Fatal(err)
	}
	if alt.Valid {
		t.Errorf("record b altitude should be NULL, got %v", alt.Float64)
	}
	if !ts.Valid || ts.Int64 != 1609545600000 {
		t.Errorf("record b timestamp = %+v, want 1609545600000", ts)
	}

	if err := db.QueryRow(
		`SELECT altitude FROM locations WHERE file_path = ?`, "/photos/a.jpg",
	).Scan(&alt); err != nil {
		t.Fatal(err)
	}
	if !alt.Valid || alt.Float64 != -10 {
		t.Errorf("record a altitude = %+v, want -10", alt)
	}
}

func TestWriteSQLite_RecreatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	records := sampleRecords()
	track := geo.Deduplicate(records, 4)

	if err := writeSQLite(path, "/photos", records, track); err != nil {
		t.Fatal(err)
	}
	// A second run over the same path must not fail on existing tables or
	// accumulate rows.
	if err := writeSQLite(path, "/photos", records, track); err != nil {
		t.Fatalf("second write: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var runs int
	if err := db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs); err != nil {
		t.Fatal(err)
	}
	if runs != 1 {
		t.Errorf("runs = %d, want 1 after recreate", runs)
	}
}
