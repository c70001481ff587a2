package export

import (
	"database/sql"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lzcapp/PhotoGPSExtractor/internal/metadata"
)

// writeSQLite persists both views into one database file: the full tabular
// sequence in locations and the deduplicated path in track_points, keyed to
// a row in runs describing this invocation. The file is recreated on every
// run; stale databases from earlier schema versions never survive.
func writeSQLite(path, root string, records, trackRecords []metadata.Record) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	const schema = `
CREATE TABLE runs (
	id           TEXT PRIMARY KEY,
	root         TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	record_count INTEGER NOT NULL
);
CREATE TABLE locations (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	latitude     REAL NOT NULL,
	longitude    REAL NOT NULL,
	altitude     REAL,
	timestamp_ms INTEGER,
	file_path    TEXT NOT NULL
);
CREATE TABLE track_points (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	seq       INTEGER NOT NULL,
	latitude  REAL NOT NULL,
	longitude REAL NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	if _, err := tx.Exec(
		`INSERT INTO runs (id, root, created_at, record_count) VALUES (?, ?, ?, ?)`,
		runID, root, time.Now().UTC().Format(time.RFC3339), len(records),
	); err != nil {
		return err
	}

	locStmt, err := tx.Prepare(
		`INSERT INTO locations (run_id, latitude, longitude, altitude, timestamp_ms, file_path)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer locStmt.Close()
	for _, rec := range records {
		var alt, ts interface{}
		if rec.Altitude != nil {
			alt = *rec.Altitude
		}
		if rec.Timestamp != nil {
			ts = *rec.Timestamp
		}
		if _, err := locStmt.Exec(runID, rec.Latitude, rec.Longitude, alt, ts, rec.Path); err != nil {
			return err
		}
	}

	trackStmt, err := tx.Prepare(
		`INSERT INTO track_points (run_id, seq, latitude, longitude) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer trackStmt.Close()
	for i, rec := range trackRecords {
		if _, err := trackStmt.Exec(runID, i, rec.Latitude, rec.Longitude); err != nil {
			return err
		}
	}

	return tx.Commit()
}
