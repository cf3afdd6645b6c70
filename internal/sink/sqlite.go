package sink

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"storecrawl/internal/models"
	"storecrawl/pkg/fingerprint"
)

// DB persists canonical records to a SQLite database, one row per record
// keyed by content fingerprint so re-running an export is idempotent.
type DB struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS stores (
	fingerprint  TEXT PRIMARY KEY,
	run_id       TEXT NOT NULL,
	brand        TEXT NOT NULL,
	number       TEXT,
	name         TEXT,
	address      TEXT NOT NULL,
	phone_number TEXT,
	longitude    REAL,
	latitude     REAL,
	hours        TEXT NOT NULL,
	services     TEXT NOT NULL,
	url          TEXT NOT NULL,
	raw          TEXT NOT NULL,
	created_at   TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_stores_brand ON stores(brand);
CREATE INDEX IF NOT EXISTS idx_stores_run ON stores(run_id);
`

// OpenDB opens (and migrates) the SQLite database at path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// InsertBatch stores the records under one run id inside a transaction.
// Rows whose fingerprint already exists are left untouched. Returns the
// number of newly inserted rows.
func (d *DB) InsertBatch(runID, brand string, records []*models.Store) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO stores
			(fingerprint, run_id, brand, number, name, address, phone_number,
			 longitude, latitude, hours, services, url, raw)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0

	for _, record := range records {
		fp, err := fingerprint.Sum(record)
		if err != nil {
			return inserted, fmt.Errorf("failed to fingerprint record: %w", err)
		}

		hours, err := json.Marshal(record.Hours)
		if err != nil {
			return inserted, fmt.Errorf("failed to marshal hours: %w", err)
		}

		services, err := json.Marshal(record.Services)
		if err != nil {
			return inserted, fmt.Errorf("failed to marshal services: %w", err)
		}

		raw, err := json.Marshal(record.Raw)
		if err != nil {
			return inserted, fmt.Errorf("failed to marshal raw: %w", err)
		}

		result, err := stmt.Exec(
			fp, runID, brand,
			record.Number, record.Name, record.Address, record.PhoneNumber,
			record.Location.Longitude(), record.Location.Latitude(),
			string(hours), string(services), record.URL, string(raw),
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert record: %w", err)
		}

		if n, err := result.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("failed to commit: %w", err)
	}

	return inserted, nil
}

// CountByBrand returns how many rows exist for a brand.
func (d *DB) CountByBrand(brand string) (int, error) {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM stores WHERE brand = ?`, brand).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}

	return count, nil
}
