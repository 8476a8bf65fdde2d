package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ImportRecord marks one completed fetch-and-import of a price list URL.
// The stored etag is what decides whether the next fetch downloads again.
type ImportRecord struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	URL        string    `json:"url"`
	ETag       string    `json:"etag"`
	ImportedAt time.Time `json:"imported_at"`
}

// CreateImportRecord saves the record of a successful run
func (db *PricesDB) CreateImportRecord(record *ImportRecord) error {
	result, err := db.conn.Exec(`
		INSERT INTO import_records (run_id, url, etag)
		VALUES (?, ?, ?)`,
		record.RunID, record.URL, record.ETag)
	if err != nil {
		return fmt.Errorf("failed to create import record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get import record ID: %w", err)
	}
	record.ID = id
	return nil
}

// LatestImportRecord returns the newest record for the URL, or nil when
// the URL has never been imported.
func (db *PricesDB) LatestImportRecord(url string) (*ImportRecord, error) {
	row := db.conn.QueryRow(`
		SELECT id, run_id, url, etag, imported_at
		FROM import_records
		WHERE url = ?
		ORDER BY id DESC LIMIT 1`, url)

	record := &ImportRecord{}
	var importedAt sql.NullTime

	err := row.Scan(&record.ID, &record.RunID, &record.URL, &record.ETag, &importedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get import record for %s: %w", url, err)
	}

	if importedAt.Valid {
		record.ImportedAt = importedAt.Time
	}
	return record, nil
}

// CountImportRecords returns the number of recorded runs
func (db *PricesDB) CountImportRecords() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM import_records`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count import records: %w", err)
	}
	return count, nil
}
