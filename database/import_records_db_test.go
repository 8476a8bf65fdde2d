package database

import (
	"testing"
)

func TestLatestImportRecordUnknownURL(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	record, err := db.LatestImportRecord("http://example.com/prices.xls")
	if err != nil {
		t.Fatalf("LatestImportRecord() failed: %v", err)
	}
	if record != nil {
		t.Errorf("LatestImportRecord() = %+v, want nil for unknown URL", record)
	}
}

func TestLatestImportRecordReturnsNewest(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	url := "http://example.com/prices.xls"

	first := &ImportRecord{RunID: "run-1", URL: url, ETag: `"etag-1"`}
	if err := db.CreateImportRecord(first); err != nil {
		t.Fatalf("CreateImportRecord() failed: %v", err)
	}
	second := &ImportRecord{RunID: "run-2", URL: url, ETag: `"etag-2"`}
	if err := db.CreateImportRecord(second); err != nil {
		t.Fatalf("CreateImportRecord() failed: %v", err)
	}

	latest, err := db.LatestImportRecord(url)
	if err != nil {
		t.Fatalf("LatestImportRecord() failed: %v", err)
	}
	if latest == nil {
		t.Fatal("LatestImportRecord() = nil, want a record")
	}
	if latest.ETag != `"etag-2"` {
		t.Errorf("ETag = %q, want %q", latest.ETag, `"etag-2"`)
	}
	if latest.RunID != "run-2" {
		t.Errorf("RunID = %q, want %q", latest.RunID, "run-2")
	}
	if latest.ImportedAt.IsZero() {
		t.Error("ImportedAt not filled in")
	}

	// Records for other URLs stay invisible
	other, err := db.LatestImportRecord("http://example.com/other.xls")
	if err != nil {
		t.Fatalf("LatestImportRecord() failed: %v", err)
	}
	if other != nil {
		t.Errorf("LatestImportRecord() = %+v, want nil", other)
	}

	count, err := db.CountImportRecords()
	if err != nil {
		t.Fatalf("CountImportRecords() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("CountImportRecords() = %d, want 2", count)
	}
}
