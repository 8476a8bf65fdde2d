package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"olccprices/database"
	"olccprices/geocode"
)

// StoreImportResult summarizes one store import run
type StoreImportResult struct {
	RunID         string        `json:"run_id"`
	Total         int           `json:"total"`
	Stores        int           `json:"stores"`
	Geocoded      int           `json:"geocoded"`
	GeocodeErrors int           `json:"geocode_errors"`
	Errors        []string      `json:"errors"`
	Started       time.Time     `json:"started"`
	Completed     time.Time     `json:"completed"`
	Duration      time.Duration `json:"duration"`
}

// StoreImporter loads store list rows, optionally resolving each store's
// address through a shared geocoder
type StoreImporter struct {
	db       *database.PricesDB
	geocoder geocode.Geocoder // nil disables geocoding
	quiet    bool
	out      io.Writer
}

// NewStoreImporter creates a store importer writing progress to stdout
func NewStoreImporter(db *database.PricesDB, geocoder geocode.Geocoder, quiet bool) *StoreImporter {
	return &StoreImporter{
		db:       db,
		geocoder: geocoder,
		quiet:    quiet,
		out:      os.Stdout,
	}
}

func (im *StoreImporter) printf(format string, args ...interface{}) {
	if im.quiet {
		return
	}
	fmt.Fprintf(im.out, format+"\n", args...)
}

// StoreFromRow builds a store from the positional sheet columns. The
// resolved address starts out equal to the raw one.
func StoreFromRow(key int, row []string) *database.Store {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	address := cell(3)
	return &database.Store{
		Key:        int64(key),
		Name:       cell(1),
		Phone:      cell(2),
		Address:    address,
		AddressRaw: address,
		HoursRaw:   cell(4),
		County:     cell(5),
	}
}

// ImportRows walks the sheet rows. Only rows whose first column is
// numeric are store records; everything else (headers, blanks, footers)
// is skipped silently.
func (im *StoreImporter) ImportRows(ctx context.Context, rows [][]string) (*StoreImportResult, error) {
	result := &StoreImportResult{
		RunID:   uuid.New().String(),
		Total:   len(rows),
		Errors:  make([]string, 0),
		Started: time.Now(),
	}

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}

		key, err := ParseIntFromFloat(row[0])
		if err != nil {
			continue
		}

		store := StoreFromRow(key, row)
		if err := im.db.InsertStore(store); err != nil {
			fmt.Fprintf(im.out, "Error importing store %d: %v\n", store.Key, err)
			result.Errors = append(result.Errors, fmt.Sprintf("store %d: %v", store.Key, err))
			continue
		}
		result.Stores++

		if im.geocoder != nil {
			im.geocodeStore(ctx, store, result)
		}

		im.printf("%s", store)
	}

	result.Completed = time.Now()
	result.Duration = result.Completed.Sub(result.Started)

	im.printf("")
	im.printf("Imported '%d' store records!", result.Stores)
	if result.Stores < 1 {
		im.printf("")
		im.printf("Did you specify the correct import type?")
	}

	return result, nil
}

// geocodeStore resolves one store's address. An ambiguous match is
// reported for that store and the run continues; the store keeps its raw
// address either way.
func (im *StoreImporter) geocodeStore(ctx context.Context, store *database.Store, result *StoreImportResult) {
	res, err := im.geocoder.Geocode(ctx, store.AddressRaw)
	if err != nil {
		result.GeocodeErrors++
		if errors.Is(err, geocode.ErrAmbiguousAddress) {
			fmt.Fprintf(im.out, "Multiple addresses returned for store %d!\n", store.Key)
			result.Errors = append(result.Errors, fmt.Sprintf("store %d: ambiguous address", store.Key))
		} else {
			fmt.Fprintf(im.out, "Error geocoding store %d: %v\n", store.Key, err)
			result.Errors = append(result.Errors, fmt.Sprintf("store %d: %v", store.Key, err))
		}
		return
	}

	store.Address = res.Address
	store.Latitude = &res.Lat
	store.Longitude = &res.Lon
	if err := im.db.UpdateStoreLocation(store); err != nil {
		fmt.Fprintf(im.out, "Error saving location for store %d: %v\n", store.Key, err)
		result.Errors = append(result.Errors, fmt.Sprintf("store %d: %v", store.Key, err))
		return
	}
	result.Geocoded++
}
