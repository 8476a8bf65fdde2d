package importer

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"olccprices/database"
)

// ImportResult summarizes one import run
type ImportResult struct {
	RunID           string        `json:"run_id"`
	ImportType      string        `json:"import_type"`
	Total           int           `json:"total"`
	Imported        int           `json:"imported"`
	NewProducts     int           `json:"new_products"`
	NewPrices       int           `json:"new_prices"`
	DuplicatePrices int           `json:"duplicate_prices"`
	Errors          []string      `json:"errors"`
	Started         time.Time     `json:"started"`
	Completed       time.Time     `json:"completed"`
	Duration        time.Duration `json:"duration"`
}

func newImportResult(importType string, total int) *ImportResult {
	return &ImportResult{
		RunID:      uuid.New().String(),
		ImportType: importType,
		Total:      total,
		Errors:     make([]string, 0),
		Started:    time.Now(),
	}
}

// PriceImporter loads normalized price rows into the catalog
type PriceImporter struct {
	db    *database.PricesDB
	quiet bool
	out   io.Writer
	now   func() time.Time
}

// NewPriceImporter creates a price importer writing progress to stdout
func NewPriceImporter(db *database.PricesDB, quiet bool) *PriceImporter {
	return &PriceImporter{
		db:    db,
		quiet: quiet,
		out:   os.Stdout,
		now:   time.Now,
	}
}

// printf writes progress output unless the importer is quiet
func (im *PriceImporter) printf(format string, args ...interface{}) {
	if im.quiet {
		return
	}
	fmt.Fprintf(im.out, format+"\n", args...)
}

// ImportPriceRows imports rows shaped like the monthly numeric price list
func (im *PriceImporter) ImportPriceRows(rows [][]string) (*ImportResult, error) {
	return im.importRows(rows, PriceRowKeys, false, "prices")
}

// ImportHistoryRows imports rows shaped like the price history archive
func (im *PriceImporter) ImportHistoryRows(rows [][]string) (*ImportResult, error) {
	return im.importRows(rows, HistoryRowKeys, true, "price_history")
}

func (im *PriceImporter) importRows(rows [][]string, keys []string, history bool, importType string) (*ImportResult, error) {
	result := newImportResult(importType, len(rows))

	for idx, row := range rows {
		if len(row) == 0 {
			continue
		}
		fields := NormalizeRow(row, keys)

		product, _, err := im.importRow(fields, history, result)
		if err != nil {
			if errors.Is(err, database.ErrMultipleProducts) {
				// Reported even when quiet, like every row-level error
				fmt.Fprintf(im.out, "Product code '%s' returned multiple results!\n", fields["code"])
				result.Errors = append(result.Errors,
					fmt.Sprintf("Row %d: code '%s' returned multiple results", idx+1, fields["code"]))
			} else {
				fmt.Fprintf(im.out, "Error importing row %d (code '%s'): %v\n", idx+1, fields["code"], err)
				result.Errors = append(result.Errors,
					fmt.Sprintf("Row %d (code '%s'): %v", idx+1, fields["code"], err))
			}
			continue
		}

		if product != nil {
			result.Imported++
			im.printf("[%s]: %s", product.Code, product.Title)
		}
	}

	result.Completed = time.Now()
	result.Duration = result.Completed.Sub(result.Started)

	im.printf("")
	im.printf("Imported '%d' new product records and/or prices!", result.Imported)
	if result.Imported < 1 {
		im.printf("")
		im.printf("Did you specify the correct import type?")
	}

	return result, nil
}

// ImportProductRow runs the upsert for one normalized price row: validate
// the code, find or create the product, merge the row's fields, record the
// price snapshot. Returns the product and whether it was newly created; an
// invalid code returns (nil, false, nil) and touches nothing.
func (im *PriceImporter) ImportProductRow(fields map[string]string) (*database.Product, bool, error) {
	return im.importRow(fields, false, nil)
}

// importRow is the per-row engine. Everything from the product lookup to
// the price insert happens in one transaction; any error rolls the whole
// row back.
func (im *PriceImporter) importRow(fields map[string]string, history bool, result *ImportResult) (*database.Product, bool, error) {
	code := fields["code"]
	if !IsCodeValid(code) {
		return nil, false, nil
	}

	tx, err := im.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	product, created, err := im.applyRow(tx, fields, history)
	if err != nil {
		tx.Rollback()
		return nil, false, err
	}

	effectiveDate, err := ResolveEffectiveDate(fields, im.now())
	if err != nil {
		tx.Rollback()
		return nil, false, err
	}

	amount := ParsePriceAmount(fields["price"])
	priceResult, err := im.db.InsertPriceTx(tx, product.ID, amount, effectiveDate)
	if err != nil {
		tx.Rollback()
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit row: %w", err)
	}

	if result != nil {
		if created {
			result.NewProducts++
		}
		switch priceResult {
		case database.PriceInserted:
			result.NewPrices++
		case database.PriceAlreadyExists:
			result.DuplicatePrices++
		}
	}

	return product, created, nil
}

// applyRow merges the row's fields into the product and persists it
func (im *PriceImporter) applyRow(tx *sql.Tx, fields map[string]string, history bool) (*database.Product, bool, error) {
	product, created, err := im.db.GetOrCreateProductTx(tx, fields["code"])
	if err != nil {
		return nil, false, err
	}

	if created {
		// Set the product title once and once only
		product.Title = fields["title"]
	}

	if v := fields["status"]; v != "" {
		product.Status = v
	}
	if v := fields["size"]; v != "" {
		product.Size = v
	}
	if v := fields["per_case"]; v != "" {
		if n, perr := ParseIntFromFloat(v); perr == nil {
			product.BottlesPerCase = &n
		}
	}
	if v := fields["proof"]; v != "" {
		product.Proof = v
	}
	if v := fields["age"]; v != "" {
		im.applyAge(product, v, history)
	}

	if err := im.db.UpdateProductTx(tx, product); err != nil {
		return nil, false, err
	}

	return product, created, nil
}

// applyAge sets the product age. Monthly list cells look like "4 YRS" or
// "18 MOS"; history cells are plain year numbers. A value that parses as
// neither leaves the age untouched.
func (im *PriceImporter) applyAge(product *database.Product, v string, history bool) {
	if history {
		if n, err := ParseIntFromFloat(v); err == nil {
			product.Age = &n
		}
		return
	}
	if years, ok := ParseAge(v); ok {
		if n, err := strconv.Atoi(years); err == nil {
			product.Age = &n
		}
	}
}
