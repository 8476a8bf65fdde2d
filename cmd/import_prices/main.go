package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"olccprices/database"
	"olccprices/geocode"
	"olccprices/importer"
	"olccprices/internal/config"
)

var importTypes = map[string]bool{
	"csv_prices":    true,
	"prices":        true,
	"price_history": true,
	"stores":        true,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var (
		importType   = flag.String("import-type", "prices", "Import type (csv_prices, prices, price_history, stores)")
		quiet        = flag.Bool("quiet", false, "Suppress progress output")
		geocodeFlag  = flag.Bool("geocode", true, "Geocode store addresses while importing stores")
		dbPath       = flag.String("db", cfg.DatabasePath, "Path to the database")
		geocodeURL   = flag.String("geocode-url", cfg.GeocoderURL, "Geocoding service base URL")
		geocodeDelay = flag.Duration("geocode-delay", cfg.GeocodeDelay, "Pause between geocoding requests")
		reportPath   = flag.String("report", "", "Write a JSON import report to this file")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fatalf("You must specify a filename!")
	}
	filename := flag.Arg(0)

	if _, err := os.Stat(filename); err != nil {
		fatalf("No such file: '%s'", filename)
	}

	if !importTypes[*importType] {
		fatalf("Import type '%s' not implemented!", *importType)
	}

	db, err := database.NewPricesDBWithConfig(*dbPath, cfg.DBConfig())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if !*quiet {
		fmt.Printf("Importing '%s' from: \n\t%s\n", *importType, filename)
	}

	var result interface{}
	switch *importType {
	case "csv_prices":
		rows, err := importer.ParsePriceCSVFile(filename)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", filename, err)
		}
		result = runPriceImport(db, rows, false, *quiet)

	case "prices":
		rows, err := importer.ParseWorkbookFile(filename)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", filename, err)
		}
		result = runPriceImport(db, rows, false, *quiet)

	case "price_history":
		rows, err := readRows(filename)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", filename, err)
		}
		result = runPriceImport(db, rows, true, *quiet)

	case "stores":
		rows, err := importer.ParseWorkbookFile(filename)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", filename, err)
		}

		var geocoder geocode.Geocoder
		if *geocodeFlag {
			geocoder = geocode.NewNominatimGeocoder(&geocode.GeocoderConfig{
				BaseURL:   *geocodeURL,
				UserAgent: cfg.UserAgent,
				Timeout:   cfg.HTTPTimeout,
				Delay:     *geocodeDelay,
			})
		}

		storeImporter := importer.NewStoreImporter(db, geocoder, *quiet)
		storeResult, err := storeImporter.ImportRows(context.Background(), rows)
		if err != nil {
			log.Fatalf("Store import failed: %v", err)
		}
		result = storeResult
	}

	if *reportPath != "" {
		if err := writeReport(*reportPath, result); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
	}
}

func runPriceImport(db *database.PricesDB, rows [][]string, history bool, quiet bool) *importer.ImportResult {
	im := importer.NewPriceImporter(db, quiet)

	var result *importer.ImportResult
	var err error
	if history {
		result, err = im.ImportHistoryRows(rows)
	} else {
		result, err = im.ImportPriceRows(rows)
	}
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	return result
}

// readRows picks the reader by file extension
func readRows(filename string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return importer.ParsePriceCSVFile(filename)
	}
	return importer.ParseWorkbookFile(filename)
}

func writeReport(path string, result interface{}) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
