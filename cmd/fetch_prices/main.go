package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"olccprices/database"
	"olccprices/fetch"
	"olccprices/importer"
	"olccprices/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var (
		listURL    = flag.String("url", cfg.PriceListURL, "Price list URL to fetch")
		importType = flag.String("import-type", "auto", "Import type (auto, csv_prices, prices)")
		dbPath     = flag.String("db", cfg.DatabasePath, "Path to the database")
		force      = flag.Bool("force", false, "Import even when the price list is unchanged")
		quiet      = flag.Bool("quiet", false, "Suppress progress output")
		keepTemp   = flag.Bool("keep-temp", false, "Keep the downloaded file instead of deleting it")
	)
	flag.Parse()

	if *importType != "auto" && *importType != "csv_prices" && *importType != "prices" {
		fmt.Fprintf(os.Stderr, "Import type '%s' not implemented!\n", *importType)
		os.Exit(1)
	}

	db, err := database.NewPricesDBWithConfig(*dbPath, cfg.DBConfig())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fetcher := fetch.NewFetcher(db, &fetch.Config{
		URL:       *listURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
		Force:     *force,
	})

	result, err := fetcher.Fetch(context.Background())
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}

	if result.Skipped {
		if !*quiet {
			fmt.Println("Price list unchanged, nothing to import.")
		}
		return
	}

	if !*keepTemp {
		defer os.Remove(result.Path)
	}

	if !*quiet {
		fmt.Printf("Importing 'prices' from: \n\t%s\n", result.Path)
	}

	rows, err := readRows(result.Path, *importType)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", result.Path, err)
	}

	im := importer.NewPriceImporter(db, *quiet)
	importResult, err := im.ImportPriceRows(rows)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	if err := fetcher.RecordImport(importResult.RunID, result); err != nil {
		log.Fatalf("Failed to record import: %v", err)
	}

	if *keepTemp && !*quiet {
		fmt.Printf("Downloaded file kept at: %s\n", result.Path)
	}
}

// readRows picks the reader by import type, falling back to the file
// extension for "auto"
func readRows(filename, importType string) ([][]string, error) {
	switch importType {
	case "csv_prices":
		return importer.ParsePriceCSVFile(filename)
	case "prices":
		return importer.ParseWorkbookFile(filename)
	}
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return importer.ParsePriceCSVFile(filename)
	}
	return importer.ParseWorkbookFile(filename)
}
