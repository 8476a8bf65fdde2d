package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"olccprices/database"
	"olccprices/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var (
		dbPath = flag.String("db", cfg.DatabasePath, "Path to the database")
		quiet  = flag.Bool("quiet", false, "Suppress output")
	)
	flag.Parse()

	db, err := database.NewPricesDBWithConfig(*dbPath, cfg.DBConfig())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	count, err := db.RecomputeOnSale(time.Now())
	if err != nil {
		log.Fatalf("Failed to update sale flags: %v", err)
	}

	if !*quiet {
		fmt.Printf("Flagged %d products on sale.\n", count)
	}
}
