package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"olccprices/database"
	"olccprices/internal/config"
	"olccprices/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var (
		dbPath = flag.String("db", cfg.DatabasePath, "Path to the database")
		limit  = flag.Int("limit", 25, "Maximum number of results (0 for no limit)")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "You must specify a search query!")
		os.Exit(1)
	}
	query := strings.Join(flag.Args(), " ")

	db, err := database.NewPricesDBWithConfig(*dbPath, cfg.DBConfig())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	index, err := search.LoadProductIndex(db)
	if err != nil {
		log.Fatalf("Failed to load products: %v", err)
	}

	matches := index.Search(query, *limit)
	if len(matches) == 0 {
		fmt.Println("No products found.")
		return
	}

	for _, p := range matches {
		sale := ""
		if p.OnSale {
			sale = " (on sale)"
		}
		fmt.Printf("[%s]: %s%s\n", p.Code, p.Title, sale)
	}
	fmt.Printf("\n%d products found.\n", len(matches))
}
