package database

import (
	"database/sql"
	"fmt"
)

// InitPricesSchema initializes the catalog schema with all required tables
func InitPricesSchema(db *sql.DB) error {
	schema := `
	-- Products from the OLCC numeric price list
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		code TEXT NOT NULL,                     -- OLCC item code (e.g. "0212H"); not unique at the DB level
		title TEXT NOT NULL DEFAULT '',         -- written once, at creation
		status TEXT NOT NULL DEFAULT '',        -- listing status flag from the sheet
		size TEXT NOT NULL DEFAULT '',          -- bottle size (e.g. "750 ML")
		bottles_per_case INTEGER,               -- NULL until a sheet provides it
		proof TEXT NOT NULL DEFAULT '',         -- proof as printed on the sheet
		age INTEGER,                            -- whole years; months are divided down
		on_sale INTEGER NOT NULL DEFAULT 0,     -- recomputed from month-over-month prices
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Price snapshots, one per product and effective date
	CREATE TABLE IF NOT EXISTS product_prices (
		id INTEGER PRIMARY KEY,
		product_id INTEGER NOT NULL,
		amount TEXT NOT NULL,                   -- normalized decimal string
		effective_date DATE NOT NULL,           -- YYYY-MM-DD
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(product_id) REFERENCES products(id) ON DELETE CASCADE,
		UNIQUE(product_id, effective_date)
	);

	-- Retail stores from the store list; every import inserts fresh rows
	CREATE TABLE IF NOT EXISTS stores (
		id INTEGER PRIMARY KEY,
		store_key INTEGER NOT NULL,             -- numeric key from the first sheet column
		name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',       -- resolved address once geocoded
		address_raw TEXT NOT NULL DEFAULT '',   -- address exactly as imported
		hours_raw TEXT NOT NULL DEFAULT '',
		county TEXT NOT NULL DEFAULT '',
		latitude REAL,
		longitude REAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- One row per completed fetch-and-import run
	CREATE TABLE IF NOT EXISTS import_records (
		id INTEGER PRIMARY KEY,
		run_id TEXT NOT NULL,                   -- uuid of the run
		url TEXT NOT NULL,                      -- price list URL that was fetched
		etag TEXT NOT NULL DEFAULT '',          -- etag of the imported payload, as sent by the server
		imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Indexes for lookup paths
	CREATE INDEX IF NOT EXISTS idx_products_code ON products(code);
	CREATE INDEX IF NOT EXISTS idx_products_on_sale ON products(on_sale);
	CREATE INDEX IF NOT EXISTS idx_product_prices_product_id ON product_prices(product_id);
	CREATE INDEX IF NOT EXISTS idx_product_prices_effective_date ON product_prices(effective_date);
	CREATE INDEX IF NOT EXISTS idx_stores_key ON stores(store_key);
	CREATE INDEX IF NOT EXISTS idx_import_records_url ON import_records(url);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create prices schema: %w", err)
	}

	return nil
}
