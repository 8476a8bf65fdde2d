package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrMultipleProducts is returned when a product code matches more than
// one row. The row loop reports it and keeps going; it never aborts a run.
var ErrMultipleProducts = errors.New("multiple products match code")

// DBConfig configures the connection pool
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PricesDB is the wrapper around the product/price/store catalog database
type PricesDB struct {
	conn *sql.DB
}

// isInMemoryDB detects SQLite in-memory paths, including the
// file:name?mode=memory&cache=shared form
func isInMemoryDB(dbPath string) bool {
	if dbPath == ":memory:" {
		return true
	}
	if strings.HasPrefix(dbPath, "file:") && strings.Contains(dbPath, "mode=memory") {
		return true
	}
	return false
}

// NewPricesDB opens the catalog database with default pool settings
func NewPricesDB(dbPath string) (*PricesDB, error) {
	return NewPricesDBWithConfig(dbPath, DBConfig{})
}

// NewPricesDBWithConfig opens the catalog database with the given pool settings
func NewPricesDBWithConfig(dbPath string, config DBConfig) (*PricesDB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open prices database: %w", err)
	}

	if isInMemoryDB(dbPath) {
		// An in-memory database exists per connection; the pool must not
		// hand out a second one.
		conn.SetMaxOpenConns(1)
	} else if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		conn.SetMaxOpenConns(25)
	}

	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(5)
	}

	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping prices database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := conn.Exec("PRAGMA encoding = 'UTF-8'"); err != nil {
		log.Printf("Warning: failed to set UTF-8 encoding: %v", err)
	}

	if !isInMemoryDB(dbPath) {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			log.Printf("Warning: failed to enable WAL mode: %v", err)
		}
	}

	db := &PricesDB{conn: conn}

	if err := InitPricesSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize prices schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *PricesDB) Close() error {
	return db.conn.Close()
}

// GetConnection returns the underlying sql.DB for direct access
func (db *PricesDB) GetConnection() *sql.DB {
	return db.conn
}

// Begin starts a transaction; the import loop opens one per product row
func (db *PricesDB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}

// Product is one catalog entry, identified by its OLCC code
type Product struct {
	ID             int64     `json:"id"`
	Code           string    `json:"code"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	Size           string    `json:"size"`
	BottlesPerCase *int      `json:"bottles_per_case"`
	Proof          string    `json:"proof"`
	Age            *int      `json:"age"`
	OnSale         bool      `json:"on_sale"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProductPrice is one price snapshot of a product
type ProductPrice struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"product_id"`
	Amount        string    `json:"amount"`
	EffectiveDate time.Time `json:"effective_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// PriceInsertResult tells a caller what an insert attempt did. A
// duplicate (product, effective date) pair is not an error.
type PriceInsertResult int

const (
	PriceInserted PriceInsertResult = iota
	PriceAlreadyExists
)

const productColumns = `id, code, title, status, size, bottles_per_case, proof, age, on_sale, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*Product, error) {
	product := &Product{}

	var bottlesPerCase, age sql.NullInt64
	var onSale int
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&product.ID, &product.Code, &product.Title, &product.Status,
		&product.Size, &bottlesPerCase, &product.Proof, &age, &onSale,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if bottlesPerCase.Valid {
		n := int(bottlesPerCase.Int64)
		product.BottlesPerCase = &n
	}
	if age.Valid {
		n := int(age.Int64)
		product.Age = &n
	}
	product.OnSale = onSale != 0
	if createdAt.Valid {
		product.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		product.UpdatedAt = updatedAt.Time
	}

	return product, nil
}

// GetOrCreateProductTx finds the product with the given code or creates a
// blank one, inside the caller's transaction. The boolean reports whether
// the product was created. A code matching more than one row returns an
// error wrapping ErrMultipleProducts.
func (db *PricesDB) GetOrCreateProductTx(tx *sql.Tx, code string) (*Product, bool, error) {
	var count int
	err := tx.QueryRow(`SELECT COUNT(*) FROM products WHERE code = ?`, code).Scan(&count)
	if err != nil {
		return nil, false, fmt.Errorf("failed to count products for code %s: %w", code, err)
	}

	switch {
	case count > 1:
		return nil, false, fmt.Errorf("code %s matches %d products: %w", code, count, ErrMultipleProducts)
	case count == 1:
		row := tx.QueryRow(`SELECT `+productColumns+` FROM products WHERE code = ?`, code)
		product, err := scanProduct(row)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load product %s: %w", code, err)
		}
		return product, false, nil
	}

	result, err := tx.Exec(`INSERT INTO products (code) VALUES (?)`, code)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create product %s: %w", code, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get product ID for %s: %w", code, err)
	}

	now := time.Now()
	return &Product{ID: id, Code: code, CreatedAt: now, UpdatedAt: now}, true, nil
}

// UpdateProductTx persists the product's mutable fields inside the
// caller's transaction. The code never changes after creation.
func (db *PricesDB) UpdateProductTx(tx *sql.Tx, product *Product) error {
	var bottlesPerCase, age interface{}
	if product.BottlesPerCase != nil {
		bottlesPerCase = *product.BottlesPerCase
	}
	if product.Age != nil {
		age = *product.Age
	}

	_, err := tx.Exec(`
		UPDATE products
		SET title = ?, status = ?, size = ?, bottles_per_case = ?,
		    proof = ?, age = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		product.Title, product.Status, product.Size, bottlesPerCase,
		product.Proof, age, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", product.Code, err)
	}
	return nil
}

// InsertPriceTx records a price snapshot inside the caller's transaction.
// A snapshot that already exists for the (product, effective date) pair
// leaves the table untouched and reports PriceAlreadyExists.
func (db *PricesDB) InsertPriceTx(tx *sql.Tx, productID int64, amount string, effectiveDate time.Time) (PriceInsertResult, error) {
	result, err := tx.Exec(`
		INSERT INTO product_prices (product_id, amount, effective_date)
		VALUES (?, ?, ?)
		ON CONFLICT(product_id, effective_date) DO NOTHING`,
		productID, amount, effectiveDate.Format("2006-01-02"))
	if err != nil {
		return PriceAlreadyExists, fmt.Errorf("failed to insert price: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return PriceAlreadyExists, fmt.Errorf("failed to read insert result: %w", err)
	}
	if affected == 0 {
		return PriceAlreadyExists, nil
	}
	return PriceInserted, nil
}

// GetProductByCode loads the product with the given code. Zero matches
// return sql.ErrNoRows; several matches return ErrMultipleProducts.
func (db *PricesDB) GetProductByCode(code string) (*Product, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM products WHERE code = ?`, code).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to count products for code %s: %w", code, err)
	}
	if count > 1 {
		return nil, fmt.Errorf("code %s matches %d products: %w", code, count, ErrMultipleProducts)
	}

	row := db.conn.QueryRow(`SELECT `+productColumns+` FROM products WHERE code = ?`, code)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load product %s: %w", code, err)
	}
	return product, nil
}

// ListProducts returns the whole catalog ordered by code
func (db *PricesDB) ListProducts() ([]*Product, error) {
	rows, err := db.conn.Query(`SELECT ` + productColumns + ` FROM products ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// PricesForProduct returns a product's snapshots ordered by effective date
func (db *PricesDB) PricesForProduct(productID int64) ([]*ProductPrice, error) {
	rows, err := db.conn.Query(`
		SELECT id, product_id, amount, effective_date, created_at
		FROM product_prices
		WHERE product_id = ?
		ORDER BY effective_date`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	defer rows.Close()

	var prices []*ProductPrice
	for rows.Next() {
		price := &ProductPrice{}
		var effectiveDate, createdAt sql.NullTime
		if err := rows.Scan(&price.ID, &price.ProductID, &price.Amount, &effectiveDate, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		if effectiveDate.Valid {
			price.EffectiveDate = effectiveDate.Time
		}
		if createdAt.Valid {
			price.CreatedAt = createdAt.Time
		}
		prices = append(prices, price)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prices: %w", err)
	}
	return prices, nil
}

// CountProducts returns the number of catalog products
func (db *PricesDB) CountProducts() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// CountPrices returns the number of stored price snapshots
func (db *PricesDB) CountPrices() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM product_prices`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count prices: %w", err)
	}
	return count, nil
}

// RecomputeOnSale flags every product whose newest price in the month of
// now is lower than its newest price in the month before. Products
// missing either price are cleared. Returns how many products are on
// sale after the pass.
func (db *PricesDB) RecomputeOnSale(now time.Time) (int, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextStart := monthStart.AddDate(0, 1, 0)
	prevStart := monthStart.AddDate(0, -1, 0)

	const layout = "2006-01-02"
	_, err := db.conn.Exec(`
		UPDATE products SET on_sale =
			CASE WHEN
				(SELECT CAST(cur.amount AS REAL) FROM product_prices cur
				 WHERE cur.product_id = products.id
				   AND cur.effective_date >= ? AND cur.effective_date < ?
				 ORDER BY cur.effective_date DESC LIMIT 1)
				<
				(SELECT CAST(prev.amount AS REAL) FROM product_prices prev
				 WHERE prev.product_id = products.id
				   AND prev.effective_date >= ? AND prev.effective_date < ?
				 ORDER BY prev.effective_date DESC LIMIT 1)
			THEN 1 ELSE 0 END`,
		monthStart.Format(layout), nextStart.Format(layout),
		prevStart.Format(layout), monthStart.Format(layout))
	if err != nil {
		return 0, fmt.Errorf("failed to recompute on_sale: %w", err)
	}

	var onSale int
	err = db.conn.QueryRow(`SELECT COUNT(*) FROM products WHERE on_sale = 1`).Scan(&onSale)
	if err != nil {
		return 0, fmt.Errorf("failed to count on-sale products: %w", err)
	}
	return onSale, nil
}
