package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Store is one retail location from the store list. Imports always insert
// fresh rows; store_key is not unique across runs.
type Store struct {
	ID         int64     `json:"id"`
	Key        int64     `json:"key"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	AddressRaw string    `json:"address_raw"`
	HoursRaw   string    `json:"hours_raw"`
	County     string    `json:"county"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	CreatedAt  time.Time `json:"created_at"`
}

// String renders a store the way the import progress output prints it
func (s *Store) String() string {
	return fmt.Sprintf("#%d %s", s.Key, s.Name)
}

// InsertStore saves a new store row and fills in its ID
func (db *PricesDB) InsertStore(store *Store) error {
	result, err := db.conn.Exec(`
		INSERT INTO stores (store_key, name, phone, address, address_raw, hours_raw, county, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		store.Key, store.Name, store.Phone, store.Address, store.AddressRaw,
		store.HoursRaw, store.County, store.Latitude, store.Longitude)
	if err != nil {
		return fmt.Errorf("failed to insert store %d: %w", store.Key, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get store ID for %d: %w", store.Key, err)
	}
	store.ID = id
	return nil
}

// UpdateStoreLocation writes the geocoded address and coordinates
func (db *PricesDB) UpdateStoreLocation(store *Store) error {
	_, err := db.conn.Exec(`
		UPDATE stores SET address = ?, latitude = ?, longitude = ?
		WHERE id = ?`,
		store.Address, store.Latitude, store.Longitude, store.ID)
	if err != nil {
		return fmt.Errorf("failed to update store %d location: %w", store.Key, err)
	}
	return nil
}

// GetStore loads one store row by ID
func (db *PricesDB) GetStore(id int64) (*Store, error) {
	row := db.conn.QueryRow(`
		SELECT id, store_key, name, phone, address, address_raw, hours_raw, county, latitude, longitude, created_at
		FROM stores WHERE id = ?`, id)

	store := &Store{}
	var latitude, longitude sql.NullFloat64
	var createdAt sql.NullTime

	err := row.Scan(&store.ID, &store.Key, &store.Name, &store.Phone,
		&store.Address, &store.AddressRaw, &store.HoursRaw, &store.County,
		&latitude, &longitude, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get store %d: %w", id, err)
	}

	if latitude.Valid {
		store.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		store.Longitude = &longitude.Float64
	}
	if createdAt.Valid {
		store.CreatedAt = createdAt.Time
	}
	return store, nil
}

// CountStores returns the number of store rows
func (db *PricesDB) CountStores() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM stores`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count stores: %w", err)
	}
	return count, nil
}
