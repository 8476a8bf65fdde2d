package database

import (
	"testing"
)

func TestInsertStore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := &Store{
		Key:        1,
		Name:       "ASTORIA",
		Phone:      "(503) 555-0100",
		Address:    "1004 COMMERCIAL ST, ASTORIA, OR 97103",
		AddressRaw: "1004 COMMERCIAL ST, ASTORIA, OR 97103",
		HoursRaw:   "Mon-Sat 9am-8pm",
		County:     "Clatsop",
	}

	if err := db.InsertStore(store); err != nil {
		t.Fatalf("InsertStore() failed: %v", err)
	}
	if store.ID == 0 {
		t.Error("Store ID not filled in")
	}

	loaded, err := db.GetStore(store.ID)
	if err != nil {
		t.Fatalf("GetStore() failed: %v", err)
	}
	if loaded.Name != "ASTORIA" {
		t.Errorf("Name = %q, want %q", loaded.Name, "ASTORIA")
	}
	if loaded.County != "Clatsop" {
		t.Errorf("County = %q, want %q", loaded.County, "Clatsop")
	}
	if loaded.Latitude != nil || loaded.Longitude != nil {
		t.Error("Coordinates should be nil before geocoding")
	}
}

func TestInsertStoreRepeatedKey(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	// Store keys repeat across import runs; every run inserts fresh rows
	for i := 0; i < 2; i++ {
		store := &Store{Key: 7, Name: "BEND"}
		if err := db.InsertStore(store); err != nil {
			t.Fatalf("InsertStore() run %d failed: %v", i+1, err)
		}
	}

	count, err := db.CountStores()
	if err != nil {
		t.Fatalf("CountStores() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("CountStores() = %d, want 2", count)
	}
}

func TestUpdateStoreLocation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := &Store{
		Key:        1,
		Name:       "ASTORIA",
		Address:    "1004 COMMERCIAL ST, ASTORIA, OR 97103",
		AddressRaw: "1004 COMMERCIAL ST, ASTORIA, OR 97103",
	}
	if err := db.InsertStore(store); err != nil {
		t.Fatalf("InsertStore() failed: %v", err)
	}

	lat, lon := 46.1885, -123.8313
	store.Address = "1004 Commercial Street, Astoria, OR 97103, United States"
	store.Latitude = &lat
	store.Longitude = &lon

	if err := db.UpdateStoreLocation(store); err != nil {
		t.Fatalf("UpdateStoreLocation() failed: %v", err)
	}

	loaded, err := db.GetStore(store.ID)
	if err != nil {
		t.Fatalf("GetStore() failed: %v", err)
	}
	if loaded.Address != store.Address {
		t.Errorf("Address = %q, want %q", loaded.Address, store.Address)
	}
	if loaded.AddressRaw != "1004 COMMERCIAL ST, ASTORIA, OR 97103" {
		t.Errorf("AddressRaw = %q, should keep the original", loaded.AddressRaw)
	}
	if loaded.Latitude == nil || *loaded.Latitude != lat {
		t.Errorf("Latitude = %v, want %v", loaded.Latitude, lat)
	}
	if loaded.Longitude == nil || *loaded.Longitude != lon {
		t.Errorf("Longitude = %v, want %v", loaded.Longitude, lon)
	}
}

func TestStoreString(t *testing.T) {
	store := &Store{Key: 42, Name: "PORTLAND BURNSIDE"}

	if got := store.String(); got != "#42 PORTLAND BURNSIDE" {
		t.Errorf("String() = %q, want %q", got, "#42 PORTLAND BURNSIDE")
	}
}
