package search

import (
	"testing"

	"olccprices/database"
)

func testProducts() []*database.Product {
	return []*database.Product{
		{ID: 1, Code: "0103B", Title: "CANADIAN CLUB WHISKY"},
		{ID: 2, Code: "0301", Title: "OREGON CHERRY LIQUEUR"},
		{ID: 3, Code: "0201", Title: "MONARCH VODKA"},
		{ID: 4, Code: "0105", Title: "MONARCH COFFEE LIQUEUR"},
	}
}

func TestSearchSingleTerm(t *testing.T) {
	index := NewProductIndex(testProducts())

	results := index.Search("vodka", 0)
	if len(results) != 1 {
		t.Fatalf("Search(%q) returned %d products, want 1", "vodka", len(results))
	}
	if results[0].Code != "0201" {
		t.Errorf("Search(%q)[0].Code = %q, want %q", "vodka", results[0].Code, "0201")
	}
}

func TestSearchMatchesStemmedForms(t *testing.T) {
	index := NewProductIndex(testProducts())

	results := index.Search("cherries", 0)
	if len(results) != 1 {
		t.Fatalf("Search(%q) returned %d products, want 1", "cherries", len(results))
	}
	if results[0].Code != "0301" {
		t.Errorf("Search(%q)[0].Code = %q, want %q", "cherries", results[0].Code, "0301")
	}
}

func TestSearchRequiresAllTerms(t *testing.T) {
	index := NewProductIndex(testProducts())

	results := index.Search("monarch vodka", 0)
	if len(results) != 1 {
		t.Fatalf("Search(%q) returned %d products, want 1", "monarch vodka", len(results))
	}
	if results[0].Code != "0201" {
		t.Errorf("Search(%q)[0].Code = %q, want %q", "monarch vodka", results[0].Code, "0201")
	}

	if results := index.Search("monarch club", 0); len(results) != 0 {
		t.Errorf("Search(%q) returned %d products, want 0", "monarch club", len(results))
	}
}

func TestSearchOrdersByCode(t *testing.T) {
	index := NewProductIndex(testProducts())

	results := index.Search("liqueur", 0)
	if len(results) != 2 {
		t.Fatalf("Search(%q) returned %d products, want 2", "liqueur", len(results))
	}
	if results[0].Code != "0105" || results[1].Code != "0301" {
		t.Errorf("Search(%q) order = [%s %s], want [0105 0301]",
			"liqueur", results[0].Code, results[1].Code)
	}
}

func TestSearchLimit(t *testing.T) {
	index := NewProductIndex(testProducts())

	results := index.Search("liqueur", 1)
	if len(results) != 1 {
		t.Fatalf("Search(%q, 1) returned %d products, want 1", "liqueur", len(results))
	}
	if results[0].Code != "0105" {
		t.Errorf("Search(%q, 1)[0].Code = %q, want %q", "liqueur", results[0].Code, "0105")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	index := NewProductIndex(testProducts())

	for _, query := range []string{"", "   ", "---"} {
		results := index.Search(query, 0)
		if results == nil {
			t.Errorf("Search(%q) = nil, want empty slice", query)
		}
		if len(results) != 0 {
			t.Errorf("Search(%q) returned %d products, want 0", query, len(results))
		}
	}
}

func TestIndexSize(t *testing.T) {
	index := NewProductIndex(testProducts())
	if index.Size() != 4 {
		t.Errorf("Size() = %d, want 4", index.Size())
	}

	empty := NewProductIndex(nil)
	if empty.Size() != 0 {
		t.Errorf("Size() = %d for empty index, want 0", empty.Size())
	}
}

func TestLoadProductIndex(t *testing.T) {
	db, err := database.NewPricesDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()

	seed := map[string]string{
		"0103B": "CANADIAN CLUB WHISKY",
		"0201":  "MONARCH VODKA",
	}
	for code, title := range seed {
		tx, err := db.Begin()
		if err != nil {
			t.Fatalf("Failed to begin transaction: %v", err)
		}
		product, _, err := db.GetOrCreateProductTx(tx, code)
		if err != nil {
			t.Fatalf("Failed to create product %s: %v", code, err)
		}
		product.Title = title
		if err := db.UpdateProductTx(tx, product); err != nil {
			t.Fatalf("Failed to update product %s: %v", code, err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Failed to commit: %v", err)
		}
	}

	index, err := LoadProductIndex(db)
	if err != nil {
		t.Fatalf("LoadProductIndex() failed: %v", err)
	}
	if index.Size() != 2 {
		t.Errorf("Size() = %d, want 2", index.Size())
	}

	results := index.Search("whisky", 0)
	if len(results) != 1 {
		t.Fatalf("Search(%q) returned %d products, want 1", "whisky", len(results))
	}
	if results[0].Code != "0103B" {
		t.Errorf("Search(%q)[0].Code = %q, want %q", "whisky", results[0].Code, "0103B")
	}
}
