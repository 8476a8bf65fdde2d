// Package search provides stemmed keyword search over product titles.
package search

import (
	"sort"

	"olccprices/database"
)

type indexEntry struct {
	product *database.Product
	stems   map[string]struct{}
}

// ProductIndex is an in-memory stemmed index over product titles. Every
// query term must match at least one title token for a product to hit.
type ProductIndex struct {
	stemmer Stemmer
	entries []indexEntry
}

// NewProductIndex builds an index over the given products
func NewProductIndex(products []*database.Product) *ProductIndex {
	ix := &ProductIndex{
		stemmer: NewEnglishStemmer(),
		entries: make([]indexEntry, 0, len(products)),
	}

	for _, p := range products {
		stems := make(map[string]struct{})
		for _, stem := range ix.stemmer.StemTokens(Tokenize(p.Title)) {
			stems[stem] = struct{}{}
		}
		ix.entries = append(ix.entries, indexEntry{product: p, stems: stems})
	}

	return ix
}

// LoadProductIndex builds an index from all products in the database
func LoadProductIndex(db *database.PricesDB) (*ProductIndex, error) {
	products, err := db.ListProducts()
	if err != nil {
		return nil, err
	}
	return NewProductIndex(products), nil
}

// Size returns the number of indexed products
func (ix *ProductIndex) Size() int {
	return len(ix.entries)
}

// Search returns products whose titles match every term of the query,
// ordered by product code. A limit below 1 means no limit.
func (ix *ProductIndex) Search(query string, limit int) []*database.Product {
	terms := ix.stemmer.StemTokens(Tokenize(query))
	if len(terms) == 0 {
		return []*database.Product{}
	}

	matches := make([]*database.Product, 0)
	for _, entry := range ix.entries {
		if entry.matchesAll(terms) {
			matches = append(matches, entry.product)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Code < matches[j].Code
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func (e indexEntry) matchesAll(terms []string) bool {
	for _, term := range terms {
		if _, ok := e.stems[term]; !ok {
			return false
		}
	}
	return true
}
