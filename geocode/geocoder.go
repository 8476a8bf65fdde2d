// Package geocode resolves free-text store addresses into normalized
// addresses and coordinates.
package geocode

import (
	"context"
	"errors"
)

var (
	// ErrNoResults means the provider knows nothing about the address
	ErrNoResults = errors.New("no results for address")

	// ErrAmbiguousAddress means the provider returned several candidate
	// locations; the caller reports it for that store and moves on
	ErrAmbiguousAddress = errors.New("address matched multiple locations")
)

// Result is a resolved address with its coordinates
type Result struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Geocoder resolves one address per call. A single instance is shared
// across all rows of an import run.
type Geocoder interface {
	// Geocode resolves the address or fails with ErrNoResults,
	// ErrAmbiguousAddress or a transport error
	Geocode(ctx context.Context, address string) (*Result, error)

	// GetName identifies the provider
	GetName() string
}
