package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// GeocoderConfig configures the Nominatim client
type GeocoderConfig struct {
	BaseURL      string        // search endpoint base, no trailing slash
	UserAgent    string        // required by the Nominatim usage policy
	Timeout      time.Duration // per-request HTTP timeout
	Delay        time.Duration // minimum spacing between provider calls
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NominatimGeocoder resolves addresses against a Nominatim search
// endpoint. Provider calls are spaced by the configured delay whether or
// not they succeed; cache hits make no call and are not spaced.
type NominatimGeocoder struct {
	config  *GeocoderConfig
	client  *http.Client
	limiter *rate.Limiter
	cache   *GeocodeCache
}

// NewNominatimGeocoder creates a geocoder, filling config defaults
func NewNominatimGeocoder(config *GeocoderConfig) *NominatimGeocoder {
	if config == nil {
		config = &GeocoderConfig{}
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if config.UserAgent == "" {
		config.UserAgent = "olccprices/1.0"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Delay == 0 {
		config.Delay = 350 * time.Millisecond
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 24 * time.Hour
	}

	return &NominatimGeocoder{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: rate.NewLimiter(rate.Every(config.Delay), 1),
		cache: NewGeocodeCache(&CacheConfig{
			Enabled: config.CacheEnabled,
			TTL:     config.CacheTTL,
		}),
	}
}

// GetName identifies the provider
func (g *NominatimGeocoder) GetName() string {
	return "nominatim"
}

// nominatimPlace is one hit from the search endpoint. Coordinates arrive
// as strings.
type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Geocode resolves an address to exactly one location. Zero hits return
// ErrNoResults, more than one hit returns ErrAmbiguousAddress.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("empty address")
	}

	if result, found := g.cache.Get(address); found {
		return result, nil
	}

	// Wait in front of the call so consecutive attempts, failed ones
	// included, stay at least Delay apart
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait interrupted: %w", err)
	}

	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "2")

	requestURL := fmt.Sprintf("%s/search?%s", g.config.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", g.config.UserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	switch {
	case len(places) == 0:
		return nil, fmt.Errorf("%q: %w", address, ErrNoResults)
	case len(places) > 1:
		return nil, fmt.Errorf("%q: %w", address, ErrAmbiguousAddress)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude %q in geocode response: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude %q in geocode response: %w", places[0].Lon, err)
	}

	result := &Result{
		Address: strings.TrimSpace(places[0].DisplayName),
		Lat:     lat,
		Lon:     lon,
	}
	g.cache.Set(address, result)
	return result, nil
}
