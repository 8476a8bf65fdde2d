package geocode

import (
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	cache := NewGeocodeCache(&CacheConfig{Enabled: true, TTL: time.Hour})

	result := &Result{Address: "Astoria, OR", Lat: 46.1885, Lon: -123.8313}
	cache.Set("1004 commercial st", result)

	cached, found := cache.Get("1004 commercial st")
	if !found {
		t.Fatal("Get() found = false, want true")
	}
	if cached.Lat != 46.1885 {
		t.Errorf("Lat = %v, want 46.1885", cached.Lat)
	}

	if _, found := cache.Get("unknown address"); found {
		t.Error("Get() found = true for an address never set")
	}
}

func TestCacheKeyNormalization(t *testing.T) {
	cache := NewGeocodeCache(&CacheConfig{Enabled: true, TTL: time.Hour})

	cache.Set("1004  Commercial   St", &Result{Lat: 1})

	// Case and whitespace runs do not split cache entries
	if _, found := cache.Get("1004 commercial st"); !found {
		t.Error("Get() should hit across case and spacing differences")
	}
}

func TestCacheDisabled(t *testing.T) {
	cache := NewGeocodeCache(&CacheConfig{Enabled: false})

	cache.Set("somewhere", &Result{Lat: 1})

	if _, found := cache.Get("somewhere"); found {
		t.Error("A disabled cache should miss on every Get")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	cache := NewGeocodeCache(&CacheConfig{Enabled: true, TTL: 10 * time.Millisecond})

	cache.Set("somewhere", &Result{Lat: 1})
	time.Sleep(25 * time.Millisecond)

	if _, found := cache.Get("somewhere"); found {
		t.Error("Get() should miss after the TTL has passed")
	}
}

func TestCacheClear(t *testing.T) {
	cache := NewGeocodeCache(&CacheConfig{Enabled: true, TTL: time.Hour})

	cache.Set("a", &Result{Lat: 1})
	cache.Set("b", &Result{Lat: 2})
	cache.Clear()

	if _, found := cache.Get("a"); found {
		t.Error("Get() found an entry after Clear()")
	}

	stats := cache.GetStats()
	if stats.Size != 0 {
		t.Errorf("Size = %d, want 0 after Clear()", stats.Size)
	}
}

func TestCacheStats(t *testing.T) {
	cache := NewGeocodeCache(&CacheConfig{Enabled: true, TTL: time.Hour})

	cache.Set("a", &Result{Lat: 1})
	cache.Get("a")
	cache.Get("a")
	cache.Get("missing")

	stats := cache.GetStats()
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Size != 1 {
		t.Errorf("Size = %d, want 1", stats.Size)
	}
}
