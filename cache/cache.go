// Package cache provides short-lived memoization for upstream lookups,
// keyed by a stable derived string with per-entry TTL expiration.
package cache

import (
	"context"
	"time"
)

// Store is the interface the request path depends on.
type Store interface {
	// Get retrieves a value by key.
	// Expired or missing entries report ok == false.
	Get(ctx context.Context, key string) (value []byte, ok bool)

	// Set stores a value under key for the given TTL.
	// Writes are last-write-wins; a ttl of zero means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds a cache key of the form <kind>_<parameter>.
// Kinds partition the key space so that logically distinct
// queries never collide.
func Key(kind, parameter string) string {
	return kind + "_" + parameter
}

// DeparturesKey keys a full departure-board payload by station code.
func DeparturesKey(stationCode string) string {
	return Key("departures", stationCode)
}

// StationKey keys a resolved station display name by station code.
func StationKey(stationCode string) string {
	return Key("station", stationCode)
}

// WeatherKey keys a weather snapshot by city name.
func WeatherKey(city string) string {
	return Key("weather", city)
}
