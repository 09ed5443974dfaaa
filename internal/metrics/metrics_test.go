// file: internal/metrics/metrics_test.go
// version: 2.0.0
// guid: 7a8b9c0d-1e2f-3a4b-5c6d-7e8f9a0b1c2d

package metrics

import (
	"testing"
	"time"
)

func TestRegisterIsIdempotent(t *testing.T) {
	// A second call must not panic with a duplicate-collector error.
	Register()
	Register()
}

func TestIncProviderRequest(t *testing.T) {
	IncProviderRequest("audible", "search")
}

func TestIncProviderFailure(t *testing.T) {
	IncProviderFailure("openlibrary", "details")
}

func TestIncProviderNotFound(t *testing.T) {
	IncProviderNotFound("tmdb")
}

func TestObserveProviderDuration(t *testing.T) {
	ObserveProviderDuration("audible", "details", 100*time.Millisecond)
}

func TestIncCacheHit(t *testing.T) {
	IncCacheHit("audible")
}

func TestIncCacheMiss(t *testing.T) {
	IncCacheMiss("tmdb")
}

func TestSetProviders(t *testing.T) {
	SetProviders(3)
}

func TestProviderRequestLifecycle(t *testing.T) {
	source := "audible"
	IncProviderRequest(source, "search")
	start := time.Now()
	time.Sleep(10 * time.Millisecond)
	ObserveProviderDuration(source, "search", time.Since(start))
}
