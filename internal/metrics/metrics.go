// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	providerRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media_metadata_gateway",
		Name:      "provider_requests_total",
		Help:      "Total number of provider operations started by source and operation",
	}, []string{"source", "operation"})
	providerFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media_metadata_gateway",
		Name:      "provider_failures_total",
		Help:      "Total number of failed provider operations by source and operation",
	}, []string{"source", "operation"})
	providerNotFound = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media_metadata_gateway",
		Name:      "provider_not_found_total",
		Help:      "Total number of details lookups that found no record by source",
	}, []string{"source"})
	providerDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "media_metadata_gateway",
		Name:      "provider_duration_seconds",
		Help:      "Histogram of provider operation durations in seconds by source and operation",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10), // ~50ms up to several seconds
	}, []string{"source", "operation"})

	cacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media_metadata_gateway",
		Name:      "cache_hits_total",
		Help:      "Total number of detail lookups served from the record cache by source",
	}, []string{"source"})
	cacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media_metadata_gateway",
		Name:      "cache_misses_total",
		Help:      "Total number of detail lookups that had to reach the provider by source",
	}, []string{"source"})

	providersGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "media_metadata_gateway",
		Name:      "providers_registered",
		Help:      "Current number of registered metadata providers",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(providerRequests, providerFailures, providerNotFound, providerDuration,
			cacheHits, cacheMisses, providersGauge)
	})
}

// Provider operation helpers
func IncProviderRequest(source, operation string) {
	providerRequests.WithLabelValues(source, operation).Inc()
}

func IncProviderFailure(source, operation string) {
	providerFailures.WithLabelValues(source, operation).Inc()
}

func IncProviderNotFound(source string) { providerNotFound.WithLabelValues(source).Inc() }

func ObserveProviderDuration(source, operation string, d time.Duration) {
	providerDuration.WithLabelValues(source, operation).Observe(d.Seconds())
}

// Record cache helpers
func IncCacheHit(source string) { cacheHits.WithLabelValues(source).Inc() }

func IncCacheMiss(source string) { cacheMisses.WithLabelValues(source).Inc() }

// Gauges
func SetProviders(n int) { providersGauge.Set(float64(n)) }
