// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

// Package metrics defines the Prometheus instrumentation for Stacgate:
// API request throughput and latency, catalog query performance, collections
// cache efficiency, and link injection volume.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stacgate_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stacgate_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stacgate_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Catalog store metrics
	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stacgate_catalog_query_duration_seconds",
			Help:    "Duration of catalog store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CatalogQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stacgate_catalog_query_errors_total",
			Help: "Total number of catalog store query errors",
		},
		[]string{"operation"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stacgate_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"key"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stacgate_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"key"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stacgate_cache_invalidations_total",
			Help: "Total number of cache invalidations",
		},
		[]string{"key"},
	)

	// Link injection metrics
	LinksInjected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stacgate_links_injected_total",
			Help: "Total number of links injected into API responses",
		},
		[]string{"record_type", "rel"},
	)
)

// RecordAPIRequest records the outcome of a completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the active request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// ObserveCatalogQuery records the duration of a catalog store query and, when
// err is non-nil, counts it as a failure.
func ObserveCatalogQuery(operation string, start time.Time, err error) {
	CatalogQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		CatalogQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordCacheHit counts a cache hit for key.
func RecordCacheHit(key string) {
	CacheHits.WithLabelValues(key).Inc()
}

// RecordCacheMiss counts a cache miss for key.
func RecordCacheMiss(key string) {
	CacheMisses.WithLabelValues(key).Inc()
}

// RecordCacheInvalidation counts an invalidation of the entry for key.
func RecordCacheInvalidation(key string) {
	CacheInvalidations.WithLabelValues(key).Inc()
}
