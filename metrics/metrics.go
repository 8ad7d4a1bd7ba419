// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movielist_http_requests_total",
			Help: "HTTP requests served, by route pattern and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movielist_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movielist_catalog_requests_total",
			Help: "Requests sent to the movie catalog",
		},
		[]string{"endpoint", "result"}, // result: "success", "failure", "client_error", "rejected"
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movielist_catalog_request_duration_seconds",
			Help:    "Latency of movie catalog requests",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movielist_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	MoviesImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movielist_movies_imported_total",
			Help: "Movies added to the list from the catalog",
		},
	)

	DuplicateImports = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movielist_duplicate_imports_total",
			Help: "Imports rejected because the title was already on the list",
		},
	)

	MoviesRated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movielist_movies_rated_total",
			Help: "Rate and review submissions saved",
		},
	)

	MoviesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movielist_movies_deleted_total",
			Help: "Movies removed from the list",
		},
	)
)
