// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

// Package api provides the HTTP surface of the server: chi routing, STAC
// document handlers, and the operational endpoints (health, metrics, cache
// administration).
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stacgate/stacgate/internal/config"
	"github.com/stacgate/stacgate/internal/middleware"
)

// NewRouter wires all routes and the global middleware stack.
func NewRouter(handler *Handler, apiCfg config.APIConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(corsHandler(apiCfg))

	// Health endpoints skip rate limiting and metrics so probes stay cheap
	// and out of the request histograms.
	r.Route("/healthz", func(r chi.Router) {
		r.Get("/", handler.Health)
		r.Get("/live", handler.HealthLive)
		r.Get("/ready", handler.HealthReady)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// STAC API endpoints.
	r.Group(func(r chi.Router) {
		if !apiCfg.RateLimitDisabled && apiCfg.RateLimitReqs > 0 {
			r.Use(httprate.Limit(
				apiCfg.RateLimitReqs,
				apiCfg.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
			))
		}
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", handler.LandingPage)
		r.Get("/conformance", handler.Conformance)
		r.Get("/collections", handler.Collections)
		r.Get("/collections/{collectionId}", handler.Collection)
		r.Get("/collections/{collectionId}/items", handler.CollectionItems)
		r.Get("/collections/{collectionId}/items/{itemId}", handler.Item)
		r.Get("/search", handler.SearchGet)
		r.Post("/search", handler.SearchPost)

		r.Post("/admin/cache/invalidate", handler.InvalidateCache)
	})

	return r
}

// corsHandler builds the CORS middleware from configuration. An empty origin
// list allows any origin, matching the read-only nature of the API.
func corsHandler(apiCfg config.APIConfig) func(http.Handler) http.Handler {
	origins := apiCfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "ETag"},
		MaxAge:         300,
	})
}
