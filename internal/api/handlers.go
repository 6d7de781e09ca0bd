// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/stacgate/stacgate/internal/config"
	"github.com/stacgate/stacgate/internal/stac"
	"github.com/stacgate/stacgate/internal/validation"
)

// Response content types.
const (
	contentTypeJSON    = "application/json"
	contentTypeGeoJSON = "application/geo+json"
)

// Error codes used in error response bodies.
const (
	codeNotFound         = "NotFound"
	codeInvalidParameter = "InvalidParameter"
	codeBadRequest       = "BadRequest"
	codeServerError      = "ServerError"
)

// STACClient is the serving core consumed by the handlers. Satisfied by
// *client.Client; tests substitute a fake.
type STACClient interface {
	AllCollections(ctx context.Context) (*stac.Collections, error)
	GetCollection(ctx context.Context, id string) (*stac.Collection, error)
	GetItem(ctx context.Context, itemID, collectionID string) (*stac.Item, error)
	Search(ctx context.Context, req *stac.SearchRequest) (*stac.ItemCollection, error)
	LandingPage(ctx context.Context) (*stac.LandingPage, error)
	ConformanceClasses() []string
	InvalidateCollections()
}

// Pinger reports backing store health for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the HTTP handlers for every route.
type Handler struct {
	client STACClient
	store  Pinger
	api    config.APIConfig
}

// NewHandler builds a Handler around the serving core.
func NewHandler(client STACClient, store Pinger, apiCfg config.APIConfig) *Handler {
	return &Handler{client: client, store: store, api: apiCfg}
}

// LandingPage handles GET /.
func (h *Handler) LandingPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.client.LandingPage(r.Context())
	if err != nil {
		respondClientError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, contentTypeJSON, page)
}

// Conformance handles GET /conformance.
func (h *Handler) Conformance(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, contentTypeJSON, &stac.Conformance{
		ConformsTo: h.client.ConformanceClasses(),
	})
}

// Collections handles GET /collections.
func (h *Handler) Collections(w http.ResponseWriter, r *http.Request) {
	result, err := h.client.AllCollections(r.Context())
	if err != nil {
		respondClientError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, contentTypeJSON, result)
}

// Collection handles GET /collections/{collectionId}.
func (h *Handler) Collection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "collectionId")
	col, err := h.client.GetCollection(r.Context(), id)
	if err != nil {
		respondClientError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, contentTypeJSON, col)
}

// CollectionItems handles GET /collections/{collectionId}/items: a search
// constrained to the collection. The collection lookup runs first so hidden
// and absent collections 404 before any item is fetched.
func (h *Handler) CollectionItems(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "collectionId")
	if _, err := h.client.GetCollection(r.Context(), id); err != nil {
		respondClientError(w, r, err)
		return
	}

	req := &stac.SearchRequest{
		Collections: []string{id},
		Limit:       h.clampLimit(parseIntParam(r.URL.Query().Get("limit"), h.api.DefaultLimit)),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	result, err := h.client.Search(r.Context(), req)
	if err != nil {
		respondClientError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, contentTypeGeoJSON, result)
}

// Item handles GET /collections/{collectionId}/items/{itemId}.
func (h *Handler) Item(w http.ResponseWriter, r *http.Request) {
	collectionID := chi.URLParam(r, "collectionId")
	itemID := chi.URLParam(r, "itemId")

	item, err := h.client.GetItem(r.Context(), itemID, collectionID)
	if err != nil {
		respondClientError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, contentTypeGeoJSON, item)
}

// SearchPost handles POST /search.
func (h *Handler) SearchPost(w http.ResponseWriter, r *http.Request) {
	req := &stac.SearchRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON request body")
		return
	}
	h.search(w, r, req)
}

// SearchGet handles GET /search with the standard query-parameter form.
func (h *Handler) SearchGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	bbox, err := parseBBox(q.Get("bbox"))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidParameter, "bbox must be a comma-separated list of numbers")
		return
	}

	req := &stac.SearchRequest{
		Collections: parseCommaSeparated(q.Get("collections")),
		IDs:         parseCommaSeparated(q.Get("ids")),
		BBox:        bbox,
		Datetime:    q.Get("datetime"),
		Limit:       parseIntParam(q.Get("limit"), 0),
	}
	h.search(w, r, req)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, req *stac.SearchRequest) {
	if req.Limit == 0 {
		req.Limit = h.api.DefaultLimit
	}
	req.Limit = h.clampLimit(req.Limit)

	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	result, err := h.client.Search(r.Context(), req)
	if err != nil {
		respondClientError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, contentTypeGeoJSON, result)
}

func (h *Handler) clampLimit(limit int) int {
	if h.api.MaxLimit > 0 && limit > h.api.MaxLimit {
		return h.api.MaxLimit
	}
	return limit
}

// InvalidateCache handles POST /admin/cache/invalidate.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.client.InvalidateCollections()
	respondJSON(w, http.StatusOK, contentTypeJSON, map[string]string{"status": "invalidated"})
}

// healthResponse is the health endpoint body.
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthLive handles GET /healthz/live. Always healthy while the process
// serves requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, contentTypeJSON, &healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}

// HealthReady handles GET /healthz/ready. Ready when the catalog store
// answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, contentTypeJSON, &healthResponse{
			Status:    "unavailable",
			Timestamp: time.Now().UTC(),
		})
		return
	}
	respondJSON(w, http.StatusOK, contentTypeJSON, &healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.HealthReady(w, r)
}
