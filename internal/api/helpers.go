// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/stacgate/stacgate/internal/catalog"
	"github.com/stacgate/stacgate/internal/logging"
	"github.com/stacgate/stacgate/internal/validation"
)

// apiError is the OGC API error response body.
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// respondJSON writes a document as JSON with an ETag derived from the body.
func respondJSON(w http.ResponseWriter, status int, contentType string, doc any) {
	data, err := json.Marshal(doc)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates an ETag from the response body using FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// respondError writes an OGC-style error body.
func respondError(w http.ResponseWriter, status int, code, description string) {
	respondJSON(w, status, contentTypeJSON, &apiError{Code: code, Description: description})
}

// respondClientError maps a client-layer error onto the wire: not-found
// errors keep their authored message verbatim under a 404, everything else is
// a 500 with the detail logged rather than exposed.
func respondClientError(w http.ResponseWriter, r *http.Request, err error) {
	if catalog.IsNotFound(err) {
		respondError(w, http.StatusNotFound, codeNotFound, err.Error())
		return
	}
	logger := logging.Ctx(r.Context())
	logger.Error().Err(err).
		Str("path", r.URL.Path).
		Msg("Request failed")
	respondError(w, http.StatusInternalServerError, codeServerError, "internal server error")
}

// respondValidationError writes a 400 carrying the translated field messages.
func respondValidationError(w http.ResponseWriter, verr *validation.RequestValidationError) {
	respondError(w, http.StatusBadRequest, codeInvalidParameter, verr.Error())
}

// parseCommaSeparated splits a comma-separated query value, dropping empty
// segments. Returns nil for an empty value.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// parseIntParam parses an integer query value, falling back to defaultValue
// on absence or garbage.
func parseIntParam(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// parseBBox parses a comma-separated bounding box. Arity is checked later by
// request validation; this only rejects non-numeric input.
func parseBBox(value string) ([]float64, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	bbox := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		bbox = append(bbox, f)
	}
	return bbox, nil
}
