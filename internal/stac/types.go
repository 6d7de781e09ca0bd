// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

// Package stac defines the STAC API document types served by Stacgate.
//
// The types cover the subset of the STAC 1.0 specification that the server
// reads, augments, and returns: collections, items, item collections, the
// landing page, and conformance. Fields the server does not interpret
// (geometry, summaries, item properties) are carried opaquely so documents
// round-trip unmodified through the link-injection pipeline.
package stac

import (
	"github.com/goccy/go-json"
)

// Version is the STAC specification version stamped on generated documents.
const Version = "1.0.0"

// Common link relation types used by the server.
const (
	RelSelf        = "self"
	RelRoot        = "root"
	RelParent      = "parent"
	RelItems       = "items"
	RelSearch      = "search"
	RelConformance = "conformance"
	RelData        = "data"
	RelDescribedBy = "describedby"
	RelTiles       = "tiles"
	RelMapPreview  = "preview"
	RelCollection  = "collection"
)

// Common media types for link targets.
const (
	MediaTypeJSON        = "application/json"
	MediaTypeGeoJSON     = "application/geo+json"
	MediaTypeHTML        = "text/html"
	MediaTypeTileJSON    = "application/json"
	MediaTypeMVT         = "application/vnd.mapbox-vector-tile"
	MediaTypeOpenAPIJSON = "application/vnd.oai.openapi+json;version=3.0"
)

// Link is a STAC link object. Order inside a Links slice is meaningful:
// injected links are appended after any pre-existing ones.
type Link struct {
	Rel   string `json:"rel"`
	Href  string `json:"href"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// Equivalent reports whether two links point at the same target for the same
// purpose. Used to keep link injection idempotent.
func (l Link) Equivalent(other Link) bool {
	return l.Rel == other.Rel && l.Href == other.Href
}

// Extent describes the spatial and temporal coverage of a collection.
type Extent struct {
	Spatial  SpatialExtent  `json:"spatial"`
	Temporal TemporalExtent `json:"temporal"`
}

// SpatialExtent holds one or more bounding boxes in [west south east north]
// (or 3D) form.
type SpatialExtent struct {
	BBox [][]float64 `json:"bbox"`
}

// TemporalExtent holds one or more [start end] intervals; null means open.
type TemporalExtent struct {
	Interval [][]*string `json:"interval"`
}

// Provider describes an organization involved in producing a collection.
type Provider struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Asset describes a file or service associated with a collection or item.
type Asset struct {
	Href        string   `json:"href"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// Collection is a STAC collection document. The server mutates Links in
// place during link injection; all other fields pass through untouched.
type Collection struct {
	Type           string                     `json:"type"`
	StacVersion    string                     `json:"stac_version"`
	StacExtensions []string                   `json:"stac_extensions,omitempty"`
	ID             string                     `json:"id"`
	Title          string                     `json:"title,omitempty"`
	Description    string                     `json:"description"`
	Keywords       []string                   `json:"keywords,omitempty"`
	License        string                     `json:"license"`
	Providers      []Provider                 `json:"providers,omitempty"`
	Extent         Extent                     `json:"extent"`
	Summaries      map[string]json.RawMessage `json:"summaries,omitempty"`
	Assets         map[string]Asset           `json:"assets,omitempty"`
	Links          []Link                     `json:"links"`
}

// Collections is the response document for the collection listing endpoint.
type Collections struct {
	Collections []*Collection `json:"collections"`
	Links       []Link        `json:"links"`
}

// Item is a STAC item (GeoJSON feature). Geometry and properties are opaque
// to the server.
type Item struct {
	Type           string                     `json:"type"`
	StacVersion    string                     `json:"stac_version"`
	StacExtensions []string                   `json:"stac_extensions,omitempty"`
	ID             string                     `json:"id"`
	Collection     string                     `json:"collection,omitempty"`
	Geometry       json.RawMessage            `json:"geometry"`
	BBox           []float64                  `json:"bbox,omitempty"`
	Properties     map[string]json.RawMessage `json:"properties"`
	Assets         map[string]Asset           `json:"assets"`
	Links          []Link                     `json:"links"`
}

// Context carries result-count metadata on search responses. The server
// strips it from every search result because counting is not supported.
type Context struct {
	Returned int  `json:"returned"`
	Limit    int  `json:"limit,omitempty"`
	Matched  *int `json:"matched,omitempty"`
}

// ItemCollection is a GeoJSON feature collection of items, the response
// shape of the search and item-listing endpoints.
type ItemCollection struct {
	Type     string   `json:"type"`
	Features []*Item  `json:"features"`
	Links    []Link   `json:"links,omitempty"`
	Context  *Context `json:"context,omitempty"`
}

// LandingPage is the STAC API root document.
type LandingPage struct {
	Type        string   `json:"type"`
	StacVersion string   `json:"stac_version"`
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ConformsTo  []string `json:"conformsTo"`
	Links       []Link   `json:"links"`
}

// Conformance is the response document for the conformance endpoint.
type Conformance struct {
	ConformsTo []string `json:"conformsTo"`
}

// SearchRequest is the constrained search request the server forwards to the
// catalog engine. Validation tags are enforced at the API boundary.
type SearchRequest struct {
	Collections []string  `json:"collections,omitempty"`
	IDs         []string  `json:"ids,omitempty"`
	BBox        []float64 `json:"bbox,omitempty" validate:"omitempty,len=4|len=6"`
	Datetime    string    `json:"datetime,omitempty" validate:"omitempty,stac_datetime"`
	Limit       int       `json:"limit,omitempty" validate:"omitempty,min=1,max=10000"`
}

// AppendUniqueLink appends link to links unless an equivalent link is
// already present, preserving the order of existing entries.
func AppendUniqueLink(links []Link, link Link) []Link {
	for _, existing := range links {
		if existing.Equivalent(link) {
			return links
		}
	}
	return append(links, link)
}
