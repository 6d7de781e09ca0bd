// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

package client

// Extension is an API extension loaded at construction time. Extensions that
// advertise conformance classes additionally implement ConformanceProvider;
// the capability is declared through the type, never probed dynamically.
type Extension interface {
	Name() string
}

// ConformanceProvider is implemented by extensions that contribute classes to
// the conformance endpoint.
type ConformanceProvider interface {
	ConformanceClasses() []string
}

// QueryExtension advertises the item-search query conformance class.
type QueryExtension struct{}

func (QueryExtension) Name() string { return "query" }

func (QueryExtension) ConformanceClasses() []string {
	return []string{"https://api.stacspec.org/v1.0.0/item-search#query"}
}

// SortExtension advertises the item-search sort conformance class.
type SortExtension struct{}

func (SortExtension) Name() string { return "sort" }

func (SortExtension) ConformanceClasses() []string {
	return []string{"https://api.stacspec.org/v1.0.0/item-search#sort"}
}

// FieldsExtension advertises the item-search fields conformance class.
type FieldsExtension struct{}

func (FieldsExtension) Name() string { return "fields" }

func (FieldsExtension) ConformanceClasses() []string {
	return []string{"https://api.stacspec.org/v1.0.0/item-search#fields"}
}

// DefaultExtensions returns the extension set loaded by the stock server.
func DefaultExtensions() []Extension {
	return []Extension{QueryExtension{}, SortExtension{}, FieldsExtension{}}
}
