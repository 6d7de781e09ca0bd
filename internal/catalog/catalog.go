// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

// Package catalog provides access to raw STAC records. The serving core
// depends only on the Reader interface; query planning, spatial indexing and
// pagination belong to the backing engine, not to this package's consumers.
package catalog

import (
	"context"

	"github.com/stacgate/stacgate/internal/stac"
)

// Reader is the catalog facade the serving core reads through. All methods
// return raw records without derived links or visibility filtering; that is
// the caller's concern.
type Reader interface {
	// Collections returns every collection in the catalog.
	Collections(ctx context.Context) (*stac.Collections, error)

	// Collection returns a single collection by ID, or a NotFoundError when
	// no such collection exists.
	Collection(ctx context.Context, id string) (*stac.Collection, error)

	// Search executes a constrained item search. A request matching nothing
	// returns an empty feature collection, not an error.
	Search(ctx context.Context, req *stac.SearchRequest) (*stac.ItemCollection, error)
}

// Writer ingests records into the catalog. Kept separate from Reader so the
// serving core cannot accidentally depend on write access.
type Writer interface {
	// UpsertCollection inserts or replaces a collection document.
	UpsertCollection(ctx context.Context, col *stac.Collection) error

	// UpsertItem inserts or replaces an item document.
	UpsertItem(ctx context.Context, item *stac.Item) error
}
