// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

package catalog

import (
	"context"
	"testing"

	"github.com/goccy/go-json"

	"github.com/stacgate/stacgate/internal/config"
	"github.com/stacgate/stacgate/internal/stac"
)

// newTestStore opens an in-memory store seeded with two collections and three
// items.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(&config.CatalogConfig{Threads: 2})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	collections := []*stac.Collection{
		testCollection("sentinel-2-l2a"),
		testCollection("landsat-c2-l2"),
	}
	for _, col := range collections {
		if err := store.UpsertCollection(ctx, col); err != nil {
			t.Fatalf("UpsertCollection(%q) error = %v", col.ID, err)
		}
	}

	items := []*stac.Item{
		testItem("s2-item-1", "sentinel-2-l2a", []float64{10, 50, 11, 51}, "2020-05-01T00:00:00Z"),
		testItem("s2-item-2", "sentinel-2-l2a", []float64{-120, 30, -119, 31}, "2021-06-01T00:00:00Z"),
		testItem("ls-item-1", "landsat-c2-l2", []float64{10.5, 50.5, 11.5, 51.5}, "2022-07-01T00:00:00Z"),
	}
	for _, item := range items {
		if err := store.UpsertItem(ctx, item); err != nil {
			t.Fatalf("UpsertItem(%q) error = %v", item.ID, err)
		}
	}

	return store
}

func testCollection(id string) *stac.Collection {
	return &stac.Collection{
		Type:        "Collection",
		StacVersion: stac.Version,
		ID:          id,
		Description: "test collection " + id,
		License:     "proprietary",
		Extent: stac.Extent{
			Spatial:  stac.SpatialExtent{BBox: [][]float64{{-180, -90, 180, 90}}},
			Temporal: stac.TemporalExtent{Interval: [][]*string{{nil, nil}}},
		},
		Links: []stac.Link{},
	}
}

func testItem(id, collection string, bbox []float64, datetime string) *stac.Item {
	return &stac.Item{
		Type:        "Feature",
		StacVersion: stac.Version,
		ID:          id,
		Collection:  collection,
		Geometry:    []byte(`null`),
		BBox:        bbox,
		Properties: map[string]json.RawMessage{
			"datetime": json.RawMessage(`"` + datetime + `"`),
		},
		Links: []stac.Link{},
	}
}

func TestCollectionsOrderedByID(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	result, err := store.Collections(context.Background())
	if err != nil {
		t.Fatalf("Collections() error = %v", err)
	}
	if len(result.Collections) != 2 {
		t.Fatalf("Collections() returned %d collections, want 2", len(result.Collections))
	}
	if result.Collections[0].ID != "landsat-c2-l2" || result.Collections[1].ID != "sentinel-2-l2a" {
		t.Errorf("Collections() order = [%s %s], want [landsat-c2-l2 sentinel-2-l2a]",
			result.Collections[0].ID, result.Collections[1].ID)
	}
}

func TestCollectionByID(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	col, err := store.Collection(context.Background(), "sentinel-2-l2a")
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if col.ID != "sentinel-2-l2a" {
		t.Errorf("Collection().ID = %q, want sentinel-2-l2a", col.ID)
	}
	if col.Description != "test collection sentinel-2-l2a" {
		t.Errorf("Collection().Description = %q, document did not round-trip", col.Description)
	}
}

func TestCollectionNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	_, err := store.Collection(context.Background(), "no-such-collection")
	if err == nil {
		t.Fatal("Collection() error = nil for a missing collection")
	}
	if !IsNotFound(err) {
		t.Errorf("Collection() error = %v, want a not-found error", err)
	}
}

func TestSearchConstraints(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	tests := []struct {
		name    string
		req     *stac.SearchRequest
		wantIDs []string
	}{
		{
			name:    "no constraints returns everything",
			req:     &stac.SearchRequest{},
			wantIDs: []string{"ls-item-1", "s2-item-1", "s2-item-2"},
		},
		{
			name:    "by collection",
			req:     &stac.SearchRequest{Collections: []string{"sentinel-2-l2a"}},
			wantIDs: []string{"s2-item-1", "s2-item-2"},
		},
		{
			name:    "by id and collection",
			req:     &stac.SearchRequest{IDs: []string{"s2-item-2"}, Collections: []string{"sentinel-2-l2a"}},
			wantIDs: []string{"s2-item-2"},
		},
		{
			name:    "id in wrong collection matches nothing",
			req:     &stac.SearchRequest{IDs: []string{"s2-item-2"}, Collections: []string{"landsat-c2-l2"}},
			wantIDs: []string{},
		},
		{
			name:    "limit truncates",
			req:     &stac.SearchRequest{Limit: 1},
			wantIDs: []string{"ls-item-1"},
		},
		{
			name:    "bbox intersection",
			req:     &stac.SearchRequest{BBox: []float64{10.2, 50.2, 10.8, 50.8}},
			wantIDs: []string{"ls-item-1", "s2-item-1"},
		},
		{
			name:    "datetime instant",
			req:     &stac.SearchRequest{Datetime: "2021-06-01T00:00:00Z"},
			wantIDs: []string{"s2-item-2"},
		},
		{
			name:    "datetime closed interval",
			req:     &stac.SearchRequest{Datetime: "2020-01-01T00:00:00Z/2021-12-31T23:59:59Z"},
			wantIDs: []string{"s2-item-1", "s2-item-2"},
		},
		{
			name:    "datetime open start",
			req:     &stac.SearchRequest{Datetime: "../2020-12-31T23:59:59Z"},
			wantIDs: []string{"s2-item-1"},
		},
		{
			name:    "datetime open end",
			req:     &stac.SearchRequest{Datetime: "2022-01-01T00:00:00Z/.."},
			wantIDs: []string{"ls-item-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := store.Search(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			gotIDs := make([]string, 0, len(result.Features))
			for _, f := range result.Features {
				gotIDs = append(gotIDs, f.ID)
			}
			if len(gotIDs) != len(tt.wantIDs) {
				t.Fatalf("Search() returned IDs %v, want %v", gotIDs, tt.wantIDs)
			}
			for i := range gotIDs {
				if gotIDs[i] != tt.wantIDs[i] {
					t.Fatalf("Search() returned IDs %v, want %v", gotIDs, tt.wantIDs)
				}
			}
		})
	}
}

func TestSearchRejectsInvalidDatetime(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	_, err := store.Search(context.Background(), &stac.SearchRequest{Datetime: "not-a-date"})
	if err == nil {
		t.Fatal("Search() accepted a malformed datetime")
	}
}

func TestSearchReportsContext(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	result, err := store.Search(context.Background(), &stac.SearchRequest{Limit: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Context == nil {
		t.Fatal("Search() result has no context")
	}
	if result.Context.Returned != 2 || result.Context.Limit != 2 {
		t.Errorf("Search() context = %+v, want returned=2 limit=2", result.Context)
	}
}

func TestUpsertReplacesDocument(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	col := testCollection("sentinel-2-l2a")
	col.Title = "Sentinel-2 Level 2A"
	if err := store.UpsertCollection(ctx, col); err != nil {
		t.Fatalf("UpsertCollection() error = %v", err)
	}

	got, err := store.Collection(ctx, "sentinel-2-l2a")
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if got.Title != "Sentinel-2 Level 2A" {
		t.Errorf("Collection().Title = %q, upsert did not replace the document", got.Title)
	}

	all, err := store.Collections(ctx)
	if err != nil {
		t.Fatalf("Collections() error = %v", err)
	}
	if len(all.Collections) != 2 {
		t.Errorf("Collections() returned %d collections after upsert, want 2", len(all.Collections))
	}
}

func TestUpsertRejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertCollection(ctx, &stac.Collection{}); err == nil {
		t.Error("UpsertCollection() accepted a collection without an id")
	}
	if err := store.UpsertItem(ctx, &stac.Item{ID: "orphan"}); err == nil {
		t.Error("UpsertItem() accepted an item without an owning collection")
	}
}
