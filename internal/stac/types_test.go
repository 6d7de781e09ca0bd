// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

package stac

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestAppendUniqueLink(t *testing.T) {
	t.Parallel()

	base := []Link{
		{Rel: RelSelf, Href: "https://api.example.com/collections/a"},
		{Rel: RelRoot, Href: "https://api.example.com/"},
	}

	added := AppendUniqueLink(base, Link{Rel: RelDescribedBy, Href: "https://docs.example.com/a"})
	if len(added) != 3 {
		t.Fatalf("expected 3 links after append, got %d", len(added))
	}

	// Same rel+href again: no duplicate.
	again := AppendUniqueLink(added, Link{Rel: RelDescribedBy, Href: "https://docs.example.com/a", Title: "different title"})
	if len(again) != 3 {
		t.Errorf("expected idempotent append, got %d links", len(again))
	}

	// Existing order preserved as a prefix.
	for i, want := range []string{RelSelf, RelRoot, RelDescribedBy} {
		if again[i].Rel != want {
			t.Errorf("link %d rel = %q, want %q", i, again[i].Rel, want)
		}
	}
}

func TestAppendUniqueLinkSameHrefDifferentRel(t *testing.T) {
	t.Parallel()

	links := AppendUniqueLink(nil, Link{Rel: RelTiles, Href: "https://tiles.example.com/x"})
	links = AppendUniqueLink(links, Link{Rel: RelMapPreview, Href: "https://tiles.example.com/x"})
	if len(links) != 2 {
		t.Errorf("different rels to the same href must both be kept, got %d links", len(links))
	}
}

func TestItemCollectionContextOmitted(t *testing.T) {
	t.Parallel()

	ic := ItemCollection{Type: "FeatureCollection", Features: []*Item{}}
	data, err := json.Marshal(&ic)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "context") {
		t.Errorf("nil context must be omitted from output: %s", data)
	}
}

func TestCollectionRoundTripPreservesOpaqueFields(t *testing.T) {
	t.Parallel()

	doc := `{
		"type": "Collection",
		"stac_version": "1.0.0",
		"id": "sentinel-2-l2a",
		"description": "Sentinel-2 Level-2A",
		"license": "proprietary",
		"extent": {
			"spatial": {"bbox": [[-180, -90, 180, 90]]},
			"temporal": {"interval": [["2015-06-27T10:25:31Z", null]]}
		},
		"summaries": {"gsd": [10, 20, 60]},
		"links": [{"rel": "self", "href": "https://api.example.com/collections/sentinel-2-l2a"}]
	}`

	var col Collection
	if err := json.Unmarshal([]byte(doc), &col); err != nil {
		t.Fatal(err)
	}

	if col.ID != "sentinel-2-l2a" {
		t.Errorf("id = %q", col.ID)
	}
	if len(col.Extent.Spatial.BBox) != 1 || col.Extent.Spatial.BBox[0][2] != 180 {
		t.Errorf("spatial extent not preserved: %+v", col.Extent.Spatial)
	}
	if col.Extent.Temporal.Interval[0][1] != nil {
		t.Error("open temporal interval must unmarshal as nil")
	}

	out, err := json.Marshal(&col)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"gsd":[10,20,60]`) {
		t.Errorf("summaries must round-trip untouched: %s", out)
	}
}
