// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/stacgate/stacgate/internal/stac"
)

// TileLinkBuilder derives tile and visualization links from render
// configuration. The tile service itself is external; the builder only
// constructs URLs under its base and never calls it.
type TileLinkBuilder struct {
	base *url.URL
}

// NewTileLinkBuilder creates a builder rooted at the tile service base URL.
func NewTileLinkBuilder(baseURL string) (*TileLinkBuilder, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("tile service base URL is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid tile service base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("tile service base URL %q must be absolute", baseURL)
	}
	return &TileLinkBuilder{base: u}, nil
}

// InjectCollection appends the collection-level map preview and TileJSON
// links derived from cfg. Existing links are never removed or reordered, and
// an equivalent link already present is not appended again.
func (b *TileLinkBuilder) InjectCollection(col *stac.Collection, cfg *Config) error {
	if col.ID == "" {
		return fmt.Errorf("collection has no id")
	}

	params := b.renderQuery(cfg)
	params.Set("collection", col.ID)

	col.Links = stac.AppendUniqueLink(col.Links, stac.Link{
		Rel:   stac.RelMapPreview,
		Href:  b.endpoint("collection/map", params),
		Type:  stac.MediaTypeHTML,
		Title: "Map of collection mosaic",
	})
	col.Links = stac.AppendUniqueLink(col.Links, stac.Link{
		Rel:   stac.RelTiles,
		Href:  b.endpoint("collection/tilejson.json", params),
		Type:  stac.MediaTypeTileJSON,
		Title: "TileJSON for collection mosaic",
	})

	return nil
}

// InjectItem appends the item-level map preview and TileJSON links derived
// from cfg.
func (b *TileLinkBuilder) InjectItem(item *stac.Item, cfg *Config) error {
	if item.Collection == "" {
		return fmt.Errorf("item %q has no owning collection", item.ID)
	}
	if item.ID == "" {
		return fmt.Errorf("item in collection %q has no id", item.Collection)
	}

	params := b.renderQuery(cfg)
	params.Set("collection", item.Collection)
	params.Set("item", item.ID)

	item.Links = stac.AppendUniqueLink(item.Links, stac.Link{
		Rel:   stac.RelMapPreview,
		Href:  b.endpoint("item/map", params),
		Type:  stac.MediaTypeHTML,
		Title: "Map of item",
	})
	item.Links = stac.AppendUniqueLink(item.Links, stac.Link{
		Rel:   stac.RelTiles,
		Href:  b.endpoint("item/tilejson.json", params),
		Type:  stac.MediaTypeTileJSON,
		Title: "TileJSON for item",
	})

	return nil
}

// renderQuery builds the query parameters shared by all tile links for a
// render configuration.
func (b *TileLinkBuilder) renderQuery(cfg *Config) url.Values {
	params := url.Values{}
	if cfg == nil {
		return params
	}
	if len(cfg.Assets) > 0 {
		params.Set("assets", strings.Join(cfg.Assets, ","))
	}
	if cfg.MinZoom > 0 {
		params.Set("minzoom", fmt.Sprintf("%d", cfg.MinZoom))
	}
	for key, value := range cfg.RenderParams {
		params.Set(key, value)
	}
	return params
}

// endpoint joins a path under the tile service base and attaches the query.
func (b *TileLinkBuilder) endpoint(path string, params url.Values) string {
	u := *b.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + path
	u.RawQuery = params.Encode()
	return u.String()
}
