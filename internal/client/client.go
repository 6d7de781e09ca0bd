// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

// Package client implements the serving core of the API: visibility
// filtering, link injection, the memoized collection listing, and the
// constrained item lookup. It composes a catalog reader rather than extending
// one, so the storage engine stays swappable behind the Reader interface.
package client

import (
	"context"
	"fmt"
	"sort"

	"github.com/stacgate/stacgate/internal/cache"
	"github.com/stacgate/stacgate/internal/catalog"
	"github.com/stacgate/stacgate/internal/config"
	"github.com/stacgate/stacgate/internal/logging"
	"github.com/stacgate/stacgate/internal/render"
	"github.com/stacgate/stacgate/internal/stac"
)

// collectionsCacheKey is the single key under which the filtered and
// link-injected collection listing is memoized.
const collectionsCacheKey = "/collections"

// baseConformanceClasses are always advertised, before extension and
// configured extras are merged in.
var baseConformanceClasses = []string{
	"https://api.stacspec.org/v1.0.0/core",
	"https://api.stacspec.org/v1.0.0/collections",
	"https://api.stacspec.org/v1.0.0/ogcapi-features",
	"https://api.stacspec.org/v1.0.0/item-search",
	"http://www.opengis.net/spec/ogcapi-features-1/1.0/conf/core",
	"http://www.opengis.net/spec/ogcapi-features-1/1.0/conf/oas30",
	"http://www.opengis.net/spec/ogcapi-features-1/1.0/conf/geojson",
}

// Options assembles a Client's collaborators.
type Options struct {
	// Catalog is the backing store. Required.
	Catalog catalog.Reader

	// Lookup is the per-collection render configuration. Defaults to an
	// empty lookup (everything visible, no tile links).
	Lookup *render.Lookup

	// Tiles builds tile and visualization links. May be nil only when no
	// render configuration enables link injection.
	Tiles *render.TileLinkBuilder

	// STAC carries catalog identity, the documentation base URL, and extra
	// conformance classes.
	STAC config.STACConfig

	// Extensions to load. Defaults to DefaultExtensions.
	Extensions []Extension
}

// Client answers the STAC API operations. Hidden collections are filtered
// before any document leaves the client, so to a caller they do not exist.
type Client struct {
	catalog    catalog.Reader
	lookup     *render.Lookup
	tiles      *render.TileLinkBuilder
	cache      *cache.Memoizer
	extensions []Extension

	docsBase string
	stacCfg  config.STACConfig
}

// New builds a Client from its collaborators.
func New(opts Options) (*Client, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("catalog reader is required")
	}
	lookup := opts.Lookup
	if lookup == nil {
		lookup = render.EmptyLookup()
	}
	extensions := opts.Extensions
	if extensions == nil {
		extensions = DefaultExtensions()
	}

	c := &Client{
		catalog:    opts.Catalog,
		lookup:     lookup,
		tiles:      opts.Tiles,
		cache:      cache.New(),
		extensions: extensions,
		docsBase:   opts.STAC.DocsBaseURL,
		stacCfg:    opts.STAC,
	}
	if err := c.checkTileConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

// checkTileConfig refuses configurations that enable tile links with no tile
// service to point them at. Catching this at construction keeps the failure
// out of the request path.
func (c *Client) checkTileConfig() error {
	if c.tiles != nil {
		return nil
	}
	for _, id := range c.lookup.IDs() {
		cfg, _ := c.lookup.Get(id)
		if cfg != nil && (cfg.AddCollectionLinks || cfg.AddItemLinks) {
			return fmt.Errorf("render config for collection %q enables tile links but no tile service URL is configured", id)
		}
	}
	return nil
}

// AllCollections returns every visible collection with links injected. The
// result is memoized: repeated calls return the same value without touching
// the backing store, and concurrent first calls share one fetch.
func (c *Client) AllCollections(ctx context.Context) (*stac.Collections, error) {
	value, err := c.cache.GetOrCompute(ctx, collectionsCacheKey, func(ctx context.Context) (any, error) {
		return c.computeCollections(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.(*stac.Collections), nil
}

// computeCollections is the cache-miss pipeline: fetch, drop hidden, inject.
func (c *Client) computeCollections(ctx context.Context) (*stac.Collections, error) {
	raw, err := c.catalog.Collections(ctx)
	if err != nil {
		return nil, err
	}

	result := &stac.Collections{
		Collections: make([]*stac.Collection, 0, len(raw.Collections)),
		Links:       c.listingLinks(),
	}
	for _, col := range raw.Collections {
		if !c.lookup.Visible(col.ID) {
			continue
		}
		if err := c.injectCollectionLinks(col); err != nil {
			return nil, err
		}
		result.Collections = append(result.Collections, col)
	}

	logging.Debug().
		Int("total", len(raw.Collections)).
		Int("visible", len(result.Collections)).
		Msg("Collection listing computed")

	return result, nil
}

// GetCollection returns a single visible collection with links injected.
// Hidden and absent collections fail identically, so a hidden collection's
// existence never leaks through the error shape.
func (c *Client) GetCollection(ctx context.Context, id string) (*stac.Collection, error) {
	if !c.lookup.Visible(id) {
		return nil, collectionNotFound(id)
	}

	col, err := c.catalog.Collection(ctx, id)
	if catalog.IsNotFound(err) {
		return nil, collectionNotFound(id)
	}
	if err != nil {
		return nil, err
	}

	if err := c.injectCollectionLinks(col); err != nil {
		return nil, err
	}
	return col, nil
}

// GetItem returns a single item. The owning collection is resolved first
// purely for its visibility and existence check, so items of hidden or absent
// collections are unreachable and fail with the collection-level message.
func (c *Client) GetItem(ctx context.Context, itemID, collectionID string) (*stac.Item, error) {
	if _, err := c.GetCollection(ctx, collectionID); err != nil {
		return nil, err
	}

	result, err := c.catalog.Search(ctx, &stac.SearchRequest{
		IDs:         []string{itemID},
		Collections: []string{collectionID},
		Limit:       1,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Features) == 0 {
		return nil, catalog.NotFound(fmt.Sprintf(
			"Item %s in Collection %s does not exist.", itemID, collectionID))
	}

	item := result.Features[0]
	if err := c.injectItemLinks(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Search delegates to the catalog engine, strips result-count metadata from
// the response, and injects links into every returned feature. Counting is
// not supported, so the context block never reaches a caller.
func (c *Client) Search(ctx context.Context, req *stac.SearchRequest) (*stac.ItemCollection, error) {
	result, err := c.catalog.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	result.Context = nil
	for _, item := range result.Features {
		if err := c.injectItemLinks(item); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// LandingPage returns the API root document. The type is always "Catalog"
// whatever identity configuration says.
func (c *Client) LandingPage(ctx context.Context) (*stac.LandingPage, error) {
	base := c.stacCfg.BaseURL

	page := &stac.LandingPage{
		Type:        "Catalog",
		StacVersion: stac.Version,
		ID:          c.stacCfg.CatalogID,
		Title:       c.stacCfg.Title,
		Description: c.stacCfg.Description,
		ConformsTo:  c.ConformanceClasses(),
		Links: []stac.Link{
			{Rel: stac.RelSelf, Href: base, Type: stac.MediaTypeJSON},
			{Rel: stac.RelRoot, Href: base, Type: stac.MediaTypeJSON},
			{Rel: stac.RelData, Href: joinURL(base, "collections"), Type: stac.MediaTypeJSON},
			{Rel: stac.RelConformance, Href: joinURL(base, "conformance"), Type: stac.MediaTypeJSON},
			{Rel: stac.RelSearch, Href: joinURL(base, "search"), Type: stac.MediaTypeGeoJSON},
		},
	}
	return page, nil
}

// ConformanceClasses returns the sorted, duplicate-free union of the base
// classes, those declared by loaded extensions, and the configured extras.
func (c *Client) ConformanceClasses() []string {
	seen := make(map[string]struct{})
	var classes []string
	add := func(class string) {
		if _, ok := seen[class]; ok {
			return
		}
		seen[class] = struct{}{}
		classes = append(classes, class)
	}

	for _, class := range baseConformanceClasses {
		add(class)
	}
	for _, ext := range c.extensions {
		if provider, ok := ext.(ConformanceProvider); ok {
			for _, class := range provider.ConformanceClasses() {
				add(class)
			}
		}
	}
	for _, class := range c.stacCfg.ExtraConformanceClasses {
		add(class)
	}

	sort.Strings(classes)
	return classes
}

// InvalidateCollections drops the memoized collection listing so the next
// request recomputes it.
func (c *Client) InvalidateCollections() {
	c.cache.Invalidate(collectionsCacheKey)
	logging.Info().Msg("Collections cache invalidated")
}

// listingLinks are the navigation links on the collection listing document.
func (c *Client) listingLinks() []stac.Link {
	base := c.stacCfg.BaseURL
	return []stac.Link{
		{Rel: stac.RelSelf, Href: joinURL(base, "collections"), Type: stac.MediaTypeJSON},
		{Rel: stac.RelRoot, Href: base, Type: stac.MediaTypeJSON},
	}
}

func collectionNotFound(id string) error {
	return catalog.NotFound(fmt.Sprintf("No collection with id '%s' found!", id))
}
