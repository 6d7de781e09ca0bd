// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

package client

import (
	"strings"

	"github.com/stacgate/stacgate/internal/metrics"
	"github.com/stacgate/stacgate/internal/stac"
)

// describedByTitle is the fixed title of the documentation link appended to
// every served collection.
const describedByTitle = "Human readable dataset overview and reference"

// injectCollectionLinks augments a collection document in place. Tile links
// are added first when render configuration enables them; the documentation
// link is appended for every collection regardless of configuration. Existing
// links keep their order and equivalent links are never duplicated.
func (c *Client) injectCollectionLinks(col *stac.Collection) error {
	cfg, ok := c.lookup.Get(col.ID)
	if ok && cfg.AddCollectionLinks && c.tiles != nil {
		before := len(col.Links)
		if err := c.tiles.InjectCollection(col, cfg); err != nil {
			return err
		}
		metrics.LinksInjected.WithLabelValues("collection", "tiles").Add(float64(len(col.Links) - before))
	}

	before := len(col.Links)
	col.Links = stac.AppendUniqueLink(col.Links, stac.Link{
		Rel:   stac.RelDescribedBy,
		Href:  joinURL(c.docsBase, col.ID),
		Type:  stac.MediaTypeHTML,
		Title: describedByTitle,
	})
	if len(col.Links) > before {
		metrics.LinksInjected.WithLabelValues("collection", stac.RelDescribedBy).Inc()
	}

	return nil
}

// injectItemLinks augments an item document in place. Items only ever gain
// tile links, and only when their owning collection's render configuration
// enables them.
func (c *Client) injectItemLinks(item *stac.Item) error {
	cfg, ok := c.lookup.Get(item.Collection)
	if !ok || !cfg.AddItemLinks || c.tiles == nil {
		return nil
	}

	before := len(item.Links)
	if err := c.tiles.InjectItem(item, cfg); err != nil {
		return err
	}
	metrics.LinksInjected.WithLabelValues("item", "tiles").Add(float64(len(item.Links) - before))

	return nil
}

// joinURL joins a path segment under a base URL.
func joinURL(base, segment string) string {
	return strings.TrimRight(base, "/") + "/" + segment
}
