// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

// Package render holds per-collection render configuration: visibility policy
// and the parameters used to derive tile and visualization links.
//
// Configuration is loaded once at startup from a YAML file and is read-only
// afterwards. A collection without an entry has no special handling: it is
// visible and receives only the unconditional documentation link.
package render

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the render policy for a single collection.
type Config struct {
	// Hidden removes the collection from listings and makes single-collection
	// lookup indistinguishable from "collection does not exist".
	Hidden bool `koanf:"hidden" json:"hidden"`

	// AddCollectionLinks enables tile/visualization links on the collection
	// document.
	AddCollectionLinks bool `koanf:"add_collection_links" json:"add_collection_links"`

	// AddItemLinks enables tile/visualization links on item documents
	// belonging to the collection.
	AddItemLinks bool `koanf:"add_item_links" json:"add_item_links"`

	// Assets names the assets rendered by the tile service.
	Assets []string `koanf:"assets" json:"assets,omitempty"`

	// RenderParams are extra query parameters passed verbatim to the tile
	// service (rescale, colormap and the like).
	RenderParams map[string]string `koanf:"render_params" json:"render_params,omitempty"`

	// MinZoom is the minimum zoom level advertised for tile layers.
	MinZoom int `koanf:"min_zoom" json:"min_zoom,omitempty"`
}

// Lookup is a read-only mapping from collection ID to render configuration.
type Lookup struct {
	configs map[string]*Config
}

// NewLookup builds a Lookup from an explicit map. Used by tests and by
// callers that assemble configuration programmatically. A nil entry (a YAML
// key with an empty body) is normalized to the zero Config, so it behaves
// like an absent entry: visible, no tile links.
func NewLookup(configs map[string]*Config) *Lookup {
	if configs == nil {
		configs = map[string]*Config{}
	}
	for id, cfg := range configs {
		if cfg == nil {
			configs[id] = &Config{}
		}
	}
	return &Lookup{configs: configs}
}

// EmptyLookup returns a Lookup with no entries: every collection is visible
// and none gets tile links.
func EmptyLookup() *Lookup {
	return NewLookup(nil)
}

// LoadLookup reads render configuration from a YAML file of the form:
//
//	collections:
//	  sentinel-2-l2a:
//	    add_collection_links: true
//	    add_item_links: true
//	    assets: [visual]
//	    render_params:
//	      assets: visual
//	  staging-only:
//	    hidden: true
func LoadLookup(path string) (*Lookup, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load render config %s: %w", path, err)
	}

	var root struct {
		Collections map[string]*Config `koanf:"collections"`
	}
	if err := k.Unmarshal("", &root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal render config %s: %w", path, err)
	}

	return NewLookup(root.Collections), nil
}

// Get returns the render configuration for a collection, or false when the
// collection has no entry.
func (l *Lookup) Get(collectionID string) (*Config, bool) {
	cfg, ok := l.configs[collectionID]
	return cfg, ok
}

// Visible reports whether a collection may appear in API responses.
// It is false iff a configuration exists for the ID and its Hidden flag is
// set; absent entries are visible.
func (l *Lookup) Visible(collectionID string) bool {
	cfg, ok := l.configs[collectionID]
	return !ok || !cfg.Hidden
}

// Len returns the number of configured collections.
func (l *Lookup) Len() int {
	return len(l.configs)
}

// IDs returns the configured collection IDs in no particular order.
func (l *Lookup) IDs() []string {
	ids := make([]string, 0, len(l.configs))
	for id := range l.configs {
		ids = append(ids, id)
	}
	return ids
}
