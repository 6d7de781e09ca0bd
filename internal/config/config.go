// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

// Package config loads and validates Stacgate configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the root configuration for the Stacgate server.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Catalog CatalogConfig `koanf:"catalog"`
	STAC    STACConfig    `koanf:"stac"`
	Render  RenderConfig  `koanf:"render"`
	API     APIConfig     `koanf:"api"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CatalogConfig holds settings for the embedded catalog store.
type CatalogConfig struct {
	// Path is the DuckDB database file. Empty means in-memory.
	Path string `koanf:"path"`
	// MaxMemory is DuckDB's memory limit (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`
	// Threads is the DuckDB thread count. 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// STACConfig holds catalog presentation settings surfaced in API documents.
type STACConfig struct {
	// CatalogID identifies the landing page catalog.
	CatalogID   string `koanf:"catalog_id"`
	Title       string `koanf:"title"`
	Description string `koanf:"description"`

	// BaseURL is the public root of this API, used for self links.
	BaseURL string `koanf:"base_url"`

	// DocsBaseURL is the human-readable dataset documentation root.
	// Every visible collection gets a describedby link under it.
	DocsBaseURL string `koanf:"docs_base_url"`

	// TilerBaseURL is the tile service root used when render configuration
	// enables tile links for a collection.
	TilerBaseURL string `koanf:"tiler_base_url"`

	// ExtraConformanceClasses are merged into the conformance response in
	// addition to the base set and extension-declared classes.
	ExtraConformanceClasses []string `koanf:"extra_conformance_classes"`
}

// RenderConfig holds settings for per-collection render configuration.
type RenderConfig struct {
	// ConfigPath is a YAML file mapping collection IDs to render policies.
	// Empty means no collection has special handling.
	ConfigPath string `koanf:"config_path"`
}

// APIConfig holds request handling settings.
type APIConfig struct {
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that would prevent the server
// from operating correctly. It is called after unmarshaling.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.API.DefaultLimit < 1 {
		return fmt.Errorf("api.default_limit must be positive, got %d", c.API.DefaultLimit)
	}
	if c.API.MaxLimit < c.API.DefaultLimit {
		return fmt.Errorf("api.max_limit (%d) must be >= api.default_limit (%d)",
			c.API.MaxLimit, c.API.DefaultLimit)
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"stac.base_url", c.STAC.BaseURL},
		{"stac.docs_base_url", c.STAC.DocsBaseURL},
	} {
		if err := validateURL(field.value); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}

	// Tiler URL is optional; validate only when set.
	if c.STAC.TilerBaseURL != "" {
		if err := validateURL(c.STAC.TilerBaseURL); err != nil {
			return fmt.Errorf("stac.tiler_base_url: %w", err)
		}
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}

// validateURL checks that a configured URL is absolute with an http(s) scheme.
func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
