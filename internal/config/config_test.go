// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults pass",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "default limit zero",
			mutate:  func(c *Config) { c.API.DefaultLimit = 0 },
			wantErr: true,
		},
		{
			name:    "max limit below default",
			mutate:  func(c *Config) { c.API.MaxLimit = c.API.DefaultLimit - 1 },
			wantErr: true,
		},
		{
			name:    "empty docs base url",
			mutate:  func(c *Config) { c.STAC.DocsBaseURL = "" },
			wantErr: true,
		},
		{
			name:    "docs base url bad scheme",
			mutate:  func(c *Config) { c.STAC.DocsBaseURL = "ftp://example.com/docs" },
			wantErr: true,
		},
		{
			name:    "tiler url optional",
			mutate:  func(c *Config) { c.STAC.TilerBaseURL = "" },
			wantErr: false,
		},
		{
			name:    "tiler url invalid when set",
			mutate:  func(c *Config) { c.STAC.TilerBaseURL = "not-a-url" },
			wantErr: true,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  port: 9090
stac:
  catalog_id: test-catalog
  docs_base_url: https://example.com/dataset
api:
  default_limit: 10
  max_limit: 50
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9191") // env wins over file
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("expected env port 9191 to win, got %d", cfg.Server.Port)
	}
	if cfg.STAC.CatalogID != "test-catalog" {
		t.Errorf("expected catalog id from file, got %q", cfg.STAC.CatalogID)
	}
	if cfg.API.DefaultLimit != 10 || cfg.API.MaxLimit != 50 {
		t.Errorf("expected limits from file, got %d/%d", cfg.API.DefaultLimit, cfg.API.MaxLimit)
	}
	if len(cfg.API.CORSOrigins) != 2 || cfg.API.CORSOrigins[0] != "https://a.example" {
		t.Errorf("expected comma-separated CORS origins parsed, got %v", cfg.API.CORSOrigins)
	}
}

func TestEnvTransformSkipsUnknown(t *testing.T) {
	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("expected unmapped env var to be skipped, got %q", got)
	}
	if got := envTransformFunc("HTTP_PORT"); got != "server.port" {
		t.Errorf("expected server.port, got %q", got)
	}
}

func TestServerAddr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 8080, ReadTimeout: time.Second}
	if got := c.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
}
