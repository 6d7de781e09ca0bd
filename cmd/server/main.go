// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

// Package main is the entry point for the Stacgate server.
//
// Stacgate serves a SpatioTemporal Asset Catalog (STAC) API over a DuckDB
// document store. Collections flow through a visibility filter and a
// link-injection pipeline before leaving the server: hidden collections are
// indistinguishable from absent ones, every served collection gains a
// documentation link, and collections with render configuration additionally
// gain tile and map-preview links pointing at an external tile service.
//
// The server initializes components in this order:
//
//  1. Configuration: Koanf v2 layered defaults, YAML file, environment
//  2. Logging: zerolog, JSON or console format
//  3. Render configuration: per-collection visibility and tile policy (YAML)
//  4. Catalog store: DuckDB holding collection and item documents
//  5. Serving core: visibility filter, link injector, collections cache
//  6. HTTP server: chi router under a suture supervisor tree
//
// Shutdown on SIGINT/SIGTERM is graceful: the supervisor cancels the HTTP
// service, in-flight requests get the configured drain timeout, and the
// store is closed last.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/stacgate/stacgate/internal/api"
	"github.com/stacgate/stacgate/internal/catalog"
	"github.com/stacgate/stacgate/internal/client"
	"github.com/stacgate/stacgate/internal/config"
	"github.com/stacgate/stacgate/internal/logging"
	"github.com/stacgate/stacgate/internal/render"
	"github.com/stacgate/stacgate/internal/supervisor"
	"github.com/stacgate/stacgate/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("catalog_path", cfg.Catalog.Path).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Stacgate")

	// Render configuration is optional; without it every collection is
	// visible and only documentation links are injected.
	lookup := render.EmptyLookup()
	if cfg.Render.ConfigPath != "" {
		lookup, err = render.LoadLookup(cfg.Render.ConfigPath)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to load render configuration")
		}
		logging.Info().
			Int("collections", lookup.Len()).
			Str("path", cfg.Render.ConfigPath).
			Msg("Render configuration loaded")
	}

	var tiles *render.TileLinkBuilder
	if cfg.STAC.TilerBaseURL != "" {
		tiles, err = render.NewTileLinkBuilder(cfg.STAC.TilerBaseURL)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to configure tile link builder")
		}
	}

	store, err := catalog.NewStore(&cfg.Catalog)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open catalog store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog store")
		}
	}()

	stacClient, err := client.New(client.Options{
		Catalog: store,
		Lookup:  lookup,
		Tiles:   tiles,
		STAC:    cfg.STAC,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to assemble serving core")
	}

	handler := api.NewHandler(stacClient, store, cfg.API)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, cfg.API),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	supervisorLogger := slog.New(logging.NewSlogHandler())
	tree := supervisor.NewTree(supervisorLogger, supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
	}

	logging.Info().Msg("Stacgate stopped")
}
