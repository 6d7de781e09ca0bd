// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/goccy/go-json"

	"github.com/stacgate/stacgate/internal/config"
	"github.com/stacgate/stacgate/internal/logging"
	"github.com/stacgate/stacgate/internal/metrics"
	"github.com/stacgate/stacgate/internal/stac"
)

// Store is a DuckDB-backed catalog. Collection and item documents are stored
// as JSON and returned verbatim; the store implements both Reader and Writer.
type Store struct {
	conn *sql.DB
}

var (
	_ Reader = (*Store)(nil)
	_ Writer = (*Store)(nil)
)

// NewStore opens (or creates) the catalog database and initializes its
// schema. An empty path opens an in-memory database.
func NewStore(cfg *config.CatalogConfig) (*Store, error) {
	if cfg == nil {
		cfg = &config.CatalogConfig{}
	}

	if cfg.Path != "" {
		// DuckDB does not create parent directories itself.
		dir := filepath.Dir(cfg.Path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create catalog directory %s: %w", dir, err)
			}
		}
	}

	conn, err := sql.Open("duckdb", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.configure(cfg); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := s.initSchema(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logging.Info().
		Str("path", cfg.Path).
		Msg("Catalog store opened")

	return s, nil
}

// configure applies DuckDB settings from configuration.
func (s *Store) configure(cfg *config.CatalogConfig) error {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	if _, err := s.conn.Exec(fmt.Sprintf("SET threads TO %d", threads)); err != nil {
		return fmt.Errorf("failed to set thread count: %w", err)
	}

	if cfg.MaxMemory != "" {
		if _, err := s.conn.Exec(fmt.Sprintf("SET memory_limit = '%s'", cfg.MaxMemory)); err != nil {
			return fmt.Errorf("failed to set memory limit: %w", err)
		}
	}
	return nil
}

// initSchema creates the document tables when they do not exist.
func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS collections (
			id VARCHAR PRIMARY KEY,
			content JSON NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id VARCHAR NOT NULL,
			collection VARCHAR NOT NULL,
			content JSON NOT NULL,
			PRIMARY KEY (id, collection)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize catalog schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Collections returns every collection ordered by ID.
func (s *Store) Collections(ctx context.Context) (_ *stac.Collections, err error) {
	defer func(start time.Time) { metrics.ObserveCatalogQuery("collections", start, err) }(time.Now())

	rows, err := s.conn.QueryContext(ctx, `SELECT content::VARCHAR FROM collections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	result := &stac.Collections{Collections: []*stac.Collection{}, Links: []stac.Link{}}
	for rows.Next() {
		var content string
		if err = rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		col := &stac.Collection{}
		if err = json.Unmarshal([]byte(content), col); err != nil {
			return nil, fmt.Errorf("failed to decode collection document: %w", err)
		}
		result.Collections = append(result.Collections, col)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collections: %w", err)
	}

	return result, nil
}

// Collection returns a single collection by ID.
func (s *Store) Collection(ctx context.Context, id string) (_ *stac.Collection, err error) {
	defer func(start time.Time) { metrics.ObserveCatalogQuery("collection", start, err) }(time.Now())

	var content string
	err = s.conn.QueryRowContext(ctx,
		`SELECT content::VARCHAR FROM collections WHERE id = ?`, id).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		err = NotFound(fmt.Sprintf("collection %q does not exist", id))
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %q: %w", id, err)
	}

	col := &stac.Collection{}
	if err = json.Unmarshal([]byte(content), col); err != nil {
		return nil, fmt.Errorf("failed to decode collection document %q: %w", id, err)
	}
	return col, nil
}

// Search executes a constrained item search. Supported constraints are item
// IDs, owning collections, a bounding box against the stored bbox, an RFC
// 3339 datetime instant or interval against the item datetime property, and
// a result limit. A request matching nothing returns an empty feature
// collection.
func (s *Store) Search(ctx context.Context, req *stac.SearchRequest) (_ *stac.ItemCollection, err error) {
	defer func(start time.Time) { metrics.ObserveCatalogQuery("search", start, err) }(time.Now())

	if req == nil {
		req = &stac.SearchRequest{}
	}

	var (
		clauses []string
		args    []any
	)
	if len(req.IDs) > 0 {
		clauses = append(clauses, "id IN ("+placeholders(len(req.IDs))+")")
		for _, id := range req.IDs {
			args = append(args, id)
		}
	}
	if len(req.Collections) > 0 {
		clauses = append(clauses, "collection IN ("+placeholders(len(req.Collections))+")")
		for _, c := range req.Collections {
			args = append(args, c)
		}
	}
	if len(req.BBox) == 4 {
		// Intersection test against the stored 2D bbox array.
		clauses = append(clauses, `
			json_extract(content, '$.bbox[0]')::DOUBLE <= ? AND
			json_extract(content, '$.bbox[2]')::DOUBLE >= ? AND
			json_extract(content, '$.bbox[1]')::DOUBLE <= ? AND
			json_extract(content, '$.bbox[3]')::DOUBLE >= ?`)
		args = append(args, req.BBox[2], req.BBox[0], req.BBox[3], req.BBox[1])
	}
	if req.Datetime != "" {
		start, end, perr := stac.ParseDatetimeRange(req.Datetime)
		if perr != nil {
			err = perr
			return nil, err
		}
		const itemDatetime = `TRY_CAST(json_extract_string(content, '$.properties.datetime') AS TIMESTAMPTZ)`
		if start != nil {
			clauses = append(clauses, itemDatetime+" >= ?")
			args = append(args, start.UTC())
		}
		if end != nil {
			clauses = append(clauses, itemDatetime+" <= ?")
			args = append(args, end.UTC())
		}
	}

	query := `SELECT content::VARCHAR FROM items`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY collection, id"
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", req.Limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer rows.Close()

	result := &stac.ItemCollection{Type: "FeatureCollection", Features: []*stac.Item{}}
	for rows.Next() {
		var content string
		if err = rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		item := &stac.Item{}
		if err = json.Unmarshal([]byte(content), item); err != nil {
			return nil, fmt.Errorf("failed to decode item document: %w", err)
		}
		result.Features = append(result.Features, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search results: %w", err)
	}

	// The engine reports counts; the serving layer strips them. Populated
	// here so the contract "search post-processing removes context" is
	// exercised end to end.
	result.Context = &stac.Context{Returned: len(result.Features), Limit: req.Limit}

	return result, nil
}

// UpsertCollection inserts or replaces a collection document.
func (s *Store) UpsertCollection(ctx context.Context, col *stac.Collection) (err error) {
	defer func(start time.Time) { metrics.ObserveCatalogQuery("upsert_collection", start, err) }(time.Now())

	if col == nil || col.ID == "" {
		return fmt.Errorf("collection must have an id")
	}
	content, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", col.ID, err)
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO collections (id, content) VALUES (?, ?)`,
		col.ID, string(content))
	if err != nil {
		return fmt.Errorf("failed to upsert collection %q: %w", col.ID, err)
	}
	return nil
}

// UpsertItem inserts or replaces an item document.
func (s *Store) UpsertItem(ctx context.Context, item *stac.Item) (err error) {
	defer func(start time.Time) { metrics.ObserveCatalogQuery("upsert_item", start, err) }(time.Now())

	if item == nil || item.ID == "" {
		return fmt.Errorf("item must have an id")
	}
	if item.Collection == "" {
		return fmt.Errorf("item %q must have an owning collection", item.ID)
	}
	content, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode item %q: %w", item.ID, err)
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO items (id, collection, content) VALUES (?, ?, ?)`,
		item.ID, item.Collection, string(content))
	if err != nil {
		return fmt.Errorf("failed to upsert item %q: %w", item.ID, err)
	}
	return nil
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
