// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

// Package cache provides a single-flight memoizing cache.
//
// Entries never expire; staleness is handled by explicit invalidation.
// Concurrent computations for the same key are collapsed so the backing
// store sees at most one in-flight fetch per key.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/stacgate/stacgate/internal/logging"
	"github.com/stacgate/stacgate/internal/metrics"
)

// ComputeFunc produces the value to cache for a key.
type ComputeFunc func(ctx context.Context) (any, error)

// Memoizer caches computed values by key until invalidated. The zero value
// is not usable; construct with New.
type Memoizer struct {
	mu      sync.RWMutex
	entries map[string]any
	group   singleflight.Group
}

// New returns an empty Memoizer.
func New() *Memoizer {
	return &Memoizer{entries: make(map[string]any)}
}

// GetOrCompute returns the cached value for key, computing and storing it on
// first use. Concurrent callers for the same key share a single computation.
// A failed computation caches nothing, so the next caller retries.
func (m *Memoizer) GetOrCompute(ctx context.Context, key string, compute ComputeFunc) (any, error) {
	m.mu.RLock()
	value, ok := m.entries[key]
	m.mu.RUnlock()
	if ok {
		metrics.RecordCacheHit(key)
		return value, nil
	}

	value, err, _ := m.group.Do(key, func() (any, error) {
		// A concurrent computation may have filled the entry between the
		// read above and this call.
		m.mu.RLock()
		value, ok := m.entries[key]
		m.mu.RUnlock()
		if ok {
			metrics.RecordCacheHit(key)
			return value, nil
		}

		metrics.RecordCacheMiss(key)
		computed, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.entries[key] = computed
		m.mu.Unlock()

		logging.Debug().Str("key", key).Msg("Cache entry populated")
		return computed, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Get returns the cached value for key without computing anything.
func (m *Memoizer) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	return value, ok
}

// Invalidate drops the entry for key. The next GetOrCompute recomputes it.
func (m *Memoizer) Invalidate(key string) {
	m.mu.Lock()
	_, existed := m.entries[key]
	delete(m.entries, key)
	m.mu.Unlock()

	if existed {
		metrics.RecordCacheInvalidation(key)
		logging.Debug().Str("key", key).Msg("Cache entry invalidated")
	}
}

// Len returns the number of cached entries.
func (m *Memoizer) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
