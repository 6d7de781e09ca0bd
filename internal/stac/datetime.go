// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

package stac

import (
	"fmt"
	"strings"
	"time"
)

// ParseDatetimeRange parses the datetime search parameter: either a single
// RFC 3339 instant or a "start/end" interval where either side may be open
// (".." or empty). Returns nil bounds for an empty value; a nil start or end
// marks that side of the interval as unbounded.
func ParseDatetimeRange(value string) (start, end *time.Time, err error) {
	if value == "" {
		return nil, nil, nil
	}

	parts := strings.Split(value, "/")
	switch len(parts) {
	case 1:
		t, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid datetime %q: %w", value, err)
		}
		return &t, &t, nil

	case 2:
		start, err = parseDatetimeBound(parts[0])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid datetime interval %q: %w", value, err)
		}
		end, err = parseDatetimeBound(parts[1])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid datetime interval %q: %w", value, err)
		}
		if start == nil && end == nil {
			return nil, nil, fmt.Errorf("invalid datetime interval %q: both ends open", value)
		}
		if start != nil && end != nil && start.After(*end) {
			return nil, nil, fmt.Errorf("invalid datetime interval %q: start after end", value)
		}
		return start, end, nil

	default:
		return nil, nil, fmt.Errorf("invalid datetime %q: expected an instant or start/end interval", value)
	}
}

// parseDatetimeBound parses one side of an interval; ".." and "" mean open.
func parseDatetimeBound(value string) (*time.Time, error) {
	if value == "" || value == ".." {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
