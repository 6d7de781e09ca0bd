// Stacgate - SpatioTemporal Asset Catalog API Server
// Copyright 2026 Stacgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stacgate/stacgate

package catalog

import "errors"

// NotFoundError reports that a collection or item does not exist. It is the
// only error kind the serving core produces itself; hidden collections are
// reported with the same error so they are indistinguishable from absent
// ones. All other failures propagate unmodified.
type NotFoundError struct {
	Message string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "not found"
	}
	return e.Message
}

// NotFound creates a NotFoundError with the given message.
func NotFound(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
