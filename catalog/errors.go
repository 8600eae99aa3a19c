// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import "errors"

var (
	// ErrMalformed reports catalog data whose structure cannot be decoded.
	ErrMalformed = errors.New("malformed catalog")

	// ErrEmptySource reports a message without source text.
	ErrEmptySource = errors.New("message has empty source text")

	// ErrEmptyContext reports a context without a name.
	ErrEmptyContext = errors.New("context has empty name")
)

// LoadError is returned when a catalog resource cannot be read or decoded.
// Use errors.Is with [ErrMalformed] or [ErrEmptySource] to tell the causes apart.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return "failed to load catalog: " + e.Err.Error()
	}

	return "failed to load catalog " + e.Path + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
