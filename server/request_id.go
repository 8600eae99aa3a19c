// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"
)

// RequestIDHeader carries the id of a request in both directions.
const RequestIDHeader = "X-Request-Id"

// newRequestID makes a short id from the wall clock time and 3 bytes of entropy.
func newRequestID(now time.Time) string {
	entropy := [3]byte{'a', 'a', 'a'}

	_, _ = rand.Read(entropy[:])

	return now.Format("150405") + base64.RawURLEncoding.EncodeToString(entropy[:])
}

// requestID returns the id supplied by a proxy in RequestIDHeader, or a new one.
func requestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" && len(id) <= 64 {
		return id
	}

	return newRequestID(time.Now())
}
