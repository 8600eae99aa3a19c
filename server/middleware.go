// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"maps"
	"net/http"

	servertiming "github.com/mitchellh/go-server-timing"

	"codeberg.org/pixivfe/tscatalog/config"
	"codeberg.org/pixivfe/tscatalog/i18n"
)

// baseHeaders defines the default headers to be set in responses.
//
// Tscatalog-Version and Tscatalog-Revision are added dynamically in SetResponseHeaders.
var baseHeaders = http.Header{
	"Referrer-Policy":         {"no-referrer"},
	"X-Frame-Options":         {"DENY"},
	"X-Content-Type-Options":  {"nosniff"},
	"Content-Security-Policy": {"default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none'"},
}

// WithServerTiming collects Server-Timing metrics for the rest of the chain.
func WithServerTiming(w http.ResponseWriter, r *http.Request, next http.Handler) {
	servertiming.Middleware(next, nil).ServeHTTP(w, r)
}

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	headers.Set("Tscatalog-Version", config.Global.Build.Version())
	headers.Set("Tscatalog-Revision", config.Global.Build.Revision())

	// Responses depend on the requested language.
	headers.Add("Vary", "Accept-Language")

	next.ServeHTTP(w, r)
}

// withLocale installs the request's locale in its context.
//
// The lang query parameter and the Accept-Language header are consulted
// first. Without either, the active locale of the registry is used.
func (router *Router) withLocale(w http.ResponseWriter, r *http.Request, next http.Handler) {
	loc := router.registry.Locale()

	if r.URL.Query().Get(i18n.LangParam) != "" || r.Header.Get("Accept-Language") != "" {
		loc = router.registry.Bundle().FromRequest(r)
	}

	next.ServeHTTP(w, r.WithContext(i18n.WithLocale(r.Context(), loc)))
}
