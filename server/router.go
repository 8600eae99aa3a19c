// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"net/http"

	"codeberg.org/pixivfe/tscatalog/i18n"
)

// Middleware runs around a handler. It must call next to continue the chain.
type Middleware func(w http.ResponseWriter, r *http.Request, next http.Handler)

// Options tunes a Router.
type Options struct {
	// RateLimit is the number of requests per second allowed per client.
	// Zero disables rate limiting.
	RateLimit int
	RateBurst int
}

// Router wraps http.ServeMux and provides middleware chaining functionality.
type Router struct {
	*http.ServeMux

	registry    *i18n.Registry
	middlewares []Middleware
}

// NewRouter returns a Router serving lookups against reg, with routes and
// middleware registered.
func NewRouter(reg *i18n.Registry, opts Options) *Router {
	router := &Router{
		ServeMux: http.NewServeMux(),
		registry: reg,
	}

	router.defineRoutes()

	// the first middleware is the most outer / first executed one
	router.Use(WithServerTiming)
	router.Use(SetResponseHeaders)

	if opts.RateLimit > 0 {
		router.Use(NewLimiter(opts.RateLimit, opts.RateBurst).Evaluate)
	}

	router.Use(router.withLocale)

	return router
}

// Use adds a middleware to the router's chain.
func (router *Router) Use(middleware Middleware) {
	router.middlewares = append(router.middlewares, middleware)
}

// runs router.middlewares[i] and every thereafter
func (router *Router) serve(i int, w http.ResponseWriter, r *http.Request) {
	if i < len(router.middlewares) {
		router.middlewares[i](w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			router.serve(i+1, w, r)
		}))
	} else {
		router.ServeMux.ServeHTTP(w, r)
	}
}

// runs all middleware
func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.serve(0, w, r)
}
