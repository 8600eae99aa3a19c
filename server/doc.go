// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package server exposes an i18n.Registry over HTTP.

Routes:

	GET /                                   HTML overview of the loaded locales
	GET /api/resolve?context=&source=       resolve one key
	GET /api/locales                        loaded locales and the active one
	PUT /api/locale?lang=                   switch the active locale
	GET /api/catalogs/{locale}/{domain}     export a catalog (?format=ts|po|yaml)

Requests are translated into the locale named by the lang query parameter or
the Accept-Language header, and into the active locale of the registry
otherwise. Error bodies are JSON objects with a single "error" field.
*/
package server
