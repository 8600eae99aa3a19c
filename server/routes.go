// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"errors"
	"net/http"

	"golang.org/x/text/language/display"

	"codeberg.org/pixivfe/tscatalog/catalog"
	"codeberg.org/pixivfe/tscatalog/i18n"
)

// Context used for messages produced by the lookup service.
const trContext = "LookupService"

type resolveResponse struct {
	Locale      string `json:"locale"`
	Context     string `json:"context"`
	Source      string `json:"source"`
	Translation string `json:"translation"`
	Translated  bool   `json:"translated"`
}

type localeInfo struct {
	ID       string   `json:"id"`
	Tag      string   `json:"tag"`
	Name     string   `json:"name"`
	English  string   `json:"english"`
	Domains  []string `json:"domains"`
	Messages int      `json:"messages"`
}

type localesResponse struct {
	Active  string       `json:"active"`
	Locales []localeInfo `json:"locales"`
}

type activeResponse struct {
	Active string `json:"active"`
}

func (router *Router) defineRoutes() {
	router.HandleFunc("GET /{$}", catchError(router.indexPage))
	router.HandleFunc("GET /api/resolve", catchError(router.resolve))
	router.HandleFunc("GET /api/locales", catchError(router.locales))
	router.HandleFunc("PUT /api/locale", catchError(router.setLocale))
	router.HandleFunc("GET /api/catalogs/{locale}/{domain}", catchError(router.exportCatalog))
}

// resolve answers GET /api/resolve?context=...&source=...
func (router *Router) resolve(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	ctxName, source := q.Get("context"), q.Get("source")
	if ctxName == "" || source == "" {
		return withStatus(http.StatusBadRequest,
			i18n.NewUserError(r.Context(), trContext, "Both %1 and %2 are required", "context", "source"))
	}

	loc := i18n.LocaleFrom(r.Context())
	tr, ok := loc.Lookup(ctxName, source)

	writeJSON(w, http.StatusOK, resolveResponse{
		Locale:      loc.ID(),
		Context:     ctxName,
		Source:      source,
		Translation: loc.Resolve(ctxName, source),
		Translated:  ok && tr != "",
	})

	return nil
}

// locales answers GET /api/locales.
func (router *Router) locales(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, localesResponse{
		Active:  router.registry.CurrentLocale(),
		Locales: describeLocales(router.registry.Bundle()),
	})

	return nil
}

// setLocale answers PUT /api/locale?lang=... by switching the active locale.
func (router *Router) setLocale(w http.ResponseWriter, r *http.Request) error {
	id := r.URL.Query().Get(i18n.LangParam)
	if id == "" {
		return withStatus(http.StatusBadRequest,
			i18n.NewUserError(r.Context(), trContext, "Missing %1 parameter", i18n.LangParam))
	}

	if err := router.registry.SetLocale(id); err != nil {
		if errors.Is(err, i18n.ErrLocaleNotFound) {
			return withStatus(http.StatusNotFound,
				i18n.NewUserError(r.Context(), trContext, "Unknown locale %1", id))
		}

		return err
	}

	writeJSON(w, http.StatusOK, activeResponse{Active: router.registry.CurrentLocale()})

	return nil
}

// exportCatalog answers GET /api/catalogs/{locale}/{domain}?format=ts|po|yaml.
func (router *Router) exportCatalog(w http.ResponseWriter, r *http.Request) error {
	format := catalog.FormatTS

	if raw := r.URL.Query().Get("format"); raw != "" {
		f, err := catalog.ParseFormat(raw)
		if err != nil {
			return withStatus(http.StatusBadRequest,
				i18n.NewUserError(r.Context(), trContext, "Unsupported format %1", raw))
		}

		format = f
	}

	id, domain := r.PathValue("locale"), r.PathValue("domain")

	loc, err := router.registry.Bundle().Load(id)
	if err != nil {
		return withStatus(http.StatusNotFound,
			i18n.NewUserError(r.Context(), trContext, "Unknown locale %1", id))
	}

	c, ok := loc.Catalog(domain)
	if !ok {
		return withStatus(http.StatusNotFound,
			i18n.NewUserError(r.Context(), trContext, "No %1 catalog for %2", domain, loc.ID()))
	}

	w.Header().Set("Content-Type", format.ContentType())

	return catalog.Encode(w, c, format)
}

// describeLocales lists the loaded locales with their display names.
func describeLocales(b *i18n.Bundle) []localeInfo {
	tags := b.Locales()
	out := make([]localeInfo, 0, len(tags))

	for _, tag := range tags {
		loc, err := b.Load(tag.String())
		if err != nil {
			continue
		}

		out = append(out, localeInfo{
			ID:       loc.ID(),
			Tag:      tag.String(),
			Name:     display.Self.Name(tag),
			English:  display.English.Tags().Name(tag),
			Domains:  loc.Domains(),
			Messages: loc.Len(),
		})
	}

	return out
}
