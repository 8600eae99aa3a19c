// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"codeberg.org/pixivfe/tscatalog/i18n"
)

// Page text.
var (
	titleKey    = i18n.Key{Context: trContext, Source: "Translation catalogs"}
	activeKey   = i18n.Key{Context: trContext, Source: "Active locale"}
	localeKey   = i18n.Key{Context: trContext, Source: "Locale"}
	domainsKey  = i18n.Key{Context: trContext, Source: "Domains"}
	messagesKey = i18n.Key{Context: trContext, Source: "Messages"}
)

type indexData struct {
	Active  string
	Locales []localeInfo
}

// indexPage answers GET / with an HTML overview of the loaded locales.
func (router *Router) indexPage(w http.ResponseWriter, r *http.Request) error {
	data := indexData{
		Active:  router.registry.CurrentLocale(),
		Locales: describeLocales(router.registry.Bundle()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	return indexView(data).Render(r.Context(), w)
}

func indexView(data indexData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := i18n.LocaleFrom(ctx).Tag().String()

		var b strings.Builder

		b.WriteString(`<!DOCTYPE html><html lang="` + templ.EscapeString(lang) + `"><head><meta charset="utf-8"><title>`)
		writeKey(ctx, &b, titleKey)
		b.WriteString(`</title></head><body><h1>`)
		writeKey(ctx, &b, titleKey)
		b.WriteString(`</h1><p id="active">`)
		writeKey(ctx, &b, activeKey)
		b.WriteString(`: <code>` + templ.EscapeString(data.Active) + `</code></p>`)

		b.WriteString(`<table><thead><tr><th>`)
		writeKey(ctx, &b, localeKey)
		b.WriteString(`</th><th>`)
		writeKey(ctx, &b, domainsKey)
		b.WriteString(`</th><th>`)
		writeKey(ctx, &b, messagesKey)
		b.WriteString(`</th></tr></thead><tbody>`)

		for _, l := range data.Locales {
			b.WriteString(`<tr data-locale="` + templ.EscapeString(l.ID) + `"><td>`)
			b.WriteString(templ.EscapeString(l.Name) + ` <small>(` + templ.EscapeString(l.ID) + `)</small>`)
			b.WriteString(`</td><td>` + templ.EscapeString(strings.Join(l.Domains, ", ")) + `</td>`)
			b.WriteString(`<td>` + strconv.Itoa(l.Messages) + `</td></tr>`)
		}

		b.WriteString(`</tbody></table></body></html>`)

		_, err := io.WriteString(w, b.String())

		return err
	})
}

// writeKey renders k escaped for HTML text.
func writeKey(ctx context.Context, b *strings.Builder, k i18n.Key) {
	b.WriteString(templ.EscapeString(k.Tr(ctx)))
}
