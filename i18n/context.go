// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"
	"strings"
)

type contextKeyType struct{}

var localeKey = contextKeyType{}

// LangParam is the name of the URL query parameter read by [Bundle.FromRequest]
// for a preferred UI language.
const LangParam = "lang"

// WithLocale stores loc in ctx and returns a derived context that carries it.
//
// The returned context should be passed to downstream code that performs
// translations. Passing nil clears any existing value.
//
// The ctx must not be nil.
func WithLocale(ctx context.Context, loc *Locale) context.Context {
	return context.WithValue(ctx, localeKey, loc)
}

// LocaleFrom returns the locale stored in ctx, or nil if none is present.
// A nil *Locale resolves every key to its source text.
func LocaleFrom(ctx context.Context) *Locale {
	if ctx == nil {
		return nil
	}

	loc, _ := ctx.Value(localeKey).(*Locale)

	return loc
}

// FromRequest returns the best locale for r by inspecting user preferences
// in priority order:
// 1) query parameter [LangParam]
// 2) Accept-Language header
//
// Special case: if [LangParam] is "auto" (case-insensitive), only the
// Accept-Language header is considered.
//
// If r is nil, FromRequest returns the base locale.
func (b *Bundle) FromRequest(r *http.Request) *Locale {
	if r == nil {
		return b.Base()
	}

	q := r.URL.Query().Get(LangParam)

	preferred := make([]string, 0, 2)
	if q != "" && !strings.EqualFold(q, "auto") {
		preferred = append(preferred, q)
	}

	if al := r.Header.Get("Accept-Language"); al != "" {
		preferred = append(preferred, al)
	}

	return b.Match(preferred...)
}

// WithRequest resolves the locale from r using [Bundle.FromRequest] and installs
// it in the returned context.
func (b *Bundle) WithRequest(ctx context.Context, r *http.Request) context.Context {
	return WithLocale(ctx, b.FromRequest(r))
}
