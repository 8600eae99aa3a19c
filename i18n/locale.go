// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/pixivfe/tscatalog/catalog"
)

// BaseLocale is the source language of every catalog. It is always available
// and resolves every key to its source text.
const BaseLocale = "en"

// baseTag is the canonical tag for BaseLocale.
var baseTag = language.Make(BaseLocale)

// Source answers lookups for one translation domain.
// *catalog.Catalog implements Source.
type Source interface {
	Domain() string
	Lookup(context, source string) (string, bool)
}

// Locale is an immutable, ordered set of sources for one language.
//
// Sources are searched from the most recently installed to the first, so an
// application catalog installed after a library catalog takes precedence.
// A nil *Locale behaves like the base locale.
type Locale struct {
	tag     language.Tag
	sources []Source
	missing *missingKeys
}

func newLocale(tag language.Tag, sources []Source, missing *missingKeys) *Locale {
	return &Locale{tag: tag, sources: sources, missing: missing}
}

// Tag returns the BCP 47 tag of l.
func (l *Locale) Tag() language.Tag {
	if l == nil {
		return baseTag
	}

	return l.tag
}

// ID returns the locale identifier in catalog file form, for example "zh_CN".
func (l *Locale) ID() string {
	return localeID(l.Tag())
}

// Domains returns the installed domains in install order.
func (l *Locale) Domains() []string {
	if l == nil {
		return nil
	}

	out := make([]string, len(l.sources))
	for i, s := range l.sources {
		out[i] = s.Domain()
	}

	return out
}

// Sources returns the installed sources in install order.
func (l *Locale) Sources() []Source {
	if l == nil {
		return nil
	}

	out := make([]Source, len(l.sources))
	copy(out, l.sources)

	return out
}

// Catalog returns the TS catalog installed for domain.
// It reports false when the domain is missing or was loaded from another format.
func (l *Locale) Catalog(domain string) (*catalog.Catalog, bool) {
	for _, s := range l.Sources() {
		if c, ok := s.(*catalog.Catalog); ok && s.Domain() == domain {
			return c, true
		}
	}

	return nil, false
}

// Len returns the number of messages in the TS catalogs of l.
func (l *Locale) Len() int {
	n := 0

	for _, s := range l.Sources() {
		if c, ok := s.(*catalog.Catalog); ok {
			n += c.Len()
		}
	}

	return n
}

// Lookup returns the first non-empty translation of source within context,
// searching the newest source first.
func (l *Locale) Lookup(context, source string) (string, bool) {
	if l == nil {
		return "", false
	}

	for i := len(l.sources) - 1; i >= 0; i-- {
		if tr, ok := l.sources[i].Lookup(context, source); ok {
			return tr, true
		}
	}

	return "", false
}

// Resolve returns the translation of source within context, or source itself.
//
// When strict missing keys are enabled, a miss is logged once per locale and
// key and the source is returned wrapped as "⟦source⟧". The base locale never
// reports misses since its text is the source text.
func (l *Locale) Resolve(context, source string) string {
	if tr, ok := l.Lookup(context, source); ok {
		return tr
	}

	if l != nil && l.missing != nil && len(l.sources) > 0 {
		l.missing.logOnce(strippedTagString(l.tag), buildLogKey(context, source))

		return "⟦" + source + "⟧"
	}

	return source
}

// localeID formats t the way catalog file names spell locales.
func localeID(t language.Tag) string {
	return strings.ReplaceAll(t.String(), "-", "_")
}

// parseLocaleID accepts "zh_CN" as well as BCP 47 forms such as "zh-CN".
func parseLocaleID(id string) (language.Tag, error) {
	return language.Parse(strings.ReplaceAll(id, "_", "-"))
}
