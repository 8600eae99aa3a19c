// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"codeberg.org/pixivfe/tscatalog/audit"
	"codeberg.org/pixivfe/tscatalog/catalog"
)

// ErrLocaleNotFound is returned when no catalog exists for a requested locale.
var ErrLocaleNotFound = errors.New("locale not found")

// Bundle holds every locale discovered in a resource directory.
// It is immutable once built and safe for concurrent use.
type Bundle struct {
	// locales maps canonical BCP 47 tags, for example "en" or "zh-CN", to their Locale.
	locales map[string]*Locale

	// supported holds the tags of all locales. baseTag is first.
	supported []language.Tag

	matcher language.Matcher
	logger  zerolog.Logger
}

type bundleOptions struct {
	domains     []string
	catalogOpts []catalog.Option
	strict      bool
	logger      *zerolog.Logger
}

// Option configures [NewBundle].
type Option func(*bundleOptions)

// WithDomains sets the install order of domains within each locale.
// List library domains first and the application domain last.
// Domains that are not listed are installed after the listed ones, by name.
func WithDomains(domains ...string) Option {
	return func(o *bundleOptions) { o.domains = domains }
}

// WithCatalogOptions passes opts to every TS catalog parsed by the bundle.
func WithCatalogOptions(opts ...catalog.Option) Option {
	return func(o *bundleOptions) { o.catalogOpts = append(o.catalogOpts, opts...) }
}

// StrictMissingKeys makes missing translations visible. See [Locale.Resolve].
func StrictMissingKeys(enabled bool) Option {
	return func(o *bundleOptions) { o.strict = enabled }
}

// WithLogger replaces the package logger for the bundle and its locales.
func WithLogger(l zerolog.Logger) Option {
	return func(o *bundleOptions) { o.logger = &l }
}

// resource is one catalog file found in the bundle directory.
type resource struct {
	name   string
	domain string
	tag    language.Tag
	size   int64
	kind   audit.ResourceKind
}

// NewBundle loads the catalogs in directory dir of fsys.
//
// Files are named "<domain>.<locale>.ts", "<domain>.<locale>.yaml" (either
// optionally with a ".zst" suffix) or "<domain>.<locale>.po". The locale part may use underscores or hyphens.
// Files with an unparsable locale are skipped with a warning; any other file
// is ignored. TS files are parsed concurrently; the first failure is returned
// as a *catalog.LoadError and no bundle is built.
//
// The locale for [BaseLocale] always exists, with or without catalogs.
func NewBundle(ctx context.Context, fsys fs.FS, dir string, opts ...Option) (*Bundle, error) {
	var o bundleOptions
	for _, opt := range opts {
		opt(&o)
	}

	b := &Bundle{locales: make(map[string]*Locale)}
	if o.logger != nil {
		b.logger = *o.logger
	} else {
		b.logger = defaultLogger()
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	var resources []resource

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		fileName := entry.Name()

		domain, localeName, ok := catalog.SplitName(fileName)
		if !ok {
			continue
		}

		t, err := parseLocaleID(localeName)
		if err != nil {
			b.logger.Warn().Err(err).Str("file", fileName).Msg("Skipping invalid locale file")

			continue
		}

		r := resource{
			name:   path.Join(dir, fileName),
			domain: domain,
			tag:    t,
			kind:   audit.KindTS,
		}
		switch {
		case strings.HasSuffix(fileName, ".po"):
			r.kind = audit.KindPO
		case catalog.IsYAMLName(fileName):
			r.kind = audit.KindYAML
		}

		if info, err := entry.Info(); err == nil {
			r.size = info.Size()
		}

		resources = append(resources, r)
	}

	sortResources(resources, o.domains)

	sources, err := loadResources(ctx, fsys, resources, o.catalogOpts)
	if err != nil {
		return nil, err
	}

	var missing *missingKeys
	if o.strict {
		missing = &missingKeys{logger: &b.logger}
	}

	grouped := make(map[string][]Source)
	tagsByKey := make(map[string]language.Tag)

	for i, r := range resources {
		key := r.tag.String()
		grouped[key] = append(grouped[key], sources[i])
		tagsByKey[key] = r.tag
	}

	grouped[baseTag.String()] = append([]Source(nil), grouped[baseTag.String()]...)
	tagsByKey[baseTag.String()] = baseTag

	tagsList := make([]language.Tag, 0, len(tagsByKey))

	for key, t := range tagsByKey {
		loc := newLocale(t, grouped[key], missing)
		b.locales[key] = loc

		if t != baseTag {
			tagsList = append(tagsList, t)
		}

		b.logger.Info().
			Str("locale", loc.ID()).
			Strs("domains", loc.Domains()).
			Msg("Loaded locale")
	}

	// Sort loaded tags by their canonical string.
	sort.Slice(tagsList, func(i, j int) bool { return tagsList[i].String() < tagsList[j].String() })

	// baseTag is first to make it the default fallback for matching.
	b.supported = append([]language.Tag{baseTag}, tagsList...)
	b.matcher = language.NewMatcher(b.supported)

	return b, nil
}

// sortResources orders resources by the configured domain order, then by
// domain name, then by file name.
func sortResources(resources []resource, domains []string) {
	rank := make(map[string]int, len(domains))
	for i, d := range domains {
		rank[d] = i
	}

	rankOf := func(d string) int {
		if r, ok := rank[d]; ok {
			return r
		}

		return len(domains)
	}

	sort.SliceStable(resources, func(i, j int) bool {
		ri, rj := rankOf(resources[i].domain), rankOf(resources[j].domain)
		if ri != rj {
			return ri < rj
		}

		if resources[i].domain != resources[j].domain {
			return resources[i].domain < resources[j].domain
		}

		return resources[i].name < resources[j].name
	})
}

// loadResources parses every resource concurrently. The result is index-aligned with resources.
func loadResources(
	ctx context.Context,
	fsys fs.FS,
	resources []resource,
	catalogOpts []catalog.Option,
) ([]Source, error) {
	sources := make([]Source, len(resources))

	g, ctx := errgroup.WithContext(ctx)

	for i, r := range resources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			span := audit.Span{
				Kind:   r.kind,
				Path:   r.name,
				Locale: localeID(r.tag),
				Domain: r.domain,
				Size:   r.size,
			}
			span.Begin(ctx)

			defer func() {
				span.End()
				span.Log()
			}()

			if r.kind == audit.KindPO {
				po, err := loadPO(fsys, r.name, r.domain)
				if err != nil {
					span.Error = err

					return err
				}

				sources[i] = po

				return nil
			}

			c, err := catalog.ParseFS(fsys, r.name, catalogOpts...)
			if err != nil {
				span.Error = err

				return err
			}

			span.Messages = c.Len()
			sources[i] = c

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sources, nil
}

// Locales returns the tags of all loaded locales, sorted by tag string.
// The returned slice is a copy and is safe to retain.
func (b *Bundle) Locales() []language.Tag {
	out := make([]language.Tag, len(b.supported))
	copy(out, b.supported)

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })

	return out
}

// Load returns the locale for id, such as "zh_CN" or "zh-CN".
//
// Ids that differ from a loaded locale only in ways the language matcher
// considers equivalent, for example "zh-Hans-CN", resolve to that locale.
// Anything else fails with an error wrapping [ErrLocaleNotFound].
func (b *Bundle) Load(id string) (*Locale, error) {
	t, err := parseLocaleID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrLocaleNotFound, id, err)
	}

	if loc, ok := b.locales[t.String()]; ok {
		return loc, nil
	}

	_, idx, conf := b.matcher.Match(t)
	if conf < language.High {
		return nil, fmt.Errorf("%w: %q", ErrLocaleNotFound, id)
	}

	return b.locales[b.supported[idx].String()], nil
}

// Match returns the best locale for a list of preferences. Each preference
// may be a single locale id or an Accept-Language header value.
// Unparsable preferences are ignored. Without a usable match the base locale is returned.
func (b *Bundle) Match(prefs ...string) *Locale {
	var want []language.Tag

	for _, p := range prefs {
		tags, _, err := language.ParseAcceptLanguage(strings.ReplaceAll(p, "_", "-"))
		if err != nil {
			continue
		}

		want = append(want, tags...)
	}

	if len(want) == 0 {
		return b.Base()
	}

	_, idx, conf := b.matcher.Match(want...)
	if conf == language.No {
		return b.Base()
	}

	return b.locales[b.supported[idx].String()]
}

// Base returns the base locale.
func (b *Bundle) Base() *Locale {
	return b.locales[baseTag.String()]
}
