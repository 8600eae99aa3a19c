// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"codeberg.org/pixivfe/tscatalog/catalog"
	"codeberg.org/pixivfe/tscatalog/config"
)

// AutoLanguage selects the locale of the operating system. See [DetectSystemLocale].
const AutoLanguage = "auto"

// Setup loads the catalogs in cfg.Dir of fsys and returns a Registry with the
// configured language active.
//
// The expected layout is:
//
//	<dir>/<domain>.<locale>.ts
//	<dir>/<domain>.<locale>.ts.zst
//	<dir>/<domain>.<locale>.yaml
//	<dir>/<domain>.<locale>.po
//
// Domains are installed in the order of cfg.Domains. When cfg.Language is
// empty or AutoLanguage, the loaded locale for the system locale is used,
// falling back to BaseLocale. An explicit language that is not loaded is an
// error wrapping [ErrLocaleNotFound].
func Setup(ctx context.Context, fsys fs.FS, cfg config.I18nConfig) (*Registry, error) {
	var catalogOpts []catalog.Option

	if cfg.SkipUnfinished {
		catalogOpts = append(catalogOpts, catalog.SkipUnfinished())
	}

	if cfg.StripLocations {
		catalogOpts = append(catalogOpts, catalog.StripLocations())
	}

	if cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, cfg.LoadTimeout)
		defer cancel()
	}

	b, err := NewBundle(ctx, fsys, cfg.Dir,
		WithDomains(cfg.Domains...),
		WithCatalogOptions(catalogOpts...),
		StrictMissingKeys(cfg.StrictMissingKeys),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogs: %w", err)
	}

	r := NewRegistry(b)

	if cfg.Language == "" || strings.EqualFold(cfg.Language, AutoLanguage) {
		detected := DetectSystemLocale()
		r.Use(autoLocale(b, detected))

		b.logger.Info().
			Str("detected", detected).
			Str("locale", r.CurrentLocale()).
			Msg("Selected system locale")

		return r, nil
	}

	if err := r.SetLocale(cfg.Language); err != nil {
		return nil, fmt.Errorf("failed to select language: %w", err)
	}

	return r, nil
}

// autoLocale returns the locale loaded for the detected system locale, or the
// base locale. Only confident matches count, so a Traditional Chinese system
// gets English rather than zh_CN.
func autoLocale(b *Bundle, detected string) *Locale {
	loc, err := b.Load(detected)
	if err != nil {
		return b.Base()
	}

	return loc
}
