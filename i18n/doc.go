// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n resolves UI strings through the translation catalogs of a locale.
It layers several catalog domains per locale and publishes the active locale
for lock-free lookups.

# Quick start

Load the bundled catalogs and select a language:

	reg, err := i18n.Setup(ctx, assets.FS, config.Global.I18n)
	reg.Resolve("qfw::ColorPickerButton", "Choose ")

Or carry a locale in a context:

	ctx = i18n.WithLocale(ctx, reg.Locale())
	i18n.TrC(ctx, "qfw::TabInterface", "Tab %1", "3")

Keys declared as [Key] literals can be used directly in templ templates:

	@i18n.Key{Context: "qfw::EditMenu", Source: "Copy"}

# Layering

Each [Locale] holds the catalogs of several domains, such as a widget library
and the application that uses it. Lookups search the most recently installed
domain first and fall back to the source text when no domain has a non-empty
translation. The base locale, [BaseLocale], has no catalogs and returns every
source unchanged.

# Missing translations

By default, missing translations return the source unchanged. When
[StrictMissingKeys] is enabled, missing lookups are logged once per
locale+key and the returned text is visibly wrapped as "⟦...⟧".

# Formatting

Placeholders such as %1 are opaque to lookups. Substitute them after
resolution with [Arg], or pass the arguments to [TrC].
*/
package i18n
