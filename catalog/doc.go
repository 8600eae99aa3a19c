// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog models translation catalogs stored as Qt Linguist TS
documents and answers (context, source) lookups against them.

A [Catalog] holds the messages of one domain for one locale, for example
the "gallery" catalog for "zh_CN". Catalogs are built once by [Parse],
[ParseFS] or a [Builder] and are immutable afterwards, so a *Catalog may be
shared between goroutines without locking.

# Lookups

[Catalog.Lookup] compares the context name and the decoded source text
byte for byte. XML entities such as &apos; and &amp; are decoded at load
time, and surrounding whitespace is significant:

	c.Lookup("qfw::ColorPickerButton", "Choose ") // "选择 ", true
	c.Lookup("qfw::ColorPickerButton", "Choose")  // "", false

When the same source appears more than once in a context, the last
non-empty translation in document order wins. Placeholders such as %1 are
returned untouched.

# Formats

TS is the primary format. [WriteTS] re-encodes a catalog, [WritePO] exports
it as a gettext catalogue and [WriteYAML] / [ParseYAML] provide a plain
YAML representation. Resources whose name ends in ".zst" are decompressed
transparently by [ParseFS].
*/
package catalog
