// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WritePO exports the resolvable entries of c as a gettext catalogue.
//
// Each TS context becomes a msgctxt, so the (context, source) key is kept.
// Duplicate keys are written once with their winning translation and the
// union of their locations as "#:" references.
func WritePO(w io.Writer, c *Catalog) error {
	var b strings.Builder

	writePOHeader(&b, c)

	refs := c.references()
	triples := c.Triples()

	for i, t := range triples {
		if rs := refs[Triple{Context: t.Context, Source: t.Source}]; len(rs) > 0 {
			fmt.Fprint(&b, "#:")

			for _, r := range rs {
				fmt.Fprintf(&b, " %s:%d", r.Filename, r.Line)
			}

			fmt.Fprintln(&b)
		}

		fmt.Fprintf(&b, "msgctxt %s\n", poString(t.Context))
		fmt.Fprintf(&b, "msgid %s\n", poString(t.Source))
		fmt.Fprintf(&b, "msgstr %s\n", poString(t.Translation))

		if i < len(triples)-1 {
			fmt.Fprintln(&b)
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// poEscaper applies the C escapes gettext understands. Other runes,
// non-ASCII and invisible ones included, are written as UTF-8.
var poEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// poString quotes s as a PO string literal.
func poString(s string) string {
	return `"` + poEscaper.Replace(s) + `"`
}

// references collects deduplicated, sorted locations per (context, source).
// The Translation field of the map key is always empty.
func (c *Catalog) references() map[Triple][]Location {
	out := make(map[Triple][]Location)

	for _, ctx := range c.contexts {
		for i := range ctx.Messages {
			m := &ctx.Messages[i]
			k := Triple{Context: ctx.Name, Source: m.Source}
			out[k] = append(out[k], m.Locations...)
		}
	}

	for k, rs := range out {
		sort.Slice(rs, func(i, j int) bool {
			if rs[i].Filename != rs[j].Filename {
				return rs[i].Filename < rs[j].Filename
			}

			return rs[i].Line < rs[j].Line
		})

		// After sorting, duplicates are adjacent.
		deduped := rs[:0]
		for _, r := range rs {
			if len(deduped) == 0 || r != deduped[len(deduped)-1] {
				deduped = append(deduped, r)
			}
		}

		out[k] = deduped
	}

	return out
}

func writePOHeader(b *strings.Builder, c *Catalog) {
	language := c.language
	if language == "" {
		language = "C"
	}

	fmt.Fprintln(b, `msgid ""`)
	fmt.Fprintln(b, `msgstr ""`)
	fmt.Fprintf(b, "\"Project-Id-Version: %s\\n\"\n", c.domain)
	fmt.Fprintf(b, "\"Language: %s\\n\"\n", language)
	fmt.Fprintln(b, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(b, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(b, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(b, `"Plural-Forms: nplurals=1; plural=0;\n"`)
	fmt.Fprintln(b)
}
