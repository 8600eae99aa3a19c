// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/net/html/charset"
)

// DefaultVersion is the TS format version written for catalogs that do not declare one.
const DefaultVersion = "2.1"

const tsHeader = `<?xml version="1.0" encoding="utf-8"?>` + "\n" + `<!DOCTYPE TS>` + "\n"

// The ts* types mirror the TS document structure for encoding/xml.
type tsDocument struct {
	XMLName        xml.Name    `xml:"TS"`
	Version        string      `xml:"version,attr,omitempty"`
	Language       string      `xml:"language,attr,omitempty"`
	SourceLanguage string      `xml:"sourcelanguage,attr,omitempty"`
	Contexts       []tsContext `xml:"context"`
}

type tsContext struct {
	Name     string      `xml:"name"`
	Messages []tsMessage `xml:"message"`
}

type tsMessage struct {
	Numerus     string        `xml:"numerus,attr,omitempty"`
	Locations   []tsLocation  `xml:"location"`
	Source      string        `xml:"source"`
	Comment     string        `xml:"comment,omitempty"`
	Translation tsTranslation `xml:"translation"`
}

type tsLocation struct {
	Filename string `xml:"filename,attr,omitempty"`
	Line     string `xml:"line,attr,omitempty"`
}

type tsTranslation struct {
	Type  string   `xml:"type,attr,omitempty"`
	Text  string   `xml:",chardata"`
	Forms []string `xml:"numerusform"`
}

// Parse decodes a TS document from r.
//
// Entities are decoded once here, so lookups compare literal characters.
// Structural errors wrap [ErrMalformed]; a message without source text yields
// an error wrapping [ErrEmptySource].
func Parse(r io.Reader, opts ...Option) (*Catalog, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc tsDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	b := NewBuilder(doc.Language, opts...)
	b.SetVersion(doc.Version)
	b.SetSourceLocale(doc.SourceLanguage)

	// Relative line numbers ("+3") are relative to the previous location in the same file.
	lastLine := make(map[string]int)

	for _, tc := range doc.Contexts {
		if err := b.AddContext(tc.Name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		for _, tm := range tc.Messages {
			m := Message{
				Source:  tm.Source,
				Comment: tm.Comment,
				Type:    TranslationType(tm.Translation.Type),
			}

			if tm.Numerus == "yes" {
				m.Forms = tm.Translation.Forms
			} else {
				m.Translation = tm.Translation.Text
			}

			for _, tl := range tm.Locations {
				line, err := parseLine(tl.Line, lastLine[tl.Filename])
				if err != nil {
					return nil, fmt.Errorf("%w: context %q: %w", ErrMalformed, tc.Name, err)
				}

				lastLine[tl.Filename] = line

				m.Locations = append(m.Locations, Location{Filename: tl.Filename, Line: line})
			}

			if err := b.Add(tc.Name, m); err != nil {
				return nil, err
			}
		}
	}

	return b.Build(), nil
}

func parseLine(raw string, previous int) (int, error) {
	if raw == "" {
		return 0, nil
	}

	relative := raw[0] == '+' || raw[0] == '-'

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid location line %q: %w", raw, err)
	}

	if relative {
		return previous + n, nil
	}

	return n, nil
}

// ParseFS reads and decodes the catalog resource name from fsys.
// Names ending in ".zst" are decompressed with zstd first. Names ending in
// ".yaml" or ".yml" (before ".zst") are decoded with [ParseYAML]; anything
// else is read as TS.
//
// When the document does not declare a locale, the locale part of a file name
// of the form "<domain>.<locale>.ts" is used. The domain defaults the same way.
// All failures are returned as *[LoadError].
func ParseFS(fsys fs.FS, name string, opts ...Option) (*Catalog, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	defer f.Close()

	var r io.Reader = f

	if strings.HasSuffix(name, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, &LoadError{Path: name, Err: err}
		}
		defer zr.Close()

		r = zr
	}

	if domain, locale, ok := SplitName(name); ok {
		opts = append([]Option{WithDomain(domain), WithLocale(locale)}, opts...)
	}

	parse := Parse
	if IsYAMLName(name) {
		parse = ParseYAML
	}

	c, err := parse(r, opts...)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}

	return c, nil
}

// resourceExts lists the recognised catalog file extensions, longest first.
var resourceExts = []string{".ts.zst", ".yaml.zst", ".yml.zst", ".ts", ".yaml", ".yml", ".po"}

// IsYAMLName reports whether name is a YAML catalog resource, compressed or not.
func IsYAMLName(name string) bool {
	name = strings.TrimSuffix(name, ".zst")

	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// SplitName splits a resource file name such as "gallery.zh_CN.ts",
// "gallery.zh_CN.ts.zst" or "gallery.zh_CN.yaml" into its domain and locale parts.
// Directories are ignored. It reports false for names that do not follow the pattern.
func SplitName(name string) (domain, locale string, ok bool) {
	base := path.Base(name)

	for _, ext := range resourceExts {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)

			domain, locale, ok = strings.Cut(base, ".")
			if !ok || domain == "" || locale == "" {
				return "", "", false
			}

			return domain, locale, true
		}
	}

	return "", "", false
}

// WriteTS encodes c as a TS document.
// Entities are escaped by encoding/xml, so decoded content round-trips exactly.
func WriteTS(w io.Writer, c *Catalog) error {
	doc := tsDocument{
		Version:        c.version,
		Language:       c.language,
		SourceLanguage: c.sourceLanguage,
		Contexts:       make([]tsContext, 0, len(c.contexts)),
	}

	for _, ctx := range c.contexts {
		tc := tsContext{Name: ctx.Name, Messages: make([]tsMessage, 0, len(ctx.Messages))}

		for i := range ctx.Messages {
			tc.Messages = append(tc.Messages, toTSMessage(&ctx.Messages[i]))
		}

		doc.Contexts = append(doc.Contexts, tc)
	}

	var buf bytes.Buffer

	buf.WriteString(tsHeader)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "    ")

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode TS document: %w", err)
	}

	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())

	return err
}

func toTSMessage(m *Message) tsMessage {
	tm := tsMessage{
		Source:  m.Source,
		Comment: m.Comment,
		Translation: tsTranslation{
			Type: string(m.Type),
		},
	}

	if m.Numerus() {
		tm.Numerus = "yes"
		tm.Translation.Forms = m.Forms
	} else {
		tm.Translation.Text = m.Translation
	}

	for _, l := range m.Locations {
		tl := tsLocation{Filename: l.Filename}
		if l.Line > 0 {
			tl.Line = strconv.Itoa(l.Line)
		}

		tm.Locations = append(tm.Locations, tl)
	}

	return tm
}
