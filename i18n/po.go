// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/leonelquinteros/gotext"

	"codeberg.org/pixivfe/tscatalog/catalog"
)

var poKeywords = []string{"msgctxt ", "msgid ", "msgid_plural ", "msgstr ", "msgstr["}

// poSource answers lookups from a gettext catalogue. TS contexts map to msgctxt.
type poSource struct {
	domain string
	po     *gotext.Po
}

// loadPO reads and parses a .po resource. gotext accepts any input, so the
// file is checked for gettext structure first.
func loadPO(fsys fs.FS, name, domain string) (*poSource, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, &catalog.LoadError{Path: name, Err: err}
	}

	if err := validatePO(data); err != nil {
		return nil, &catalog.LoadError{Path: name, Err: err}
	}

	po := gotext.NewPo()
	po.Parse(data)

	d := po.GetDomain()
	if len(d.Headers) == 0 && len(d.GetTranslations()) == 0 && len(d.GetCtxTranslations()) == 0 {
		return nil, &catalog.LoadError{Path: name, Err: fmt.Errorf("%w: no header or messages", catalog.ErrMalformed)}
	}

	return &poSource{domain: domain, po: po}, nil
}

// validatePO checks that data is UTF-8 and that every line is blank, a
// comment, a keyword line, or a quoted continuation with a closing quote.
func validatePO(data []byte) error {
	if !utf8.Valid(data) {
		return fmt.Errorf("%w: not valid UTF-8", catalog.ErrMalformed)
	}

	for i, raw := range bytes.Split(data, []byte("\n")) {
		line := strings.TrimSpace(string(raw))

		switch {
		case line == "", strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, `"`):
		case hasPOKeyword(line):
			_, line, _ = strings.Cut(line, " ")
			line = strings.TrimSpace(line)
		default:
			return fmt.Errorf("%w: line %d: unexpected %q", catalog.ErrMalformed, i+1, line)
		}

		if !isPOString(line) {
			return fmt.Errorf("%w: line %d: unterminated string", catalog.ErrMalformed, i+1)
		}
	}

	return nil
}

func hasPOKeyword(line string) bool {
	for _, k := range poKeywords {
		if strings.HasPrefix(line, k) {
			return true
		}
	}

	return false
}

// isPOString reports whether s is one double-quoted string whose closing
// quote is not escaped.
func isPOString(s string) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}

	escaped := false

	for _, c := range []byte(s[1 : len(s)-1]) {
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			return false
		}
	}

	return !escaped
}

func (s *poSource) Domain() string { return s.domain }

func (s *poSource) Lookup(context, source string) (string, bool) {
	if context == "" {
		if !s.po.IsTranslated(source) {
			return "", false
		}

		return s.po.Get(source), true
	}

	if !s.po.IsTranslatedC(source, context) {
		return "", false
	}

	return s.po.GetC(source, context), true
}
