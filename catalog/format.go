// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Format names an encoding understood by [Encode].
type Format string

const (
	FormatTS   Format = "ts"
	FormatPO   Format = "po"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned by [ParseFormat] for unsupported format names.
var ErrUnknownFormat = errors.New("unknown catalog format")

// ParseFormat accepts "ts", "po", "yaml" and "yml", ignoring case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ts":
		return FormatTS, nil
	case "po":
		return FormatPO, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the media type used when serving f.
func (f Format) ContentType() string {
	switch f {
	case FormatTS:
		return "application/xml; charset=utf-8"
	case FormatPO:
		return "text/x-gettext-translation; charset=utf-8"
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Encode writes c to w in format f.
func Encode(w io.Writer, c *Catalog, f Format) error {
	switch f {
	case FormatTS:
		return WriteTS(w, c)
	case FormatPO:
		return WritePO(w, c)
	case FormatYAML:
		return WriteYAML(w, c)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}
