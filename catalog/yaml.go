// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

type yamlDocument struct {
	Version  string        `yaml:"version,omitempty"`
	Language string        `yaml:"language"`
	Domain   string        `yaml:"domain,omitempty"`
	Contexts []yamlContext `yaml:"contexts"`
}

type yamlContext struct {
	Name     string        `yaml:"name"`
	Messages []yamlMessage `yaml:"messages"`
}

type yamlMessage struct {
	Source      string     `yaml:"source"`
	Translation string     `yaml:"translation"`
	Comment     string     `yaml:"comment,omitempty"`
	Type        string     `yaml:"type,omitempty"`
	Forms       []string   `yaml:"forms,omitempty"`
	Locations   []Location `yaml:"locations,omitempty"`
}

// WriteYAML encodes every message of c, in document order, as YAML.
func WriteYAML(w io.Writer, c *Catalog) error {
	doc := yamlDocument{
		Version:  c.version,
		Language: c.language,
		Domain:   c.domain,
		Contexts: make([]yamlContext, 0, len(c.contexts)),
	}

	for _, ctx := range c.contexts {
		yc := yamlContext{Name: ctx.Name, Messages: make([]yamlMessage, 0, len(ctx.Messages))}

		for _, m := range ctx.Messages {
			ym := yamlMessage{
				Source:    m.Source,
				Comment:   m.Comment,
				Type:      string(m.Type),
				Forms:     m.Forms,
				Locations: m.Locations,
			}
			if !m.Numerus() {
				ym.Translation = m.Translation
			}

			yc.Messages = append(yc.Messages, ym)
		}

		doc.Contexts = append(doc.Contexts, yc)
	}

	if err := yaml.NewEncoder(w, yaml.Indent(2)).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML catalog: %w", err)
	}

	return nil
}

// ParseYAML decodes a catalog written by [WriteYAML].
func ParseYAML(r io.Reader, opts ...Option) (*Catalog, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if doc.Domain != "" {
		opts = append([]Option{WithDomain(doc.Domain)}, opts...)
	}

	b := NewBuilder(doc.Language, opts...)
	b.SetVersion(doc.Version)

	for _, yc := range doc.Contexts {
		if err := b.AddContext(yc.Name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		for _, ym := range yc.Messages {
			err := b.Add(yc.Name, Message{
				Source:      ym.Source,
				Translation: ym.Translation,
				Comment:     ym.Comment,
				Type:        TranslationType(ym.Type),
				Forms:       ym.Forms,
				Locations:   ym.Locations,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return b.Build(), nil
}
