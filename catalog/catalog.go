// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"sort"
)

// TranslationType is the state of a translation as recorded by translator tooling.
type TranslationType string

// Translation states used in TS documents. The zero value marks a finished translation.
const (
	Finished   TranslationType = ""
	Unfinished TranslationType = "unfinished"
	Obsolete   TranslationType = "obsolete"
	Vanished   TranslationType = "vanished"
)

// Location points at the place in application source that uses a message.
// It is only meaningful to translator tooling and never used for lookups.
type Location struct {
	Filename string `yaml:"filename"`
	Line     int    `yaml:"line,omitempty"`
}

// Message is one source string and its translation.
type Message struct {
	Source      string
	Translation string
	Comment     string
	Type        TranslationType
	Locations   []Location

	// Forms holds the plural forms of a numerus message, in order.
	// Translation is set to the first form.
	Forms []string
}

// Numerus reports whether m carries plural forms.
func (m *Message) Numerus() bool {
	return len(m.Forms) > 0
}

// resolvable reports whether m may answer lookups.
func (m *Message) resolvable(skipUnfinished bool) bool {
	switch m.Type {
	case Obsolete, Vanished:
		return false
	case Unfinished:
		return !skipUnfinished && m.Translation != ""
	default:
		return m.Translation != ""
	}
}

// Context is a named group of messages, usually one per UI class.
type Context struct {
	Name     string
	Messages []Message
}

// Triple is a resolvable (context, source, translation) entry.
type Triple struct {
	Context     string `yaml:"context"`
	Source      string `yaml:"source"`
	Translation string `yaml:"translation"`
}

// Catalog is an immutable set of contexts for one locale and domain.
type Catalog struct {
	version        string
	language       string
	sourceLanguage string
	domain         string

	contexts []*Context
	// index maps context name, then source text, to the winning translation.
	index map[string]map[string]string
	size  int
}

// Version returns the TS format version declared by the document.
func (c *Catalog) Version() string { return c.version }

// Locale returns the locale identifier declared by the document, for example "zh_CN".
func (c *Catalog) Locale() string { return c.language }

// SourceLocale returns the declared source language, which may be empty.
func (c *Catalog) SourceLocale() string { return c.sourceLanguage }

// Domain returns the name of the catalog, for example "gallery".
func (c *Catalog) Domain() string { return c.domain }

// Len returns the number of messages, including duplicates and non-resolvable ones.
func (c *Catalog) Len() int { return c.size }

// Contexts returns the contexts in document order.
// The returned contexts must not be modified.
func (c *Catalog) Contexts() []*Context {
	out := make([]*Context, len(c.contexts))
	copy(out, c.contexts)

	return out
}

// Lookup returns the translation of source within the named context.
// The second result is false when no non-empty translation exists.
func (c *Catalog) Lookup(context, source string) (string, bool) {
	if c == nil {
		return "", false
	}

	msgs, ok := c.index[context]
	if !ok {
		return "", false
	}

	tr, ok := msgs[source]

	return tr, ok
}

// Resolve returns the translation of source within context, or source itself
// if the catalog has no translation for it.
func (c *Catalog) Resolve(context, source string) string {
	if tr, ok := c.Lookup(context, source); ok {
		return tr
	}

	return source
}

// Triples returns every resolvable entry after deduplication, sorted by
// context and then source.
func (c *Catalog) Triples() []Triple {
	out := make([]Triple, 0, c.size)

	for ctxName, msgs := range c.index {
		for src, tr := range msgs {
			out = append(out, Triple{Context: ctxName, Source: src, Translation: tr})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Context != out[j].Context {
			return out[i].Context < out[j].Context
		}

		return out[i].Source < out[j].Source
	})

	return out
}

// Stats summarises the translation state of a catalog.
type Stats struct {
	Contexts   int
	Messages   int
	Finished   int
	Unfinished int
	Obsolete   int
	Resolvable int
}

// Stats counts messages by translation state.
func (c *Catalog) Stats() Stats {
	s := Stats{Contexts: len(c.contexts), Messages: c.size}

	for _, ctx := range c.contexts {
		for i := range ctx.Messages {
			switch ctx.Messages[i].Type {
			case Unfinished:
				s.Unfinished++
			case Obsolete, Vanished:
				s.Obsolete++
			default:
				s.Finished++
			}
		}
	}

	for _, msgs := range c.index {
		s.Resolvable += len(msgs)
	}

	return s
}

// Builder assembles a Catalog. The zero value is not ready for use; call [NewBuilder].
type Builder struct {
	cat    *Catalog
	byName map[string]*Context
	opts   options
}

// NewBuilder returns a Builder for a catalog in the given locale.
func NewBuilder(locale string, opts ...Option) *Builder {
	b := &Builder{
		cat: &Catalog{
			version:  DefaultVersion,
			language: locale,
			index:    make(map[string]map[string]string),
		},
		byName: make(map[string]*Context),
	}

	for _, opt := range opts {
		opt(&b.opts)
	}

	if locale == "" {
		b.cat.language = b.opts.locale
	}

	b.cat.domain = b.opts.domain

	return b
}

// SetVersion overrides the TS format version written by [WriteTS].
func (b *Builder) SetVersion(v string) {
	if v != "" {
		b.cat.version = v
	}
}

// SetSourceLocale records the source language of the catalog.
func (b *Builder) SetSourceLocale(l string) {
	b.cat.sourceLanguage = l
}

// AddContext registers a context so that it is kept even when it has no messages.
// Contexts are kept in the order they were first seen.
func (b *Builder) AddContext(name string) error {
	if name == "" {
		return ErrEmptyContext
	}

	b.context(name)

	return nil
}

// Add appends m to the named context, creating the context if needed.
func (b *Builder) Add(context string, m Message) error {
	if context == "" {
		return ErrEmptyContext
	}

	if m.Source == "" {
		return fmt.Errorf("%w (context %q)", ErrEmptySource, context)
	}

	if len(m.Forms) > 0 && m.Translation == "" {
		m.Translation = m.Forms[0]
	}

	if b.opts.stripLocations {
		m.Locations = nil
	}

	ctx := b.context(context)
	ctx.Messages = append(ctx.Messages, m)
	b.cat.size++

	if !m.resolvable(b.opts.skipUnfinished) {
		return nil
	}

	msgs, ok := b.cat.index[context]
	if !ok {
		msgs = make(map[string]string)
		b.cat.index[context] = msgs
	}

	msgs[m.Source] = m.Translation

	return nil
}

// Build returns the assembled catalog. The Builder must not be used afterwards.
func (b *Builder) Build() *Catalog {
	c := b.cat
	b.cat = nil
	b.byName = nil

	return c
}

func (b *Builder) context(name string) *Context {
	if ctx, ok := b.byName[name]; ok {
		return ctx
	}

	ctx := &Context{Name: name}
	b.byName[name] = ctx
	b.cat.contexts = append(b.cat.contexts, ctx)

	return ctx
}

type options struct {
	domain         string
	locale         string
	skipUnfinished bool
	stripLocations bool
}

// Option configures how a catalog is built.
type Option func(*options)

// WithDomain names the catalog, for example "gallery" or "qfluentwidgets".
func WithDomain(domain string) Option {
	return func(o *options) { o.domain = domain }
}

// WithLocale sets the locale used when the document does not declare one.
func WithLocale(locale string) Option {
	return func(o *options) { o.locale = locale }
}

// SkipUnfinished excludes translations marked unfinished from lookups.
func SkipUnfinished() Option {
	return func(o *options) { o.skipUnfinished = true }
}

// StripLocations drops location hints at load time.
func StripLocations() Option {
	return func(o *options) { o.stripLocations = true }
}
