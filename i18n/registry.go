// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sync/atomic"
)

// Registry publishes the active locale of an application.
//
// Readers never block: the active Locale is swapped with a single atomic
// store after the new Locale is fully built, so a lookup sees either the old
// or the new locale and never a mix of both.
type Registry struct {
	bundle  *Bundle
	current atomic.Pointer[Locale]
}

// NewRegistry returns a Registry over b with the base locale active.
func NewRegistry(b *Bundle) *Registry {
	r := &Registry{bundle: b}
	r.current.Store(b.Base())

	return r
}

// Bundle returns the bundle the registry selects locales from.
func (r *Registry) Bundle() *Bundle {
	return r.bundle
}

// SetLocale makes the locale id active.
// On error the active locale is left unchanged.
func (r *Registry) SetLocale(id string) error {
	loc, err := r.bundle.Load(id)
	if err != nil {
		return err
	}

	r.Use(loc)

	return nil
}

// Use makes loc active. A nil loc selects the base locale.
func (r *Registry) Use(loc *Locale) {
	if loc == nil {
		loc = r.bundle.Base()
	}

	prev := r.current.Swap(loc)

	if prev != loc {
		r.bundle.logger.Info().
			Str("from", prev.ID()).
			Str("to", loc.ID()).
			Msg("Switched locale")
	}
}

// Locale returns the active locale.
func (r *Registry) Locale() *Locale {
	return r.current.Load()
}

// CurrentLocale returns the id of the active locale, for example "zh_CN".
func (r *Registry) CurrentLocale() string {
	return r.current.Load().ID()
}

// Resolve translates source within context using the active locale.
// See [Locale.Resolve].
func (r *Registry) Resolve(context, source string) string {
	return r.current.Load().Resolve(context, source)
}
