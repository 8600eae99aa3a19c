// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sync"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// defaultLogger returns the logger used when no logger is passed to [NewBundle].
func defaultLogger() zerolog.Logger {
	return log.With().Str("sys", "i18n").Logger()
}

// missingKeys deduplicates WARN logs for missing keys in strict mode.
// It is shared by every Locale of one Bundle.
type missingKeys struct {
	logger *zerolog.Logger

	// seen is keyed by locale+"\x00"+key.
	seen sync.Map
}

// logOnce logs a missing translation warning once per (locale, key) pair.
func (m *missingKeys) logOnce(locale, key string) {
	id := locale + "\x00" + key
	if _, loaded := m.seen.LoadOrStore(id, struct{}{}); !loaded {
		m.logger.Warn().
			Str("locale", locale).
			Str("key", key).
			Msg("Missing i18n translation")
	}
}

// strippedTagString removes variants to form a stable key using base, script and region only.
func strippedTagString(tag language.Tag) string {
	b, s, r := tag.Raw()
	stripped, _ := language.Compose(b, s, r)

	return stripped.String()
}

// buildLogKey composes the logging key like gettext "ctx<sep>source" when context is present.
func buildLogKey(ctxKey, id string) string {
	if ctxKey != "" {
		return ctxKey + gotext.EotSeparator + id
	}

	return id
}
