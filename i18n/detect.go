// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"github.com/cloudfoundry/jibber_jabber"
	"golang.org/x/text/language"
)

// DetectSystemLocale returns the locale id for the "auto" language setting,
// derived from the locale of the operating system.
//
// Chinese in mainland China or Singapore maps to "zh_CN", and Chinese in
// Hong Kong or Taiwan maps to "zh_HK". Other locales are returned as detected.
// If detection fails, BaseLocale is returned.
func DetectSystemLocale() string {
	return detectLocale(jibber_jabber.DetectIETF)
}

// detectLocale extracts the user locale using langDetector.
func detectLocale(langDetector func() (string, error)) string {
	raw, err := langDetector()
	if err != nil {
		return BaseLocale
	}

	t, err := parseLocaleID(raw)
	if err != nil {
		return BaseLocale
	}

	return systemLocaleID(t)
}

func systemLocaleID(t language.Tag) string {
	base, _ := t.Base()
	if base.String() != "zh" {
		return localeID(t)
	}

	// Region is inferred when missing, so "zh" alone counts as mainland China.
	region, _ := t.Region()

	switch region.String() {
	case "CN", "SG":
		return "zh_CN"
	case "HK", "TW":
		return "zh_HK"
	default:
		return localeID(t)
	}
}
