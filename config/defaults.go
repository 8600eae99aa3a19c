// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default catalog load timeout in seconds.
	defaultLoadTimeoutSeconds = 10

	defaultRateLimit = 20
	defaultRateBurst = 40
)

// DefaultDomains installs the widget library before the application that
// uses it, and the lookup service's own messages last.
var DefaultDomains = []string{"qfluentwidgets", "gallery", "tscatalog"}

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.I18n.Language = "auto"
	cfg.I18n.Dir = "resources/i18n"
	cfg.I18n.Domains = append([]string(nil), DefaultDomains...)
	cfg.I18n.StrictMissingKeys = false
	cfg.I18n.SkipUnfinished = false
	cfg.I18n.StripLocations = false
	cfg.I18n.LoadTimeout = defaultLoadTimeoutSeconds * time.Second

	cfg.Server.Host = "localhost"
	cfg.Server.Port = "8282"
	cfg.Server.UnixSocket = ""
	cfg.Server.RateLimit = defaultRateLimit
	cfg.Server.RateBurst = defaultRateBurst

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Development.InDevelopment = false
	cfg.Development.TraceFile = ""
}
